package settlement

import (
	"context"

	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func (s *settlementTestSuite) TestResolve() {
	require := testutil.Require(s.T())

	s.walletStorage.EXPECT().GetWallets(gomock.Any(), []string{"A", "B", "C"}).Return([]*model.Wallet{
		{ID: "A", Address: walletAddress.Hex()},
		{ID: "B", Address: "invalid"},
	}, nil)

	wallets := s.walletResolver.Resolve(context.Background(), []string{"A", "B", "C"})
	require.Len(wallets, 1)
	require.Equal("A", wallets[0].ID)
}

func (s *settlementTestSuite) TestResolve_Failure() {
	require := testutil.Require(s.T())

	require.Empty(s.walletResolver.Resolve(context.Background(), nil))

	s.walletStorage.EXPECT().GetWallets(gomock.Any(), []string{"A"}).Return(nil, xerrors.New("unavailable"))
	require.Empty(s.walletResolver.Resolve(context.Background(), []string{"A"}))
}

func (s *settlementTestSuite) TestRegister() {
	require := testutil.Require(s.T())

	s.walletStorage.EXPECT().CreateIfAbsent(gomock.Any(), &model.Wallet{ID: "A", Address: walletAddress.Hex()}).
		DoAndReturn(func(ctx context.Context, wallet *model.Wallet) (*model.Wallet, error) {
			return wallet, nil
		})

	wallet, err := s.walletResolver.Register(context.Background(), "A", "0x00000000000000000000000000000000000000AA")
	require.NoError(err)
	require.Equal(walletAddress.Hex(), wallet.Address)

	_, err = s.walletResolver.Register(context.Background(), "A", "0x1234")
	require.Equal(KindInvalidArgument, KindOf(err))
}
