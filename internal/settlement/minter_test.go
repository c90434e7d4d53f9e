package settlement

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

var podcastInfo = model.PodcastInfo{
	Name:            "My podcast",
	Description:     "About things",
	Image:           "https://example.com/cover.png",
	BackgroundColor: "rgb(0, 0, 0)",
}

func (s *settlementTestSuite) TestLaunchPodcastMint() {
	require := testutil.Require(s.T())

	mintHash := common.HexToHash("0x0a")
	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "S").Return(nil, storage.ErrItemNotFound)
	s.chain.EXPECT().AddPodcast(gomock.Any(), walletAddress).Return(mintHash, nil)
	s.podcastStorage.EXPECT().CreatePodcastMint(gomock.Any(), &model.MintedPodcast{
		SeriesID:  "S",
		OwnerID:   "W",
		TxHash:    mintHash.Hex(),
		Info:      podcastInfo,
		CreatedAt: s.timeSource.Now(),
	}).DoAndReturn(func(ctx context.Context, podcast *model.MintedPodcast) (*model.MintedPodcast, error) {
		podcast.ID = "p1"
		return podcast, nil
	})

	txHash, err := s.minter.LaunchPodcastMint(context.Background(), "W", "S", podcastInfo)
	require.NoError(err)
	require.Equal(mintHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestLaunchPodcastMint_AlreadyMinted() {
	require := testutil.Require(s.T())

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "S").Return(&model.MintedPodcast{ID: "p1", SeriesID: "S"}, nil)

	_, err := s.minter.LaunchPodcastMint(context.Background(), "W", "S", podcastInfo)
	require.Error(err)
	require.Equal(KindAlreadyExists, KindOf(err))
}

func (s *settlementTestSuite) TestLaunchPodcastMint_Errors() {
	require := testutil.Require(s.T())

	_, err := s.minter.LaunchPodcastMint(context.Background(), "W", "", podcastInfo)
	require.Equal(KindInvalidArgument, KindOf(err))

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "U").Return(nil, storage.ErrItemNotFound)
	_, err = s.minter.LaunchPodcastMint(context.Background(), "U", "S", podcastInfo)
	require.Equal(KindNotFound, KindOf(err))

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "S").Return(nil, storage.ErrItemNotFound)
	s.chain.EXPECT().AddPodcast(gomock.Any(), walletAddress).Return(common.Hash{}, xerrors.New("nonce too low"))
	_, err = s.minter.LaunchPodcastMint(context.Background(), "W", "S", podcastInfo)
	require.Equal(KindInternal, KindOf(err))
}

func (s *settlementTestSuite) TestBuyFraction() {
	require := testutil.Require(s.T())

	buyHash := common.HexToHash("0x0b")
	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "S").
		Return(&model.MintedPodcast{ID: "p1", SeriesID: "S", FractionBaseID: pointer.Ref(uint64(5))}, nil)
	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.chain.EXPECT().MintFraction(gomock.Any(), fraction.ID(83), walletAddress, uint64(2)).Return(buyHash, nil)
	s.walletStorage.EXPECT().AddFraction(gomock.Any(), "W", &model.OwnedFraction{
		SeriesID:  "S",
		TokenType: fraction.TokenTypeCommon,
		Count:     2,
		TxHash:    buyHash.Hex(),
	}).Return(nil)

	txHash, err := s.minter.BuyFraction(context.Background(), "W", "S", fraction.TokenTypeCommon, 2)
	require.NoError(err)
	require.Equal(buyHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestBuyFraction_Errors() {
	require := testutil.Require(s.T())

	_, err := s.minter.BuyFraction(context.Background(), "W", "S", fraction.TokenTypeCommon, 0)
	require.Equal(KindInvalidArgument, KindOf(err))

	_, err = s.minter.BuyFraction(context.Background(), "W", "S", fraction.TokenTypeCreatorNft, 1)
	require.Equal(KindInvalidArgument, KindOf(err))

	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "S").Return(&model.MintedPodcast{ID: "p1", SeriesID: "S"}, nil)
	_, err = s.minter.BuyFraction(context.Background(), "W", "S", fraction.TokenTypeRare, 1)
	require.Equal(KindNotFound, KindOf(err))

	s.podcastStorage.EXPECT().GetPodcastBySeriesID(gomock.Any(), "X").Return(nil, storage.ErrItemNotFound)
	_, err = s.minter.BuyFraction(context.Background(), "W", "X", fraction.TokenTypeRare, 1)
	require.Equal(KindNotFound, KindOf(err))
}
