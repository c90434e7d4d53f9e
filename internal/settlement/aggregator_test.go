package settlement

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

var (
	walletAddress = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	paymentHash   = common.HexToHash("0xfeed")
)

func newTestWallet() *model.Wallet {
	return &model.Wallet{ID: "W", Address: walletAddress.Hex()}
}

func (s *settlementTestSuite) expectAggregation() {
	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return([]*model.ListenRecord{
		{ID: "l1", UserID: "W", SeriesID: "S5"},
		{ID: "l2", UserID: "W", SeriesID: "S5"},
		{ID: "l3", UserID: "W", SeriesID: "S9"},
	}, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p5", SeriesID: "S5", FractionBaseID: pointer.Ref(uint64(5))},
		{ID: "p9", SeriesID: "S9"},
	}, nil)
}

func (s *settlementTestSuite) TestSettle() {
	require := testutil.Require(s.T())

	s.expectAggregation()
	key := intentKey("W", []string{"l1", "l2"})
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", []string{"l1", "l2"}).Return(nil, nil)
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5}, []uint64{2}).Return(paymentHash, nil)
	s.settlementStorage.EXPECT().RecordSettlementIntent(gomock.Any(), &model.SettlementIntent{
		Key:       key,
		WalletID:  "W",
		Address:   walletAddress.Hex(),
		TxHash:    paymentHash.Hex(),
		ListenIDs: []string{"l1", "l2"},
		CreatedAt: s.timeSource.Now(),
	}).Return(nil)
	// The listen of the podcast which is not minted yet stays unsettled.
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2"}, paymentHash.Hex(), s.timeSource.Now()).Return(2, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(2)).Return(nil)

	txHash, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.True(ok)
	require.Equal(paymentHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestSettle_MultiplePodcasts() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return([]*model.ListenRecord{
		{ID: "l1", SeriesID: "S9"},
		{ID: "l2", SeriesID: "S5"},
		{ID: "l3", SeriesID: "S9"},
		{ID: "l4", SeriesID: "S9"},
	}, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p5", SeriesID: "S5", FractionBaseID: pointer.Ref(uint64(5))},
		{ID: "p9", SeriesID: "S9", FractionBaseID: pointer.Ref(uint64(9))},
	}, nil)
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", gomock.Any()).Return(nil, nil)
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5, 9}, []uint64{1, 3}).Return(paymentHash, nil)
	s.settlementStorage.EXPECT().RecordSettlementIntent(gomock.Any(), gomock.Any()).Return(nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2", "l3", "l4"}, paymentHash.Hex(), gomock.Any()).Return(4, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(4)).Return(nil)

	_, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.True(ok)
}

func (s *settlementTestSuite) TestSettle_NoUnsettledListen() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return(nil, nil)

	_, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.False(ok)
}

func (s *settlementTestSuite) TestSettle_NoMintedPodcast() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return([]*model.ListenRecord{
		{ID: "l3", SeriesID: "S9"},
	}, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return(nil, nil)

	_, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.False(ok)
}

func (s *settlementTestSuite) TestSettle_PaymentFailure() {
	require := testutil.Require(s.T())

	s.expectAggregation()
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", gomock.Any()).Return(nil, nil)
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5}, []uint64{2}).Return(common.Hash{}, xerrors.New("insufficient funds"))

	// Nothing is stamped so that the next run pays the same listens.
	txHash, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.False(ok)
	require.Empty(txHash)
}

func (s *settlementTestSuite) TestSettle_Replay() {
	require := testutil.Require(s.T())

	s.expectAggregation()
	submittedAt := s.timeSource.Now().Add(-time.Hour)
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", []string{"l1", "l2"}).Return([]*model.SettlementIntent{
		{
			Key:       intentKey("W", []string{"l1", "l2"}),
			WalletID:  "W",
			TxHash:    paymentHash.Hex(),
			ListenIDs: []string{"l1", "l2"},
			CreatedAt: submittedAt,
		},
	}, nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2"}, paymentHash.Hex(), submittedAt).Return(2, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(2)).Return(nil)

	txHash, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.True(ok)
	require.Equal(paymentHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestSettle_ReplayWithNewListens() {
	require := testutil.Require(s.T())

	// l1 and l2 were paid by a run which failed to stamp them, l4 arrived with the next import.
	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return([]*model.ListenRecord{
		{ID: "l1", UserID: "W", SeriesID: "S5"},
		{ID: "l2", UserID: "W", SeriesID: "S5"},
		{ID: "l4", UserID: "W", SeriesID: "S5"},
	}, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p5", SeriesID: "S5", FractionBaseID: pointer.Ref(uint64(5))},
	}, nil)

	submittedAt := s.timeSource.Now().Add(-time.Hour)
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", []string{"l1", "l2", "l4"}).Return([]*model.SettlementIntent{
		{
			Key:       intentKey("W", []string{"l1", "l2"}),
			WalletID:  "W",
			TxHash:    paymentHash.Hex(),
			ListenIDs: []string{"l1", "l2"},
			CreatedAt: submittedAt,
		},
	}, nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2"}, paymentHash.Hex(), submittedAt).Return(2, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(2)).Return(nil)

	// Only the new listen is paid.
	newHash := common.HexToHash("0xbeef")
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5}, []uint64{1}).Return(newHash, nil)
	s.settlementStorage.EXPECT().RecordSettlementIntent(gomock.Any(), &model.SettlementIntent{
		Key:       intentKey("W", []string{"l4"}),
		WalletID:  "W",
		Address:   walletAddress.Hex(),
		TxHash:    newHash.Hex(),
		ListenIDs: []string{"l4"},
		CreatedAt: s.timeSource.Now(),
	}).Return(nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l4"}, newHash.Hex(), s.timeSource.Now()).Return(1, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(1)).Return(nil)

	txHash, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.True(ok)
	require.Equal(newHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestSettle_ReplayLookupFailure() {
	require := testutil.Require(s.T())

	s.expectAggregation()
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", gomock.Any()).Return(nil, xerrors.New("unavailable"))

	// Nothing is paid while previous payments cannot be ruled out.
	_, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.False(ok)
}

func (s *settlementTestSuite) TestSettle_StampFailure() {
	require := testutil.Require(s.T())

	s.expectAggregation()
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", gomock.Any()).Return(nil, nil)
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5}, []uint64{2}).Return(paymentHash, nil)
	s.settlementStorage.EXPECT().RecordSettlementIntent(gomock.Any(), gomock.Any()).Return(nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2"}, paymentHash.Hex(), gomock.Any()).Return(0, xerrors.New("unavailable"))

	// The payment went through, so its hash is reported even though the listens are not stamped yet.
	txHash, ok := s.aggregator.Settle(context.Background(), newTestWallet())
	require.True(ok)
	require.Equal(paymentHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestSettle_InvalidAddress() {
	require := testutil.Require(s.T())

	_, ok := s.aggregator.Settle(context.Background(), &model.Wallet{ID: "W", Address: "not-an-address"})
	require.False(ok)
}

func (s *settlementTestSuite) TestSettleUser() {
	require := testutil.Require(s.T())

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.expectAggregation()
	s.settlementStorage.EXPECT().GetSettlementIntentsByListens(gomock.Any(), "W", gomock.Any()).Return(nil, nil)
	s.chain.EXPECT().PayUser(gomock.Any(), walletAddress, []uint64{5}, []uint64{2}).Return(paymentHash, nil)
	s.settlementStorage.EXPECT().RecordSettlementIntent(gomock.Any(), gomock.Any()).Return(nil)
	s.listenStorage.EXPECT().StampRewardTx(gomock.Any(), []string{"l1", "l2"}, paymentHash.Hex(), gomock.Any()).Return(2, nil)
	s.consumedContentStorage.EXPECT().IncrementConsumedContent(gomock.Any(), "W", int64(2)).Return(nil)

	txHash, err := s.aggregator.SettleUser(context.Background(), "W")
	require.NoError(err)
	require.Equal(paymentHash.Hex(), txHash)
}

func (s *settlementTestSuite) TestSettleUser_Errors() {
	require := testutil.Require(s.T())

	_, err := s.aggregator.SettleUser(context.Background(), "")
	require.Error(err)
	require.Equal(KindInvalidArgument, KindOf(err))

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "U").Return(nil, storage.ErrItemNotFound)
	_, err = s.aggregator.SettleUser(context.Background(), "U")
	require.Error(err)
	require.Equal(KindNotFound, KindOf(err))
	require.True(xerrors.Is(err, storage.ErrItemNotFound))

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return(nil, nil)
	txHash, err := s.aggregator.SettleUser(context.Background(), "W")
	require.NoError(err)
	require.Empty(txHash)

	s.walletStorage.EXPECT().GetWallet(gomock.Any(), "W").Return(newTestWallet(), nil)
	s.listenStorage.EXPECT().GetUnsettledListens(gomock.Any(), "W").Return(nil, xerrors.New("unavailable"))
	_, err = s.aggregator.SettleUser(context.Background(), "W")
	require.Error(err)
	require.Equal(KindInternal, KindOf(err))
}

func (s *settlementTestSuite) TestIntentKey() {
	require := testutil.Require(s.T())

	key := intentKey("W", []string{"b", "a", "c"})
	require.Equal(key, intentKey("W", []string{"a", "b", "c"}))
	require.NotEqual(key, intentKey("X", []string{"a", "b", "c"}))
	require.NotEqual(key, intentKey("W", []string{"a", "b"}))
	require.Len(key, 36)
}
