package settlement

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uber-go/tally/v4"
	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func minedTransaction(hash common.Hash, blockNumber uint64) *chain.Transaction {
	return &chain.Transaction{
		Hash:           hash,
		BlockNumber:    pointer.Ref(blockNumber),
		BlockHash:      pointer.Ref(common.BigToHash(new(big.Int).SetUint64(blockNumber))),
		BlockTimestamp: pointer.Ref(baseTime),
	}
}

func (s *settlementTestSuite) TestRewardTracker_Isolation() {
	require := testutil.Require(s.T())

	tx1 := common.HexToHash("0x01")
	tx2 := common.HexToHash("0x02")
	tx3 := common.HexToHash("0x03")
	s.listenStorage.EXPECT().GetPendingRewardListens(gomock.Any()).Return([]*model.ListenRecord{
		{ID: "l1", RewardTxHash: tx1.Hex(), Date: baseTime},
		{ID: "l2", RewardTxHash: tx2.Hex(), Date: baseTime},
		{ID: "l3", RewardTxHash: tx3.Hex(), Date: baseTime},
	}, nil)

	s.chain.EXPECT().GetTransaction(gomock.Any(), tx1).Return(minedTransaction(tx1, 10), nil)
	s.chain.EXPECT().GetTransaction(gomock.Any(), tx2).Return(nil, xerrors.New("rpc failure"))
	s.chain.EXPECT().GetTransaction(gomock.Any(), tx3).Return(minedTransaction(tx3, 30), nil)

	s.listenStorage.EXPECT().ConfirmRewardListen(gomock.Any(), "l1", uint64(10), minedTransaction(tx1, 10).BlockHash.Hex()).Return(nil)
	s.listenStorage.EXPECT().ConfirmRewardListen(gomock.Any(), "l3", uint64(30), minedTransaction(tx3, 30).BlockHash.Hex()).Return(nil)

	require.NoError(s.rewardTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestRewardTracker_SharedTransaction() {
	require := testutil.Require(s.T())

	tx := common.HexToHash("0x01")
	s.listenStorage.EXPECT().GetPendingRewardListens(gomock.Any()).Return([]*model.ListenRecord{
		{ID: "l1", RewardTxHash: tx.Hex(), Date: baseTime},
		{ID: "l2", RewardTxHash: tx.Hex(), Date: baseTime},
		{ID: "l3", RewardTxHash: tx.Hex(), Date: baseTime},
	}, nil)
	s.chain.EXPECT().GetTransaction(gomock.Any(), tx).Return(minedTransaction(tx, 10), nil)

	blockHash := minedTransaction(tx, 10).BlockHash.Hex()
	s.listenStorage.EXPECT().ConfirmRewardListen(gomock.Any(), "l1", uint64(10), blockHash).Return(nil)
	s.listenStorage.EXPECT().ConfirmRewardListen(gomock.Any(), "l2", uint64(10), blockHash).Return(xerrors.New("unavailable"))
	s.listenStorage.EXPECT().ConfirmRewardListen(gomock.Any(), "l3", uint64(10), blockHash).Return(nil)

	require.NoError(s.rewardTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestRewardTracker_NotMined() {
	require := testutil.Require(s.T())

	tx := common.HexToHash("0x01")
	s.listenStorage.EXPECT().GetPendingRewardListens(gomock.Any()).Return([]*model.ListenRecord{
		{ID: "l1", RewardTxHash: tx.Hex(), Date: baseTime.Add(-48 * time.Hour)},
	}, nil)
	s.chain.EXPECT().GetTransaction(gomock.Any(), tx).Return(&chain.Transaction{Hash: tx}, nil)

	// The listen stays pending, no matter how old it is.
	require.NoError(s.rewardTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestRewardTracker_Reverted() {
	require := testutil.Require(s.T())

	tx := common.HexToHash("0x01")
	s.listenStorage.EXPECT().GetPendingRewardListens(gomock.Any()).Return([]*model.ListenRecord{
		{ID: "l1", RewardTxHash: tx.Hex(), Date: baseTime},
	}, nil)
	reverted := minedTransaction(tx, 10)
	reverted.Reverted = true
	s.chain.EXPECT().GetTransaction(gomock.Any(), tx).Return(reverted, nil)

	require.NoError(s.rewardTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestRewardTracker_StorageFailure() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().GetPendingRewardListens(gomock.Any()).Return(nil, xerrors.New("unavailable"))

	require.Error(s.rewardTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestRewardTracker_CheckAge() {
	require := testutil.Require(s.T())

	scope := tally.NewTestScope("", nil)
	s.rewardTracker.metrics = newTrackerMetrics(scope)
	staleCount := func() int64 {
		counter, ok := scope.Snapshot().Counters()["pending_stale+"]
		if !ok {
			return 0
		}
		return counter.Value()
	}

	// Listens which waited weeks for their podcast to be minted are not stale once paid.
	now := baseTime
	listens := []*model.ListenRecord{
		{ID: "l1", Date: now.Add(-30 * 24 * time.Hour), RewardSubmittedAt: now.Add(-time.Hour)},
		{ID: "l2", Date: now.Add(-60 * 24 * time.Hour), RewardSubmittedAt: now.Add(-2 * time.Hour)},
	}
	s.rewardTracker.checkAge(s.app.Logger(), listens, now)
	require.Equal(int64(0), staleCount())

	listens = append(listens, &model.ListenRecord{ID: "l3", Date: now.Add(-25 * time.Hour), RewardSubmittedAt: now.Add(-25 * time.Hour)})
	s.rewardTracker.checkAge(s.app.Logger(), listens, now)
	require.Equal(int64(1), staleCount())

	// Without a submission time the age is unknown.
	s.rewardTracker.checkAge(s.app.Logger(), []*model.ListenRecord{
		{ID: "l4", Date: now.Add(-60 * 24 * time.Hour)},
	}, now)
	require.Equal(int64(1), staleCount())
}
