package chain

import (
	"context"
	"crypto/ecdsa"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain/ethmocks"
	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/testapp"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

type clientTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	app        testapp.TestApp
	config     *config.Config
	ethClient  *ethmocks.MockEthClient
	privateKey *ecdsa.PrivateKey
	client     Client
}

var (
	listener = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	creator  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	txHash   = common.HexToHash("0x01")
)

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}

func (s *clientTestSuite) SetupTest() {
	require := testutil.Require(s.T())

	s.ctrl = gomock.NewController(s.T())
	s.ethClient = ethmocks.NewMockEthClient(s.ctrl)

	privateKey, err := crypto.GenerateKey()
	require.NoError(err)
	s.privateKey = privateKey

	cfg, err := config.New()
	require.NoError(err)
	cfg.Chain.ReceiptPollInterval = time.Millisecond
	s.config = cfg

	s.app = testapp.New(
		s.T(),
		testapp.WithConfig(cfg),
		fx.Provide(func(params fxparams.Params) (Client, error) {
			return newClient(params, s.ethClient, s.privateKey)
		}),
		fx.Populate(&s.client),
	)
}

func (s *clientTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}

func (s *clientTestSuite) expectTransact() *gomock.Call {
	s.ethClient.EXPECT().HeaderByNumber(gomock.Any(), gomock.Any()).AnyTimes().
		Return(&types.Header{Number: big.NewInt(100), BaseFee: big.NewInt(1_000_000_000)}, nil)
	s.ethClient.EXPECT().SuggestGasTipCap(gomock.Any()).AnyTimes().Return(big.NewInt(1_000_000_000), nil)
	s.ethClient.EXPECT().SuggestGasPrice(gomock.Any()).AnyTimes().Return(big.NewInt(2_000_000_000), nil)
	s.ethClient.EXPECT().PendingNonceAt(gomock.Any(), crypto.PubkeyToAddress(s.privateKey.PublicKey)).AnyTimes().Return(uint64(7), nil)
	s.ethClient.EXPECT().PendingCodeAt(gomock.Any(), gomock.Any()).AnyTimes().Return([]byte{0x60}, nil)
	s.ethClient.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).AnyTimes().Return(uint64(100_000), nil)
	return s.ethClient.EXPECT().SendTransaction(gomock.Any(), gomock.Any())
}

func (s *clientTestSuite) TestPayUser() {
	require := testutil.Require(s.T())

	var sent *types.Transaction
	s.expectTransact().Times(1).DoAndReturn(func(ctx context.Context, tx *types.Transaction) error {
		sent = tx
		return nil
	})

	hash, err := s.client.PayUser(context.Background(), listener, []uint64{5, 9}, []uint64{2, 1})
	require.NoError(err)
	require.NotNil(sent)
	require.Equal(sent.Hash(), hash)
	require.Equal(s.config.Chain.Contracts.Rewarder, *sent.To())
	require.Equal(uint64(7), sent.Nonce())

	method, err := rewarderABI.MethodById(sent.Data()[:4])
	require.NoError(err)
	require.Equal(methodPayUser, method.Name)
	args, err := method.Inputs.Unpack(sent.Data()[4:])
	require.NoError(err)
	require.Equal(listener, args[0])
	require.Equal([]*big.Int{big.NewInt(5), big.NewInt(9)}, args[1])
	require.Equal([]*big.Int{big.NewInt(2), big.NewInt(1)}, args[2])
}

func (s *clientTestSuite) TestPayUser_MismatchedArrays() {
	require := testutil.Require(s.T())

	_, err := s.client.PayUser(context.Background(), listener, []uint64{5}, []uint64{2, 1})
	require.Error(err)
}

func (s *clientTestSuite) TestPayUser_SendFailure() {
	require := testutil.Require(s.T())

	s.expectTransact().Times(1).Return(io.EOF)

	_, err := s.client.PayUser(context.Background(), listener, []uint64{5}, []uint64{2})
	require.Error(err)
	require.True(xerrors.Is(err, io.EOF))
}

func (s *clientTestSuite) TestUpdateBadge() {
	require := testutil.Require(s.T())

	var sent *types.Transaction
	s.expectTransact().Times(1).DoAndReturn(func(ctx context.Context, tx *types.Transaction) error {
		sent = tx
		return nil
	})

	id := fraction.MustPack(5, fraction.TokenTypeCommon)
	_, err := s.client.UpdateBadge(context.Background(), id, big.NewInt(870_550))
	require.NoError(err)
	require.Equal(s.config.Chain.Contracts.FractionCostBadges, *sent.To())

	args, err := fractionCostBadgesABI.Methods[methodUpdateBadge].Inputs.Unpack(sent.Data()[4:])
	require.NoError(err)
	require.Equal(big.NewInt(83), args[0])
	require.Equal(big.NewInt(870_550), args[1])
}

func (s *clientTestSuite) TestAddPodcast() {
	require := testutil.Require(s.T())

	var sent *types.Transaction
	s.expectTransact().Times(1).DoAndReturn(func(ctx context.Context, tx *types.Transaction) error {
		sent = tx
		return nil
	})

	_, err := s.client.AddPodcast(context.Background(), creator)
	require.NoError(err)
	require.Equal(s.config.Chain.Contracts.Minter, *sent.To())

	args, err := minterABI.Methods[methodAddPodcast].Inputs.Unpack(sent.Data()[4:])
	require.NoError(err)
	require.Equal(creator, args[0])
}

func (s *clientTestSuite) TestSupplyOf() {
	require := testutil.Require(s.T())

	output, err := internalTokensABI.Methods[methodSupplyOf].Outputs.Pack(big.NewInt(100))
	require.NoError(err)

	id := fraction.MustPack(5, fraction.TokenTypeRare)
	attempts := 0
	s.ethClient.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
			attempts += 1
			if attempts == 1 {
				return nil, io.ErrUnexpectedEOF
			}

			require.Equal(s.config.Chain.Contracts.InternalTokens, *call.To)
			args, err := internalTokensABI.Methods[methodSupplyOf].Inputs.Unpack(call.Data[4:])
			require.NoError(err)
			require.Equal(id.BigInt(), args[0])
			return output, nil
		})

	supply, err := s.client.SupplyOf(context.Background(), id)
	require.NoError(err)
	require.Equal(big.NewInt(100), supply)
	require.Equal(2, attempts)
}

func (s *clientTestSuite) TestGetBadge() {
	require := testutil.Require(s.T())

	output, err := fractionCostBadgesABI.Methods[methodGetBadge].Outputs.Pack(big.NewInt(1_000_000))
	require.NoError(err)
	s.ethClient.EXPECT().CallContract(gomock.Any(), gomock.Any(), gomock.Any()).Return(output, nil)

	cost, err := s.client.GetBadge(context.Background(), fraction.MustPack(5, fraction.TokenTypeEpic))
	require.NoError(err)
	require.Equal(big.NewInt(1_000_000), cost)
}

func (s *clientTestSuite) TestGetTransaction_Pending() {
	require := testutil.Require(s.T())

	s.ethClient.EXPECT().TransactionByHash(gomock.Any(), txHash).Return(nil, true, nil)

	transaction, err := s.client.GetTransaction(context.Background(), txHash)
	require.NoError(err)
	require.False(transaction.IsMined())
}

func (s *clientTestSuite) TestGetTransaction_Mined() {
	require := testutil.Require(s.T())

	blockHash := common.HexToHash("0xb1")
	s.ethClient.EXPECT().TransactionByHash(gomock.Any(), txHash).Return(nil, false, nil)
	s.ethClient.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(100),
		BlockHash:   blockHash,
	}, nil)
	s.ethClient.EXPECT().HeaderByNumber(gomock.Any(), big.NewInt(100)).Return(&types.Header{
		Number: big.NewInt(100),
		Time:   1_700_000_000,
	}, nil)

	transaction, err := s.client.GetTransaction(context.Background(), txHash)
	require.NoError(err)
	require.True(transaction.IsMined())
	require.Equal(uint64(100), *transaction.BlockNumber)
	require.Equal(blockHash, *transaction.BlockHash)
	require.Equal(time.Unix(1_700_000_000, 0).UTC(), *transaction.BlockTimestamp)
	require.False(transaction.Reverted)
}

func (s *clientTestSuite) TestGetTransaction_NotFound() {
	require := testutil.Require(s.T())

	s.ethClient.EXPECT().TransactionByHash(gomock.Any(), txHash).Return(nil, false, ethereum.NotFound)

	_, err := s.client.GetTransaction(context.Background(), txHash)
	require.True(xerrors.Is(err, ErrTransactionNotFound))
}

func (s *clientTestSuite) TestGetPodcastMintedEvents() {
	require := testutil.Require(s.T())

	blockHash := common.HexToHash("0xb1")
	data, err := minterABI.Events[eventPodcastMinted].Inputs.NonIndexed().Pack(big.NewInt(5))
	require.NoError(err)

	s.ethClient.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
			require.Equal(blockHash, *query.BlockHash)
			require.Equal([]common.Address{s.config.Chain.Contracts.Minter}, query.Addresses)
			require.Equal([][]common.Hash{{podcastMintedTopic}}, query.Topics)
			return []types.Log{
				{
					Topics:      []common.Hash{podcastMintedTopic, common.BytesToHash(creator.Bytes())},
					Data:        data,
					TxHash:      txHash,
					BlockNumber: 100,
				},
				{
					Topics:  []common.Hash{podcastMintedTopic, common.BytesToHash(creator.Bytes())},
					Data:    data,
					TxHash:  common.HexToHash("0x02"),
					Removed: true,
				},
			}, nil
		})

	events, err := s.client.GetPodcastMintedEvents(context.Background(), blockHash)
	require.NoError(err)
	require.Equal([]*PodcastMintedEvent{
		{
			BaseID:      5,
			Owner:       creator,
			TxHash:      txHash,
			BlockNumber: 100,
		},
	}, events)
}

func (s *clientTestSuite) TestGetFractionMintEvents() {
	require := testutil.Require(s.T())

	id := fraction.MustPack(5, fraction.TokenTypeCommon)
	data, err := internalTokensABI.Events[eventTransferSingle].Inputs.NonIndexed().Pack(id.BigInt(), big.NewInt(3))
	require.NoError(err)

	s.ethClient.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
			require.Equal([][]common.Hash{{transferSingleTopic}, nil, {zeroAddressTopic}}, query.Topics)
			return []types.Log{
				{
					Topics: []common.Hash{
						transferSingleTopic,
						common.BytesToHash(creator.Bytes()),
						zeroAddressTopic,
						common.BytesToHash(listener.Bytes()),
					},
					Data:        data,
					TxHash:      txHash,
					BlockNumber: 120,
				},
			}, nil
		})

	events, err := s.client.GetFractionMintEvents(context.Background())
	require.NoError(err)
	require.Len(events, 1)
	require.Equal(id, events[0].FractionID)
	require.Equal(listener, events[0].To)
	require.Equal(big.NewInt(3), events[0].Value)
	require.Equal(uint64(120), events[0].BlockNumber)
}

func (s *clientTestSuite) TestGetSupplyUpdatedEvents() {
	require := testutil.Require(s.T())

	id := fraction.MustPack(5, fraction.TokenTypeLegendary)
	data, err := internalTokensABI.Events[eventSupplyUpdated].Inputs.NonIndexed().Pack(big.NewInt(10))
	require.NoError(err)

	s.ethClient.EXPECT().FilterLogs(gomock.Any(), gomock.Any()).Return([]types.Log{
		{
			Topics:      []common.Hash{supplyUpdatedTopic, common.BigToHash(id.BigInt())},
			Data:        data,
			TxHash:      txHash,
			BlockNumber: 90,
		},
	}, nil)

	events, err := s.client.GetSupplyUpdatedEvents(context.Background(), id)
	require.NoError(err)
	require.Len(events, 1)
	require.Equal(id, events[0].FractionID)
	require.Equal(big.NewInt(10), events[0].Supply)
}

func (s *clientTestSuite) TestWaitMined() {
	require := testutil.Require(s.T())

	blockHash := common.HexToHash("0xb1")
	gomock.InOrder(
		s.ethClient.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(nil, ethereum.NotFound),
		s.ethClient.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(&types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(101),
			BlockHash:   blockHash,
			GasUsed:     50_000,
		}, nil),
	)

	receipt, err := s.client.WaitMined(context.Background(), txHash)
	require.NoError(err)
	require.Equal(&Receipt{
		TxHash:      txHash,
		BlockNumber: 101,
		BlockHash:   blockHash,
		GasUsed:     50_000,
	}, receipt)
}

func (s *clientTestSuite) TestWaitMined_Reverted() {
	require := testutil.Require(s.T())

	s.ethClient.EXPECT().TransactionReceipt(gomock.Any(), txHash).Return(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(101),
	}, nil)

	_, err := s.client.WaitMined(context.Background(), txHash)
	require.True(xerrors.Is(err, ErrTransactionReverted))
}

func (s *clientTestSuite) TestWaitMined_ContextDone() {
	require := testutil.Require(s.T())

	s.ethClient.EXPECT().TransactionReceipt(gomock.Any(), txHash).AnyTimes().Return(nil, ethereum.NotFound)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.client.WaitMined(ctx, txHash)
	require.True(xerrors.Is(err, context.DeadlineExceeded))
}

func TestReadOnlyClient(t *testing.T) {
	require := testutil.Require(t)

	ctrl := gomock.NewController(t)
	ethClient := ethmocks.NewMockEthClient(ctrl)

	var client Client
	app := testapp.New(
		t,
		fx.Provide(func(params fxparams.Params) (Client, error) {
			return newClient(params, ethClient, nil)
		}),
		fx.Populate(&client),
	)
	defer app.Close()

	_, err := client.MintFraction(context.Background(), fraction.MustPack(5, fraction.TokenTypeRare), listener, 1)
	require.True(xerrors.Is(err, ErrNoOperator))
}
