package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/ratelimiter"
	"github.com/sybel-io/settlement/internal/utils/retry"
)

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks

type (
	// Client is the ledger collaborator of the pipeline.
	// Writes are signed by the operator account and sent exactly once; reads are retried.
	Client interface {
		AddPodcast(ctx context.Context, owner common.Address) (common.Hash, error)
		MintFraction(ctx context.Context, id fraction.ID, owner common.Address, count uint64) (common.Hash, error)
		// PayUser rewards the listener for the given listen counts, keyed by fraction base id.
		PayUser(ctx context.Context, to common.Address, baseIDs []uint64, counts []uint64) (common.Hash, error)
		UpdateBadge(ctx context.Context, id fraction.ID, cost *big.Int) (common.Hash, error)
		SupplyOf(ctx context.Context, id fraction.ID) (*big.Int, error)
		GetBadge(ctx context.Context, id fraction.ID) (*big.Int, error)
		// GetTransaction returns ErrTransactionNotFound if the node does not know the hash.
		GetTransaction(ctx context.Context, hash common.Hash) (*Transaction, error)
		GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
		GetPodcastMintedEvents(ctx context.Context, blockHash common.Hash) ([]*PodcastMintedEvent, error)
		// GetFractionMintEvents returns every TransferSingle emitted from the zero address since the start block.
		GetFractionMintEvents(ctx context.Context) ([]*FractionMintEvent, error)
		GetSupplyUpdatedEvents(ctx context.Context, id fraction.ID) ([]*SupplyUpdatedEvent, error)
		// WaitMined polls the receipt until the transaction is mined or ctx is done.
		// A reverted transaction yields ErrTransactionReverted.
		WaitMined(ctx context.Context, hash common.Hash) (*Receipt, error)
	}

	Params struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
	}

	clientImpl struct {
		logger              *zap.Logger
		config              *config.ChainConfig
		client              EthClient
		rateLimiter         *ratelimiter.RateLimiter
		transactOpts        *bind.TransactOpts
		sendMu              sync.Mutex
		rewarder            *bind.BoundContract
		minter              *bind.BoundContract
		fractionCostBadges  *bind.BoundContract
		internalTokens      *bind.BoundContract
		instrumentSend      instrument.InstrumentWithResult[common.Hash]
		instrumentSupplyOf  instrument.InstrumentWithResult[*big.Int]
		instrumentGetBadge  instrument.InstrumentWithResult[*big.Int]
		instrumentGetTx     instrument.InstrumentWithResult[*Transaction]
		instrumentGetBlock  instrument.InstrumentWithResult[time.Time]
		instrumentGetLogs   instrument.InstrumentWithResult[[]types.Log]
		instrumentWaitMined instrument.InstrumentWithResult[*Receipt]
	}
)

func New(params Params) (Client, error) {
	cfg := params.Config.Chain
	ethClient, err := ethclient.DialContext(context.Background(), cfg.RPCURL)
	if err != nil {
		return nil, xerrors.Errorf("failed to dial %v: %w", cfg.RPCURL, err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			ethClient.Close()
			return nil
		},
	})

	var privateKey *ecdsa.PrivateKey
	if cfg.Operator.EncryptedWallet != "" {
		key, err := keystore.DecryptKey([]byte(cfg.Operator.EncryptedWallet), cfg.Operator.Passphrase)
		if err != nil {
			return nil, xerrors.Errorf("failed to decrypt operator wallet: %w", err)
		}
		privateKey = key.PrivateKey
	}

	return newClient(params.Params, ethClient, privateKey)
}

func newClient(params fxparams.Params, ethClient EthClient, privateKey *ecdsa.PrivateKey) (*clientImpl, error) {
	cfg := &params.Config.Chain
	logger := log.WithPackage(params.Logger)
	metrics := params.Scoped("chain")
	rateLimiter := ratelimiter.New(cfg.RPS)

	var transactOpts *bind.TransactOpts
	if privateKey != nil {
		opts, err := bind.NewKeyedTransactorWithChainID(privateKey, big.NewInt(cfg.ChainID))
		if err != nil {
			return nil, xerrors.Errorf("failed to create transactor: %w", err)
		}
		transactOpts = opts
		logger.Info("loaded operator wallet", zap.String("operator", opts.From.Hex()))
	} else {
		logger.Warn("no operator wallet configured, the client is read-only")
	}
	logger.Info("connected to chain", zap.Int64("chain_id", cfg.ChainID), zap.Int("rps", rateLimiter.RPS()))

	return &clientImpl{
		logger:              logger,
		config:              cfg,
		client:              ethClient,
		rateLimiter:         rateLimiter,
		transactOpts:        transactOpts,
		rewarder:            bind.NewBoundContract(cfg.Contracts.Rewarder, rewarderABI, ethClient, ethClient, ethClient),
		minter:              bind.NewBoundContract(cfg.Contracts.Minter, minterABI, ethClient, ethClient, ethClient),
		fractionCostBadges:  bind.NewBoundContract(cfg.Contracts.FractionCostBadges, fractionCostBadgesABI, ethClient, ethClient, ethClient),
		internalTokens:      bind.NewBoundContract(cfg.Contracts.InternalTokens, internalTokensABI, ethClient, ethClient, ethClient),
		instrumentSend:      instrument.NewWithResult[common.Hash](metrics, "send_transaction", instrument.WithLogger(logger, "chain.send_transaction")),
		instrumentSupplyOf:  newReadInstrument[*big.Int](metrics, logger, "supply_of"),
		instrumentGetBadge:  newReadInstrument[*big.Int](metrics, logger, "get_badge"),
		instrumentGetTx:     newReadInstrument[*Transaction](metrics, logger, "get_transaction", instrument.WithFilter(filterNotFound)),
		instrumentGetBlock:  newReadInstrument[time.Time](metrics, logger, "get_block_timestamp"),
		instrumentGetLogs:   newReadInstrument[[]types.Log](metrics, logger, "filter_logs"),
		instrumentWaitMined: instrument.NewWithResult[*Receipt](metrics, "wait_mined"),
	}, nil
}

func newReadInstrument[T any](metrics tally.Scope, logger *zap.Logger, name string, opts ...instrument.Option) instrument.InstrumentWithResult[T] {
	return instrument.NewWithResult[T](metrics, name, opts...).
		WithRetry(retry.New[T](retry.WithLogger(logger)))
}

func (c *clientImpl) AddPodcast(ctx context.Context, owner common.Address) (common.Hash, error) {
	return c.transact(ctx, c.minter, methodAddPodcast, owner)
}

func (c *clientImpl) MintFraction(ctx context.Context, id fraction.ID, owner common.Address, count uint64) (common.Hash, error) {
	return c.transact(ctx, c.minter, methodMintFraction, id.BigInt(), owner, new(big.Int).SetUint64(count))
}

func (c *clientImpl) PayUser(ctx context.Context, to common.Address, baseIDs []uint64, counts []uint64) (common.Hash, error) {
	if len(baseIDs) != len(counts) {
		return common.Hash{}, xerrors.Errorf("mismatched payment arrays: %v ids, %v counts", len(baseIDs), len(counts))
	}

	return c.transact(ctx, c.rewarder, methodPayUser, to, toBigInts(baseIDs), toBigInts(counts))
}

func (c *clientImpl) UpdateBadge(ctx context.Context, id fraction.ID, cost *big.Int) (common.Hash, error) {
	return c.transact(ctx, c.fractionCostBadges, methodUpdateBadge, id.BigInt(), cost)
}

// transact sends one transaction from the operator account.
// Sends are serialized so that each one picks the next pending nonce.
func (c *clientImpl) transact(ctx context.Context, contract *bind.BoundContract, method string, params ...any) (common.Hash, error) {
	return c.instrumentSend.Instrument(ctx, func(ctx context.Context) (common.Hash, error) {
		if c.transactOpts == nil {
			return common.Hash{}, ErrNoOperator
		}

		c.sendMu.Lock()
		defer c.sendMu.Unlock()

		opts := *c.transactOpts
		opts.Context = ctx
		tx, err := contract.Transact(&opts, method, params...)
		if err != nil {
			return common.Hash{}, xerrors.Errorf("failed to send %v: %w", method, err)
		}

		return tx.Hash(), nil
	}, instrument.WithLoggerFields(zap.String("method", method)))
}

func (c *clientImpl) SupplyOf(ctx context.Context, id fraction.ID) (*big.Int, error) {
	return c.instrumentSupplyOf.Instrument(ctx, func(ctx context.Context) (*big.Int, error) {
		return c.callUint256(ctx, c.internalTokens, methodSupplyOf, id.BigInt())
	})
}

func (c *clientImpl) GetBadge(ctx context.Context, id fraction.ID) (*big.Int, error) {
	return c.instrumentGetBadge.Instrument(ctx, func(ctx context.Context) (*big.Int, error) {
		return c.callUint256(ctx, c.fractionCostBadges, methodGetBadge, id.BigInt())
	})
}

func (c *clientImpl) callUint256(ctx context.Context, contract *bind.BoundContract, method string, params ...any) (*big.Int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, xerrors.Errorf("failed to call %v: %w", method, classify(err))
	}

	if len(out) != 1 {
		return nil, xerrors.Errorf("unexpected output of %v: %v", method, out)
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (c *clientImpl) GetTransaction(ctx context.Context, hash common.Hash) (*Transaction, error) {
	return c.instrumentGetTx.Instrument(ctx, func(ctx context.Context) (*Transaction, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		_, isPending, err := c.client.TransactionByHash(ctx, hash)
		if err != nil {
			if isNotFound(err) {
				return nil, xerrors.Errorf("failed to get transaction %v: %w", hash.Hex(), ErrTransactionNotFound)
			}
			return nil, xerrors.Errorf("failed to get transaction %v: %w", hash.Hex(), classify(err))
		}

		transaction := &Transaction{Hash: hash}
		if isPending {
			return transaction, nil
		}

		receipt, err := c.client.TransactionReceipt(ctx, hash)
		if err != nil {
			if isNotFound(err) {
				// Mined but not yet indexed by the node.
				return transaction, nil
			}
			return nil, xerrors.Errorf("failed to get receipt of %v: %w", hash.Hex(), classify(err))
		}

		header, err := c.client.HeaderByNumber(ctx, receipt.BlockNumber)
		if err != nil {
			return nil, xerrors.Errorf("failed to get block %v: %w", receipt.BlockNumber, classify(err))
		}

		transaction.BlockNumber = pointer.Ref(receipt.BlockNumber.Uint64())
		transaction.BlockHash = pointer.Ref(receipt.BlockHash)
		transaction.BlockTimestamp = pointer.Ref(time.Unix(int64(header.Time), 0).UTC())
		transaction.Reverted = receipt.Status == types.ReceiptStatusFailed
		return transaction, nil
	})
}

func (c *clientImpl) GetBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	return c.instrumentGetBlock.Instrument(ctx, func(ctx context.Context) (time.Time, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return time.Time{}, err
		}

		header, err := c.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
		if err != nil {
			return time.Time{}, xerrors.Errorf("failed to get block %v: %w", blockNumber, classify(err))
		}

		return time.Unix(int64(header.Time), 0).UTC(), nil
	})
}

func (c *clientImpl) GetPodcastMintedEvents(ctx context.Context, blockHash common.Hash) ([]*PodcastMintedEvent, error) {
	logs, err := c.filterLogs(ctx, ethereum.FilterQuery{
		BlockHash: &blockHash,
		Addresses: []common.Address{c.config.Contracts.Minter},
		Topics:    [][]common.Hash{{podcastMintedTopic}},
	})
	if err != nil {
		return nil, err
	}

	events := make([]*PodcastMintedEvent, 0, len(logs))
	for _, vLog := range logs {
		event, err := parsePodcastMinted(vLog)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (c *clientImpl) GetFractionMintEvents(ctx context.Context) ([]*FractionMintEvent, error) {
	logs, err := c.filterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(c.config.StartBlock),
		Addresses: []common.Address{c.config.Contracts.InternalTokens},
		Topics:    [][]common.Hash{{transferSingleTopic}, nil, {zeroAddressTopic}},
	})
	if err != nil {
		return nil, err
	}

	events := make([]*FractionMintEvent, 0, len(logs))
	for _, vLog := range logs {
		event, err := parseFractionMint(vLog)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (c *clientImpl) GetSupplyUpdatedEvents(ctx context.Context, id fraction.ID) ([]*SupplyUpdatedEvent, error) {
	logs, err := c.filterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(c.config.StartBlock),
		Addresses: []common.Address{c.config.Contracts.InternalTokens},
		Topics:    [][]common.Hash{{supplyUpdatedTopic}, {common.BigToHash(id.BigInt())}},
	})
	if err != nil {
		return nil, err
	}

	events := make([]*SupplyUpdatedEvent, 0, len(logs))
	for _, vLog := range logs {
		event, err := parseSupplyUpdated(vLog)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (c *clientImpl) filterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	return c.instrumentGetLogs.Instrument(ctx, func(ctx context.Context) ([]types.Log, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		logs, err := c.client.FilterLogs(ctx, query)
		if err != nil {
			return nil, xerrors.Errorf("failed to filter logs: %w", classify(err))
		}

		result := make([]types.Log, 0, len(logs))
		for _, vLog := range logs {
			if vLog.Removed {
				continue
			}
			result = append(result, vLog)
		}

		return result, nil
	})
}

func (c *clientImpl) WaitMined(ctx context.Context, hash common.Hash) (*Receipt, error) {
	return c.instrumentWaitMined.Instrument(ctx, func(ctx context.Context) (*Receipt, error) {
		ticker := time.NewTicker(c.config.ReceiptPollInterval)
		defer ticker.Stop()

		logger := c.logger.With(zap.String("tx_hash", hash.Hex()))
		for {
			receipt, err := c.client.TransactionReceipt(ctx, hash)
			switch {
			case err == nil:
				if receipt.Status == types.ReceiptStatusFailed {
					return nil, xerrors.Errorf("transaction %v in block %v: %w", hash.Hex(), receipt.BlockNumber, ErrTransactionReverted)
				}
				return &Receipt{
					TxHash:      hash,
					BlockNumber: receipt.BlockNumber.Uint64(),
					BlockHash:   receipt.BlockHash,
					GasUsed:     receipt.GasUsed,
				}, nil
			case isNotFound(err):
				logger.Debug("transaction not yet mined")
			default:
				logger.Warn("failed to get receipt", zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return nil, xerrors.Errorf("stopped waiting for %v: %w", hash.Hex(), ctx.Err())
			case <-ticker.C:
			}
		}
	})
}

func parsePodcastMinted(vLog types.Log) (*PodcastMintedEvent, error) {
	if len(vLog.Topics) != 2 {
		return nil, xerrors.Errorf("invalid PodcastMinted log in tx %v: expected 2 topics, got %v", vLog.TxHash.Hex(), len(vLog.Topics))
	}

	values, err := minterABI.Unpack(eventPodcastMinted, vLog.Data)
	if err != nil {
		return nil, xerrors.Errorf("failed to unpack PodcastMinted log in tx %v: %w", vLog.TxHash.Hex(), err)
	}

	baseID, ok := values[0].(*big.Int)
	if !ok || !baseID.IsUint64() {
		return nil, xerrors.Errorf("invalid base id in tx %v: %v", vLog.TxHash.Hex(), values[0])
	}

	return &PodcastMintedEvent{
		BaseID:      baseID.Uint64(),
		Owner:       common.BytesToAddress(vLog.Topics[1].Bytes()),
		TxHash:      vLog.TxHash,
		BlockNumber: vLog.BlockNumber,
	}, nil
}

func parseFractionMint(vLog types.Log) (*FractionMintEvent, error) {
	// TransferSingle(address indexed operator, address indexed from, address indexed to, uint256 id, uint256 value)
	if len(vLog.Topics) != 4 {
		return nil, xerrors.Errorf("invalid TransferSingle log in tx %v: expected 4 topics, got %v", vLog.TxHash.Hex(), len(vLog.Topics))
	}

	values, err := internalTokensABI.Unpack(eventTransferSingle, vLog.Data)
	if err != nil {
		return nil, xerrors.Errorf("failed to unpack TransferSingle log in tx %v: %w", vLog.TxHash.Hex(), err)
	}

	id, err := fraction.FromBigInt(values[0].(*big.Int))
	if err != nil {
		return nil, xerrors.Errorf("invalid fraction id in tx %v: %w", vLog.TxHash.Hex(), err)
	}

	return &FractionMintEvent{
		FractionID:  id,
		To:          common.BytesToAddress(vLog.Topics[3].Bytes()),
		Value:       values[1].(*big.Int),
		TxHash:      vLog.TxHash,
		BlockNumber: vLog.BlockNumber,
	}, nil
}

func parseSupplyUpdated(vLog types.Log) (*SupplyUpdatedEvent, error) {
	if len(vLog.Topics) != 2 {
		return nil, xerrors.Errorf("invalid SupplyUpdated log in tx %v: expected 2 topics, got %v", vLog.TxHash.Hex(), len(vLog.Topics))
	}

	values, err := internalTokensABI.Unpack(eventSupplyUpdated, vLog.Data)
	if err != nil {
		return nil, xerrors.Errorf("failed to unpack SupplyUpdated log in tx %v: %w", vLog.TxHash.Hex(), err)
	}

	id, err := fraction.FromBigInt(vLog.Topics[1].Big())
	if err != nil {
		return nil, xerrors.Errorf("invalid fraction id in tx %v: %w", vLog.TxHash.Hex(), err)
	}

	return &SupplyUpdatedEvent{
		FractionID:  id,
		Supply:      values[0].(*big.Int),
		TxHash:      vLog.TxHash,
		BlockNumber: vLog.BlockNumber,
	}, nil
}

func toBigInts(values []uint64) []*big.Int {
	result := make([]*big.Int, len(values))
	for i, v := range values {
		result[i] = new(big.Int).SetUint64(v)
	}
	return result
}
