package chain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sybel-io/settlement/internal/fraction"
)

type (
	// Transaction is the inclusion state of a submitted transaction.
	// The block fields are only set once the transaction is mined.
	Transaction struct {
		Hash           common.Hash
		BlockNumber    *uint64
		BlockHash      *common.Hash
		BlockTimestamp *time.Time
		Reverted       bool
	}

	Receipt struct {
		TxHash      common.Hash
		BlockNumber uint64
		BlockHash   common.Hash
		GasUsed     uint64
	}

	PodcastMintedEvent struct {
		BaseID      uint64
		Owner       common.Address
		TxHash      common.Hash
		BlockNumber uint64
	}

	// FractionMintEvent is a TransferSingle emitted from the zero address.
	FractionMintEvent struct {
		FractionID  fraction.ID
		To          common.Address
		Value       *big.Int
		TxHash      common.Hash
		BlockNumber uint64
	}

	SupplyUpdatedEvent struct {
		FractionID  fraction.ID
		Supply      *big.Int
		TxHash      common.Hash
		BlockNumber uint64
	}
)

// IsMined returns true once the transaction is part of a block.
func (t *Transaction) IsMined() bool {
	return t.BlockHash != nil && t.BlockNumber != nil
}
