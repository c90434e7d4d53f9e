package model

import (
	"math/big"
	"time"

	"github.com/sybel-io/settlement/internal/fraction"
)

type (
	// Watermark is one row per import run; the latest one by timestamp is the import position.
	Watermark struct {
		Timestamp   time.Time
		ImportCount int
	}

	// ListenRecord is one imported listen. An empty RewardTxHash or TxBlockHash stands for an absent value.
	// RewardSubmittedAt is when the payment of RewardTxHash was submitted, zero for records stamped before it was kept.
	ListenRecord struct {
		ID                string
		UserID            string
		SeriesID          string
		Date              time.Time
		GivenToUser       bool
		RewardTxHash      string
		RewardSubmittedAt time.Time
		TxBlockNumber     uint64
		TxBlockHash       string
	}

	ListenState int

	Wallet struct {
		ID              string
		Address         string
		EncryptedWallet string
		TseBalance      *big.Int
		Fractions       []*OwnedFraction
	}

	OwnedFraction struct {
		SeriesID  string
		TokenType fraction.TokenType
		Count     uint64
		TxHash    string
	}

	PodcastInfo struct {
		Name            string
		Description     string
		Image           string
		BackgroundColor string
	}

	// MintedPodcast is created pending (no FractionBaseID) when the mint is requested
	// and confirmed by the mint tracker.
	MintedPodcast struct {
		ID                 string
		SeriesID           string
		OwnerID            string
		TxHash             string
		Info               PodcastInfo
		FractionBaseID     *uint64
		TxBlockNumber      *uint64
		TxBlockHash        string
		TxBlockTimestamp   *time.Time
		UploadedMetadatas  []string
		PreviousCostUpdate *PreviousCostUpdate
		CreatedAt          time.Time
	}

	MintConfirmation struct {
		FractionBaseID   uint64
		TxBlockNumber    uint64
		TxBlockHash      string
		TxBlockTimestamp time.Time
	}

	// CostBadgeUpdatePeriod anchors the next badge computation to block numbers.
	// CurrentWeekBlockEnd is the last block holding a mint of the computed week.
	CostBadgeUpdatePeriod struct {
		LastWeekBlockStart    uint64
		CurrentWeekBlockStart uint64
		CurrentWeekBlockEnd   uint64
	}

	// PreviousCostUpdate keeps one period per buyable tier, each anchored on the mints of its own fraction.
	PreviousCostUpdate struct {
		Periods   map[fraction.TokenType]CostBadgeUpdatePeriod
		TxHashes  []string
		UpdatedAt time.Time
	}

	ConsumedContent struct {
		UserID         string
		CurrentWeekCcu int64
	}

	// SettlementIntent records a submitted payment before its listens are stamped,
	// so that a later run stamps any of its listens with the same transaction instead of paying them again.
	SettlementIntent struct {
		Key       string
		WalletID  string
		Address   string
		TxHash    string
		ListenIDs []string
		CreatedAt time.Time
	}
)

const (
	ListenStateUnsettled ListenState = iota
	ListenStatePending
	ListenStateConfirmed
)

func (r *ListenRecord) State() ListenState {
	switch {
	case r.TxBlockHash != "" && r.GivenToUser:
		return ListenStateConfirmed
	case r.RewardTxHash != "":
		return ListenStatePending
	default:
		return ListenStateUnsettled
	}
}

func (s ListenState) String() string {
	switch s {
	case ListenStateUnsettled:
		return "unsettled"
	case ListenStatePending:
		return "pending"
	case ListenStateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

func (p *MintedPodcast) IsMinted() bool {
	return p.FractionBaseID != nil
}

// FractionID returns the id of the given tier. It must only be called on a minted podcast.
func (p *MintedPodcast) FractionID(tokenType fraction.TokenType) (fraction.ID, error) {
	var baseID uint64
	if p.FractionBaseID != nil {
		baseID = *p.FractionBaseID
	}
	return fraction.Pack(baseID, tokenType)
}

// PeriodOf returns the period of the last badge computation of a tier, if any.
func (u *PreviousCostUpdate) PeriodOf(tokenType fraction.TokenType) (CostBadgeUpdatePeriod, bool) {
	if u == nil {
		return CostBadgeUpdatePeriod{}, false
	}
	period, ok := u.Periods[tokenType]
	return period, ok
}
