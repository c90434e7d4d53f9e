package badge

import (
	"math"
	"math/big"

	"github.com/samber/lo"

	"github.com/sybel-io/settlement/internal/storage/model"
)

const (
	baseExponent   = 0.3
	baseMultiplier = 0.5
)

type Counts struct {
	Total       uint64
	CurrentWeek uint64
	LastWeek    uint64
	Period      model.CostBadgeUpdatePeriod
}

// CountMints buckets the mints of one fraction into the current and last weeks
// and derives the block period anchoring the next computation.
func CountMints(mints []Mint, periods Periods) Counts {
	var counts Counts
	var currentWeekBlocks, lastWeekBlocks []uint64
	for _, mint := range mints {
		counts.Total += mint.Count
		switch {
		case periods.Current.Contains(mint):
			counts.CurrentWeek += mint.Count
			currentWeekBlocks = append(currentWeekBlocks, mint.BlockNumber)
		case periods.Last.Contains(mint):
			counts.LastWeek += mint.Count
			lastWeekBlocks = append(lastWeekBlocks, mint.BlockNumber)
		}
	}

	if len(lastWeekBlocks) == 0 {
		lastWeekBlocks = []uint64{periods.emptyLastWeekBlock()}
	}
	if len(currentWeekBlocks) == 0 {
		currentWeekBlocks = []uint64{lo.Max(lastWeekBlocks)}
	}

	counts.Period = model.CostBadgeUpdatePeriod{
		LastWeekBlockStart:    lo.Min(lastWeekBlocks),
		CurrentWeekBlockStart: lo.Min(currentWeekBlocks),
		CurrentWeekBlockEnd:   lo.Max(currentWeekBlocks),
	}
	return counts
}

// ComputeBadge returns floor(previousCost * multiplier ^ exponent) where
// exponent = 0.3 + currentWeek/lastWeek and multiplier = 0.5 + total/totalSupply,
// each ratio counting as zero when one of its terms is zero.
func ComputeBadge(previousCost *big.Int, counts Counts, totalSupply *big.Int) *big.Int {
	exponent := baseExponent
	if counts.CurrentWeek > 0 && counts.LastWeek > 0 {
		exponent += float64(counts.CurrentWeek) / float64(counts.LastWeek)
	}

	multiplier := baseMultiplier
	if counts.Total > 0 && totalSupply != nil && totalSupply.Sign() > 0 {
		supply, _ := new(big.Float).SetInt(totalSupply).Float64()
		multiplier += float64(counts.Total) / supply
	}

	factor := math.Pow(multiplier, exponent)
	cost, _ := new(big.Float).Mul(new(big.Float).SetInt(previousCost), big.NewFloat(factor)).Int(nil)
	return cost
}
