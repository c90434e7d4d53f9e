package badge

import (
	"time"

	"github.com/sybel-io/settlement/internal/storage/model"
)

type (
	// Mint is a fraction mint observed on chain. Timestamp is only resolved when counting by time.
	Mint struct {
		Count       uint64
		BlockNumber uint64
		Timestamp   time.Time
	}

	// Window is either a TimeWindow or a BlockWindow. Both are half-open.
	Window interface {
		Contains(mint Mint) bool
	}

	TimeWindow struct {
		Start time.Time
		End   time.Time
	}

	// BlockWindow is unbounded when End is nil.
	BlockWindow struct {
		Start uint64
		End   *uint64
	}

	Periods struct {
		Current Window
		Last    Window
	}
)

var (
	_ Window = TimeWindow{}
	_ Window = BlockWindow{}
)

func (w TimeWindow) Contains(mint Mint) bool {
	return !mint.Timestamp.Before(w.Start) && mint.Timestamp.Before(w.End)
}

func (w BlockWindow) Contains(mint Mint) bool {
	if mint.BlockNumber < w.Start {
		return false
	}
	return w.End == nil || mint.BlockNumber < *w.End
}

// TimePeriods returns the two weeks preceding now.
func TimePeriods(now time.Time, week time.Duration) Periods {
	oneWeekAgo := now.Add(-week)
	return Periods{
		Current: TimeWindow{Start: oneWeekAgo, End: now},
		Last:    TimeWindow{Start: oneWeekAgo.Add(-week), End: oneWeekAgo},
	}
}

// BlockPeriods carries the previous computation forward: its current week becomes the last week
// and every block after the last counted one is the current week.
func BlockPeriods(previous model.CostBadgeUpdatePeriod) Periods {
	next := previous.CurrentWeekBlockEnd + 1
	return Periods{
		Current: BlockWindow{Start: next},
		Last:    BlockWindow{Start: previous.CurrentWeekBlockStart, End: &next},
	}
}

// IsBlockBased returns true if the periods do not need the block timestamps.
func (p Periods) IsBlockBased() bool {
	_, ok := p.Current.(BlockWindow)
	return ok
}

// emptyLastWeekBlock is the anchor used when nothing was minted during the last week.
func (p Periods) emptyLastWeekBlock() uint64 {
	if w, ok := p.Current.(BlockWindow); ok {
		return w.Start
	}
	return 0
}
