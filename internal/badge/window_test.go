package badge

import (
	"testing"
	"time"

	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestTimeWindow_Contains(t *testing.T) {
	require := testutil.Require(t)

	start := time.Date(2023, 3, 13, 0, 0, 0, 0, time.UTC)
	window := TimeWindow{Start: start, End: start.Add(time.Hour)}
	require.True(window.Contains(Mint{Timestamp: start}))
	require.True(window.Contains(Mint{Timestamp: start.Add(time.Minute)}))
	require.False(window.Contains(Mint{Timestamp: start.Add(time.Hour)}))
	require.False(window.Contains(Mint{Timestamp: start.Add(-time.Nanosecond)}))
}

func TestBlockWindow_Contains(t *testing.T) {
	require := testutil.Require(t)

	bounded := BlockWindow{Start: 10, End: pointer.Ref(uint64(20))}
	require.False(bounded.Contains(Mint{BlockNumber: 9}))
	require.True(bounded.Contains(Mint{BlockNumber: 10}))
	require.True(bounded.Contains(Mint{BlockNumber: 19}))
	require.False(bounded.Contains(Mint{BlockNumber: 20}))

	unbounded := BlockWindow{Start: 10}
	require.True(unbounded.Contains(Mint{BlockNumber: 1 << 40}))
	require.False(unbounded.Contains(Mint{BlockNumber: 0}))
}

func TestTimePeriods(t *testing.T) {
	require := testutil.Require(t)

	now := time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour
	periods := TimePeriods(now, week)
	require.Equal(TimeWindow{Start: now.Add(-week), End: now}, periods.Current)
	require.Equal(TimeWindow{Start: now.Add(-2 * week), End: now.Add(-week)}, periods.Last)
	require.Equal(uint64(0), periods.emptyLastWeekBlock())
}
