package timesource

import (
	"sync/atomic"
	"time"

	"go.uber.org/fx"
)

type (
	// TimeSource provides the current time. Every "now" of the pipeline, from the import
	// watermark to the badge maturity cutoff, is read from it so that tests control the clock.
	TimeSource interface {
		Now() time.Time
	}

	// Func adapts a function to a TimeSource.
	Func func() time.Time

	// EventTimeSource only moves when told to.
	EventTimeSource struct {
		nanos atomic.Int64
	}
)

var Module = fx.Provide(NewRealTimeSource)

func (f Func) Now() time.Time {
	return f()
}

// NewRealTimeSource returns the wall clock in UTC.
func NewRealTimeSource() TimeSource {
	return Func(func() time.Time {
		return time.Now().UTC()
	})
}

// NewTickingTimeSource returns a clock starting at the unix epoch which moves one second forward on every read.
func NewTickingTimeSource() TimeSource {
	var nanos atomic.Int64
	return Func(func() time.Time {
		return time.Unix(0, nanos.Add(int64(time.Second))).UTC()
	})
}

func NewEventTimeSource() *EventTimeSource {
	return &EventTimeSource{}
}

func (s *EventTimeSource) Now() time.Time {
	return time.Unix(0, s.nanos.Load()).UTC()
}

func (s *EventTimeSource) Update(now time.Time) *EventTimeSource {
	s.nanos.Store(now.UnixNano())
	return s
}

func (s *EventTimeSource) Add(d time.Duration) *EventTimeSource {
	s.nanos.Add(int64(d))
	return s
}
