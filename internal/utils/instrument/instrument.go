package instrument

import (
	"context"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/retry"
	"github.com/sybel-io/settlement/internal/utils/timesource"
)

type (
	// Instrument reports every call of an operation: a counter per outcome, a latency timer,
	// a log line and a datadog span.
	Instrument interface {
		Instrument(ctx context.Context, operation OperationFn, opts ...CallOption) error
	}

	InstrumentWithResult[T any] interface {
		Instrument(ctx context.Context, operation OperationWithResultFn[T], opts ...CallOption) (T, error)
		// WithRetry returns a copy whose calls are retried. Retries are reported as a single call.
		WithRetry(r retry.Retry[T]) InstrumentWithResult[T]
	}

	OperationFn                  func(ctx context.Context) error
	OperationWithResultFn[T any] func(ctx context.Context) (T, error)

	// FilterFn tells the expected errors apart, e.g. a missing document.
	// They are counted as filtered successes and logged at debug level.
	FilterFn func(err error) bool

	Option     func(s *settings)
	CallOption func(c *callSettings)

	outcome int

	settings struct {
		filter     FilterFn
		timeSource timesource.TimeSource
		logger     *zap.Logger
		message    string
	}

	callSettings struct {
		fields []zap.Field
	}

	reporter struct {
		name     string
		counters map[outcome]tally.Counter
		latency  tally.Timer
		settings
	}

	instrument struct {
		reporter *reporter
	}

	instrumentWithResult[T any] struct {
		reporter *reporter
		retry    retry.Retry[T]
	}
)

const (
	outcomeSuccess outcome = iota
	outcomeFiltered
	outcomeError
)

var outcomeTags = map[outcome]map[string]string{
	outcomeSuccess:  {"result_type": "success"},
	outcomeFiltered: {"result_type": "success", "filtered": "true"},
	outcomeError:    {"result_type": "error"},
}

func New(scope tally.Scope, name string, opts ...Option) Instrument {
	return &instrument{reporter: newReporter(scope, name, opts)}
}

func NewWithResult[T any](scope tally.Scope, name string, opts ...Option) InstrumentWithResult[T] {
	return &instrumentWithResult[T]{reporter: newReporter(scope, name, opts)}
}

func WithFilter(filter FilterFn) Option {
	return func(s *settings) {
		s.filter = filter
	}
}

// WithLogger logs every call with msg. Nothing is logged by default.
func WithLogger(logger *zap.Logger, msg string) Option {
	return func(s *settings) {
		s.logger = logger
		s.message = msg
	}
}

func WithTimeSource(timeSource timesource.TimeSource) Option {
	return func(s *settings) {
		s.timeSource = timeSource
	}
}

// WithLoggerFields adds fields to the log line of a single call.
func WithLoggerFields(fields ...zap.Field) CallOption {
	return func(c *callSettings) {
		c.fields = append(c.fields, fields...)
	}
}

func newReporter(scope tally.Scope, name string, opts []Option) *reporter {
	r := &reporter{
		name:     name,
		counters: make(map[outcome]tally.Counter, len(outcomeTags)),
		latency:  scope.SubScope(name).Timer("latency"),
		settings: settings{
			timeSource: timesource.NewRealTimeSource(),
			logger:     zap.NewNop(),
			message:    name,
		},
	}
	for _, opt := range opts {
		opt(&r.settings)
	}
	for o, tags := range outcomeTags {
		r.counters[o] = scope.Tagged(tags).Counter(name)
	}
	return r
}

func (i *instrument) Instrument(ctx context.Context, operation OperationFn, opts ...CallOption) error {
	_, err := report(ctx, i.reporter, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, operation(ctx)
	}, opts)
	return err
}

func (i *instrumentWithResult[T]) Instrument(ctx context.Context, operation OperationWithResultFn[T], opts ...CallOption) (T, error) {
	if i.retry == nil {
		return report(ctx, i.reporter, operation, opts)
	}

	return report(ctx, i.reporter, func(ctx context.Context) (T, error) {
		return i.retry.Retry(ctx, retry.Operation[T](operation))
	}, opts)
}

func (i *instrumentWithResult[T]) WithRetry(r retry.Retry[T]) InstrumentWithResult[T] {
	return &instrumentWithResult[T]{
		reporter: i.reporter,
		retry:    r,
	}
}

func report[T any](ctx context.Context, r *reporter, operation OperationWithResultFn[T], opts []CallOption) (T, error) {
	var call callSettings
	for _, opt := range opts {
		opt(&call)
	}

	start := r.timeSource.Now()
	span, ctx := tracer.StartSpanFromContext(ctx, r.name, tracer.SpanType("custom"), tracer.StartTime(start))
	res, err := operation(ctx)
	finish := r.timeSource.Now()

	duration := finish.Sub(start)
	r.latency.Record(duration)

	o := r.classify(err)
	r.counters[o].Inc(1)

	logger := log.WithSpan(ctx, r.logger)
	fields := append([]zap.Field{zap.String("duration", duration.String())}, call.fields...)
	switch o {
	case outcomeSuccess:
		logger.Debug(r.message, fields...)
		span.Finish(tracer.FinishTime(finish))
	case outcomeFiltered:
		logger.Debug(r.message, append(fields, zap.Error(err))...)
		span.Finish(tracer.FinishTime(finish), tracer.WithError(err))
	default:
		logger.Warn(r.message, append(fields, zap.Error(err))...)
		span.Finish(tracer.FinishTime(finish), tracer.WithError(err))
	}

	return res, err
}

func (r *reporter) classify(err error) outcome {
	switch {
	case err == nil:
		return outcomeSuccess
	case r.filter != nil && r.filter(err):
		return outcomeFiltered
	default:
		return outcomeError
	}
}
