package tally

import (
	"context"
	"strconv"
	"time"

	"github.com/smira/go-statsd"
	"github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/sybel-io/settlement/internal/config"
)

type (
	ReporterParams struct {
		fx.In
		Lifecycle fx.Lifecycle
		Logger    *zap.Logger
		Config    *config.Config
	}

	// statsdReporter forwards the tally metrics to the datadog agent.
	// Histogram samples are sent as counters tagged with the upper bound of their bucket.
	statsdReporter struct {
		client *statsd.Client
	}
)

const (
	flushInterval = time.Second
	bucketTag     = "bucket"
)

var _ tally.StatsReporter = (*statsdReporter)(nil)

// NewReporter returns a no-op reporter unless statsd is configured.
func NewReporter(params ReporterParams) tally.StatsReporter {
	cfg := params.Config.StatsD
	if cfg == nil {
		return tally.NullStatsReporter
	}

	client := statsd.NewClient(
		cfg.Address,
		statsd.MetricPrefix(cfg.Prefix),
		statsd.TagStyle(statsd.TagFormatDatadog),
		statsd.ReportInterval(flushInterval),
	)
	params.Logger.Info("reporting metrics to statsd", zap.String("address", cfg.Address))
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return &statsdReporter{client: client}
}

func (r *statsdReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.client.Incr(name, value, toTags(tags)...)
}

func (r *statsdReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.client.FGauge(name, value, toTags(tags)...)
}

func (r *statsdReporter) ReportTimer(name string, tags map[string]string, value time.Duration) {
	r.client.PrecisionTiming(name, value, toTags(tags)...)
}

func (r *statsdReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	_ float64,
	bucketUpperBound float64,
	samples int64,
) {
	bucket := strconv.FormatFloat(bucketUpperBound, 'g', -1, 64)
	r.client.Incr(name, samples, append(toTags(tags), statsd.StringTag(bucketTag, bucket))...)
}

func (r *statsdReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	_ time.Duration,
	bucketUpperBound time.Duration,
	samples int64,
) {
	r.client.Incr(name, samples, append(toTags(tags), statsd.StringTag(bucketTag, bucketUpperBound.String()))...)
}

func (r *statsdReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *statsdReporter) Reporting() bool {
	return true
}

func (r *statsdReporter) Tagging() bool {
	return true
}

// Flush is a no-op: the client flushes on its own every flushInterval.
func (r *statsdReporter) Flush() {
}

func toTags(m map[string]string) []statsd.Tag {
	tags := make([]statsd.Tag, 0, len(m))
	for k, v := range m {
		tags = append(tags, statsd.StringTag(k, v))
	}
	return tags
}
