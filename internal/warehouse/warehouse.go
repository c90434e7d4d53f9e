package warehouse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/instrument"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/retry"
)

//go:generate mockgen -source=warehouse.go -destination=mocks/mocks.go -package=mocks

type (
	ListenRow struct {
		Timestamp time.Time
		UserID    string
		SeriesID  string
	}

	// ListenSource is the external analytics warehouse holding the raw listen events.
	ListenSource interface {
		// FetchListens returns the listen events strictly after the given time, ordered by ascending timestamp.
		FetchListens(ctx context.Context, after time.Time) ([]*ListenRow, error)
	}

	Params struct {
		fx.In
		fxparams.Params
		Lifecycle fx.Lifecycle
	}

	RowIterator interface {
		Next(dst any) error
	}

	queryFn func(ctx context.Context, lastTimestamp int64) (RowIterator, error)

	bigQuerySource struct {
		logger                 *zap.Logger
		query                  queryFn
		instrumentFetchListens instrument.InstrumentWithResult[[]*ListenRow]
	}

	bigQueryRow struct {
		Timestamp int64               `bigquery:"timestamp"`
		UserID    bigquery.NullString `bigquery:"user_id"`
		SeriesID  bigquery.NullString `bigquery:"series_id"`
	}
)

const (
	listenQueryTemplate = "SELECT UNIX_MILLIS(data.timestamp) AS timestamp, data.user_id, data.series_id " +
		"FROM `%v.%v.%v` AS data " +
		"WHERE UNIX_MILLIS(data.timestamp) > @lastTimestamp " +
		"ORDER BY data.timestamp"

	paramLastTimestamp = "lastTimestamp"
)

func New(params Params) (ListenSource, error) {
	cfg := params.Config.Warehouse
	client, err := bigquery.NewClient(context.Background(), cfg.Project)
	if err != nil {
		return nil, xerrors.Errorf("failed to create bigquery client: %w", err)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	sql := fmt.Sprintf(listenQueryTemplate, cfg.Project, cfg.Dataset, cfg.Table)
	query := func(ctx context.Context, lastTimestamp int64) (RowIterator, error) {
		q := client.Query(sql)
		q.Location = cfg.Location
		q.Parameters = []bigquery.QueryParameter{
			{Name: paramLastTimestamp, Value: lastTimestamp},
		}
		return q.Read(ctx)
	}

	return newListenSource(params.Params, query), nil
}

func newListenSource(params fxparams.Params, query queryFn) ListenSource {
	logger := log.WithPackage(params.Logger)
	metrics := params.Scoped("warehouse")
	return &bigQuerySource{
		logger: logger,
		query:  query,
		instrumentFetchListens: instrument.NewWithResult[[]*ListenRow](metrics, "fetch_listens").
			WithRetry(retry.New[[]*ListenRow](retry.WithLogger(logger))),
	}
}

func (s *bigQuerySource) FetchListens(ctx context.Context, after time.Time) ([]*ListenRow, error) {
	return s.instrumentFetchListens.Instrument(ctx, func(ctx context.Context) ([]*ListenRow, error) {
		it, err := s.query(ctx, after.UnixMilli())
		if err != nil {
			return nil, xerrors.Errorf("failed to run listen query: %w", classify(err))
		}

		var rows []*ListenRow
		for {
			var row bigQueryRow
			err := it.Next(&row)
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, xerrors.Errorf("failed to read listen row: %w", classify(err))
			}

			if !row.UserID.Valid || !row.SeriesID.Valid {
				s.logger.Warn("skipping incomplete listen row", zap.Int64("timestamp", row.Timestamp))
				continue
			}

			rows = append(rows, &ListenRow{
				Timestamp: time.UnixMilli(row.Timestamp).UTC(),
				UserID:    row.UserID.StringVal,
				SeriesID:  row.SeriesID.StringVal,
			})
		}

		return rows, nil
	}, instrument.WithLoggerFields(zap.Time("after", after)))
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if xerrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return retry.RateLimit(err)
		case apiErr.Code >= http.StatusInternalServerError:
			return retry.Retryable(err)
		}
	}

	return err
}
