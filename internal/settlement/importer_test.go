package settlement

import (
	"context"
	"sync"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/testutil"
	"github.com/sybel-io/settlement/internal/warehouse"
)

func (s *settlementTestSuite) TestImport() {
	require := testutil.Require(s.T())

	at := func(minutes int) time.Time {
		return baseTime.Add(time.Duration(minutes) * time.Minute)
	}
	now := at(100)

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: at(50), ImportCount: 4}, nil)
	s.listenSource.EXPECT().FetchListens(gomock.Any(), at(50)).Return([]*warehouse.ListenRow{
		{Timestamp: at(60), UserID: "A", SeriesID: "S1"},
		{Timestamp: at(70), UserID: "B", SeriesID: "S1"},
		{Timestamp: at(70), UserID: "A", SeriesID: "S2"},
	}, nil)

	var added []*model.ListenRecord
	s.listenStorage.EXPECT().AddListens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, listens []*model.ListenRecord) error {
			added = append(added, listens...)
			return nil
		})
	s.watermarkStorage.EXPECT().PersistWatermark(gomock.Any(), &model.Watermark{
		Timestamp:   at(70),
		ImportCount: 3,
	}).Return(nil)

	userIDs := s.importer.Import(context.Background(), now)
	require.ElementsMatch([]string{"A", "B"}, userIDs)
	require.Equal([]*model.ListenRecord{
		{UserID: "A", SeriesID: "S1", Date: at(60)},
		{UserID: "B", SeriesID: "S1", Date: at(70)},
		{UserID: "A", SeriesID: "S2", Date: at(70)},
	}, added)
	for _, record := range added {
		require.Equal(model.ListenStateUnsettled, record.State())
	}
}

func (s *settlementTestSuite) TestImport_Batches() {
	require := testutil.Require(s.T())

	s.importer.config.WriteBatchSize = 2
	rows := make([]*warehouse.ListenRow, 5)
	for i := range rows {
		rows[i] = &warehouse.ListenRow{
			Timestamp: baseTime.Add(time.Duration(i+1) * time.Second),
			UserID:    "A",
			SeriesID:  "S",
		}
	}

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: baseTime}, nil)
	s.listenSource.EXPECT().FetchListens(gomock.Any(), baseTime).Return(rows, nil)

	var mu sync.Mutex
	var sizes []int
	s.listenStorage.EXPECT().AddListens(gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(ctx context.Context, listens []*model.ListenRecord) error {
			mu.Lock()
			defer mu.Unlock()
			sizes = append(sizes, len(listens))
			return nil
		})
	s.watermarkStorage.EXPECT().PersistWatermark(gomock.Any(), &model.Watermark{
		Timestamp:   rows[4].Timestamp,
		ImportCount: 5,
	}).Return(nil)

	userIDs := s.importer.Import(context.Background(), baseTime.Add(time.Hour))
	require.Equal([]string{"A"}, userIDs)
	require.ElementsMatch([]int{2, 2, 1}, sizes)
}

func (s *settlementTestSuite) TestImport_Debounced() {
	require := testutil.Require(s.T())

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: baseTime}, nil)

	userIDs := s.importer.Import(context.Background(), baseTime.Add(14*time.Minute))
	require.Empty(userIDs)
}

func (s *settlementTestSuite) TestImport_NoNewRow() {
	require := testutil.Require(s.T())

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: baseTime, ImportCount: 3}, nil)
	s.listenSource.EXPECT().FetchListens(gomock.Any(), baseTime).Return(nil, nil)
	s.watermarkStorage.EXPECT().PersistWatermark(gomock.Any(), &model.Watermark{Timestamp: baseTime}).Return(nil)

	userIDs := s.importer.Import(context.Background(), baseTime.Add(time.Hour))
	require.Empty(userIDs)
}

func (s *settlementTestSuite) TestImport_FirstRun() {
	require := testutil.Require(s.T())

	now := baseTime.Add(time.Hour)
	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(nil, xerrors.Errorf("no watermark: %w", storage.ErrItemNotFound))
	s.listenSource.EXPECT().FetchListens(gomock.Any(), now).Return(nil, nil)
	s.watermarkStorage.EXPECT().PersistWatermark(gomock.Any(), &model.Watermark{Timestamp: now}).Return(nil)

	userIDs := s.importer.Import(context.Background(), now)
	require.Empty(userIDs)
}

func (s *settlementTestSuite) TestImport_WriteFailure() {
	require := testutil.Require(s.T())

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: baseTime}, nil)
	s.listenSource.EXPECT().FetchListens(gomock.Any(), baseTime).Return([]*warehouse.ListenRow{
		{Timestamp: baseTime.Add(time.Minute), UserID: "A", SeriesID: "S"},
	}, nil)
	s.listenStorage.EXPECT().AddListens(gomock.Any(), gomock.Any()).Return(xerrors.New("unavailable"))

	// The watermark must not move past the data which was not written.
	userIDs := s.importer.Import(context.Background(), baseTime.Add(time.Hour))
	require.Empty(userIDs)
}

func (s *settlementTestSuite) TestImport_FetchFailure() {
	require := testutil.Require(s.T())

	s.watermarkStorage.EXPECT().GetLatestWatermark(gomock.Any()).
		Return(&model.Watermark{Timestamp: baseTime}, nil)
	s.listenSource.EXPECT().FetchListens(gomock.Any(), baseTime).Return(nil, xerrors.New("unavailable"))

	userIDs := s.importer.Import(context.Background(), baseTime.Add(time.Hour))
	require.Empty(userIDs)
}
