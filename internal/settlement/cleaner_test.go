package settlement

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func (s *settlementTestSuite) TestCleaner() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().DeleteExpiredListens(gomock.Any(), baseTime.Add(-720*time.Hour)).Return(12, nil)

	require.NoError(s.cleaner.Run(context.Background(), baseTime))
}

func (s *settlementTestSuite) TestCleaner_Failure() {
	require := testutil.Require(s.T())

	s.listenStorage.EXPECT().DeleteExpiredListens(gomock.Any(), gomock.Any()).Return(0, xerrors.New("unavailable"))

	require.Error(s.cleaner.Run(context.Background(), baseTime))
}
