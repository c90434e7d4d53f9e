package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"github.com/sybel-io/settlement/internal/chain"
	chainmocks "github.com/sybel-io/settlement/internal/chain/mocks"
	"github.com/sybel-io/settlement/internal/config"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/blobstorage"
	blobmocks "github.com/sybel-io/settlement/internal/storage/blobstorage/mocks"
	docstoremocks "github.com/sybel-io/settlement/internal/storage/docstore/mocks"
	"github.com/sybel-io/settlement/internal/utils/testapp"
	"github.com/sybel-io/settlement/internal/utils/testutil"
	"github.com/sybel-io/settlement/internal/utils/timesource"
	"github.com/sybel-io/settlement/internal/warehouse"
	warehousemocks "github.com/sybel-io/settlement/internal/warehouse/mocks"
)

type settlementTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	app        testapp.TestApp
	config     *config.Config
	timeSource *timesource.EventTimeSource

	chain                  *chainmocks.MockClient
	listenSource           *warehousemocks.MockListenSource
	watermarkStorage       *docstoremocks.MockWatermarkStorage
	listenStorage          *docstoremocks.MockListenStorage
	podcastStorage         *docstoremocks.MockPodcastStorage
	walletStorage          *docstoremocks.MockWalletStorage
	consumedContentStorage *docstoremocks.MockConsumedContentStorage
	settlementStorage      *docstoremocks.MockSettlementStorage
	blobStorage            *blobmocks.MockBlobStorage

	importer       *Importer
	walletResolver *WalletResolver
	aggregator     *Aggregator
	rewardTracker  *RewardTracker
	mintTracker    *MintTracker
	minter         *Minter
	cleaner        *Cleaner
}

var baseTime = time.Date(2023, 3, 20, 12, 0, 0, 0, time.UTC)

func TestSettlementTestSuite(t *testing.T) {
	suite.Run(t, new(settlementTestSuite))
}

func (s *settlementTestSuite) SetupTest() {
	require := testutil.Require(s.T())

	cfg, err := config.New()
	require.NoError(err)
	s.config = cfg

	s.ctrl = gomock.NewController(s.T())
	s.timeSource = timesource.NewEventTimeSource().Update(baseTime)
	s.chain = chainmocks.NewMockClient(s.ctrl)
	s.listenSource = warehousemocks.NewMockListenSource(s.ctrl)
	s.watermarkStorage = docstoremocks.NewMockWatermarkStorage(s.ctrl)
	s.listenStorage = docstoremocks.NewMockListenStorage(s.ctrl)
	s.podcastStorage = docstoremocks.NewMockPodcastStorage(s.ctrl)
	s.walletStorage = docstoremocks.NewMockWalletStorage(s.ctrl)
	s.consumedContentStorage = docstoremocks.NewMockConsumedContentStorage(s.ctrl)
	s.settlementStorage = docstoremocks.NewMockSettlementStorage(s.ctrl)
	s.blobStorage = blobmocks.NewMockBlobStorage(s.ctrl)

	s.app = testapp.New(
		s.T(),
		testapp.WithConfig(cfg),
		testapp.WithTimeSource(s.timeSource),
		Module,
		fx.Provide(blobstorage.NewTemplates),
		fx.Provide(func() chain.Client { return s.chain }),
		fx.Provide(func() warehouse.ListenSource { return s.listenSource }),
		fx.Provide(func() storage.WatermarkStorage { return s.watermarkStorage }),
		fx.Provide(func() storage.ListenStorage { return s.listenStorage }),
		fx.Provide(func() storage.PodcastStorage { return s.podcastStorage }),
		fx.Provide(func() storage.WalletStorage { return s.walletStorage }),
		fx.Provide(func() storage.ConsumedContentStorage { return s.consumedContentStorage }),
		fx.Provide(func() storage.SettlementStorage { return s.settlementStorage }),
		fx.Provide(func() storage.BlobStorage { return s.blobStorage }),
		fx.Populate(&s.importer),
		fx.Populate(&s.walletResolver),
		fx.Populate(&s.aggregator),
		fx.Populate(&s.rewardTracker),
		fx.Populate(&s.mintTracker),
		fx.Populate(&s.minter),
		fx.Populate(&s.cleaner),
	)
}

func (s *settlementTestSuite) TearDownTest() {
	s.app.Close()
	s.ctrl.Finish()
}
