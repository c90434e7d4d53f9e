package settlement

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/chain"
	"github.com/sybel-io/settlement/internal/storage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/pointer"
	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func (s *settlementTestSuite) expectMetadataUploads(baseID uint64) []string {
	var urls []string
	for tokenType := uint64(1); tokenType <= 6; tokenType++ {
		key := fmt.Sprintf("json/%d.json", baseID<<4|tokenType)
		url := "https://storage.googleapis.com/sybel-local-metadata/" + key
		s.blobStorage.EXPECT().Upload(gomock.Any(), key, "application/json", gomock.Any()).Return(url, nil)
		urls = append(urls, url)
	}
	return urls
}

func (s *settlementTestSuite) TestMintTracker() {
	require := testutil.Require(s.T())

	mintHash := common.HexToHash("0x0a")
	podcast := &model.MintedPodcast{
		ID:       "p1",
		SeriesID: "S",
		TxHash:   mintHash.Hex(),
		Info:     model.PodcastInfo{Name: "Podcast", BackgroundColor: "rgb(255, 0, 128)"},
	}
	s.podcastStorage.EXPECT().GetUnconfirmedPodcastMints(gomock.Any()).Return([]*model.MintedPodcast{podcast}, nil)

	tx := minedTransaction(mintHash, 42)
	s.chain.EXPECT().GetTransaction(gomock.Any(), mintHash).Return(tx, nil)
	s.chain.EXPECT().GetPodcastMintedEvents(gomock.Any(), *tx.BlockHash).Return([]*chain.PodcastMintedEvent{
		{BaseID: 4, TxHash: common.HexToHash("0x0b"), BlockNumber: 42},
		{BaseID: 5, TxHash: mintHash, BlockNumber: 42},
	}, nil)
	s.podcastStorage.EXPECT().ConfirmPodcastMint(gomock.Any(), "p1", &model.MintConfirmation{
		FractionBaseID:   5,
		TxBlockNumber:    42,
		TxBlockHash:      tx.BlockHash.Hex(),
		TxBlockTimestamp: baseTime,
	}).Return(nil)
	urls := s.expectMetadataUploads(5)
	s.podcastStorage.EXPECT().SetUploadedMetadatas(gomock.Any(), "p1", urls).Return(nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p1", SeriesID: "S", FractionBaseID: pointer.Ref(uint64(5)), UploadedMetadatas: urls},
	}, nil)

	require.NoError(s.mintTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestMintTracker_Isolation() {
	require := testutil.Require(s.T())

	hash1 := common.HexToHash("0x01")
	hash2 := common.HexToHash("0x02")
	hash3 := common.HexToHash("0x03")
	s.podcastStorage.EXPECT().GetUnconfirmedPodcastMints(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p1", SeriesID: "S1", TxHash: hash1.Hex()},
		{ID: "p2", SeriesID: "S2", TxHash: hash2.Hex()},
		{ID: "p3", SeriesID: "S3", TxHash: hash3.Hex()},
	}, nil)

	// Not mined yet.
	s.chain.EXPECT().GetTransaction(gomock.Any(), hash1).Return(&chain.Transaction{Hash: hash1}, nil)
	s.chain.EXPECT().GetTransaction(gomock.Any(), hash2).Return(nil, xerrors.New("rpc failure"))
	tx3 := minedTransaction(hash3, 7)
	s.chain.EXPECT().GetTransaction(gomock.Any(), hash3).Return(tx3, nil)
	s.chain.EXPECT().GetPodcastMintedEvents(gomock.Any(), *tx3.BlockHash).Return([]*chain.PodcastMintedEvent{
		{BaseID: 9, TxHash: hash3, BlockNumber: 7},
	}, nil)
	s.podcastStorage.EXPECT().ConfirmPodcastMint(gomock.Any(), "p3", gomock.Any()).Return(nil)
	urls := s.expectMetadataUploads(9)
	s.podcastStorage.EXPECT().SetUploadedMetadatas(gomock.Any(), "p3", urls).Return(nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return(nil, nil)

	require.NoError(s.mintTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestMintTracker_EventNotFound() {
	require := testutil.Require(s.T())

	mintHash := common.HexToHash("0x0a")
	s.podcastStorage.EXPECT().GetUnconfirmedPodcastMints(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p1", SeriesID: "S", TxHash: mintHash.Hex()},
	}, nil)
	tx := minedTransaction(mintHash, 42)
	s.chain.EXPECT().GetTransaction(gomock.Any(), mintHash).Return(tx, nil)
	s.chain.EXPECT().GetPodcastMintedEvents(gomock.Any(), *tx.BlockHash).Return([]*chain.PodcastMintedEvent{
		{BaseID: 4, TxHash: common.HexToHash("0x0b")},
	}, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return(nil, nil)

	require.NoError(s.mintTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestMintTracker_SeriesAlreadyMinted() {
	require := testutil.Require(s.T())

	mintHash := common.HexToHash("0x0a")
	s.podcastStorage.EXPECT().GetUnconfirmedPodcastMints(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p2", SeriesID: "S", TxHash: mintHash.Hex()},
	}, nil)
	tx := minedTransaction(mintHash, 42)
	s.chain.EXPECT().GetTransaction(gomock.Any(), mintHash).Return(tx, nil)
	s.chain.EXPECT().GetPodcastMintedEvents(gomock.Any(), *tx.BlockHash).Return([]*chain.PodcastMintedEvent{
		{BaseID: 6, TxHash: mintHash},
	}, nil)
	s.podcastStorage.EXPECT().ConfirmPodcastMint(gomock.Any(), "p2", gomock.Any()).Return(storage.ErrAlreadyExists)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return(nil, nil)

	require.NoError(s.mintTracker.Run(context.Background()))
}

func (s *settlementTestSuite) TestMintTracker_RetryMetadata() {
	require := testutil.Require(s.T())

	s.podcastStorage.EXPECT().GetUnconfirmedPodcastMints(gomock.Any()).Return(nil, nil)
	s.podcastStorage.EXPECT().GetMintedPodcasts(gomock.Any()).Return([]*model.MintedPodcast{
		{ID: "p1", SeriesID: "S1", FractionBaseID: pointer.Ref(uint64(3))},
		{ID: "p2", SeriesID: "S2", FractionBaseID: pointer.Ref(uint64(4)), UploadedMetadatas: []string{"url"}},
	}, nil)
	urls := s.expectMetadataUploads(3)
	s.podcastStorage.EXPECT().SetUploadedMetadatas(gomock.Any(), "p1", urls).Return(nil)

	require.NoError(s.mintTracker.Run(context.Background()))
}
