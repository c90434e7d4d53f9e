package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/sybel-io/settlement/internal/fraction"
	"github.com/sybel-io/settlement/internal/storage/blobstorage"
	"github.com/sybel-io/settlement/internal/storage/model"
	"github.com/sybel-io/settlement/internal/utils/fxparams"
	"github.com/sybel-io/settlement/internal/utils/log"
	"github.com/sybel-io/settlement/internal/utils/syncgroup"
)

type (
	// MetadataGenerator uploads the NFT metadata of every fraction of a podcast.
	MetadataGenerator struct {
		logger      *zap.Logger
		blobStorage blobstorage.BlobStorage
		templates   *blobstorage.Templates
		contentType string
	}

	MetadataGeneratorParams struct {
		fx.In
		fxparams.Params
		BlobStorage blobstorage.BlobStorage
		Templates   *blobstorage.Templates
	}

	nftMetadata struct {
		ID              uint64         `json:"id"`
		Image           string         `json:"image"`
		Name            string         `json:"name"`
		Description     string         `json:"description"`
		BackgroundColor string         `json:"background_color"`
		Attributes      []nftAttribute `json:"attributes"`
	}

	nftAttribute struct {
		TraitType string `json:"trait_type"`
		Value     string `json:"value"`
	}
)

const (
	traitRarity = "Rarity"
	traitType   = "Type"
	typePodcast = "Podcast"
)

func NewMetadataGenerator(params MetadataGeneratorParams) *MetadataGenerator {
	return &MetadataGenerator{
		logger:      log.WithPackage(params.Logger),
		blobStorage: params.BlobStorage,
		templates:   params.Templates,
		contentType: params.Config.Metadata.ContentType,
	}
}

// Generate returns the public urls of the uploaded metadata, ordered by token type.
func (g *MetadataGenerator) Generate(ctx context.Context, podcast *model.MintedPodcast) ([]string, error) {
	if !podcast.IsMinted() {
		return nil, xerrors.Errorf("podcast %v is not minted yet", podcast.ID)
	}

	urls := make([]string, len(fraction.AllTokenTypes))
	group, ctx := syncgroup.New(ctx)
	for i, tokenType := range fraction.AllTokenTypes {
		i, tokenType := i, tokenType
		group.Go(func() error {
			id, err := podcast.FractionID(tokenType)
			if err != nil {
				return err
			}

			data, err := newNftMetadata(id, podcast.Info).marshal()
			if err != nil {
				return xerrors.Errorf("failed to build metadata of fraction %v: %w", id, err)
			}

			url, err := g.blobStorage.Upload(ctx, g.templates.ObjectKey(id), g.contentType, data)
			if err != nil {
				return xerrors.Errorf("failed to upload metadata of fraction %v: %w", id, err)
			}

			urls[i] = url
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debug("generated metadata", zap.String("series_id", podcast.SeriesID), zap.Int("files", len(urls)))
	return urls, nil
}

func newNftMetadata(id fraction.ID, info model.PodcastInfo) *nftMetadata {
	return &nftMetadata{
		ID:              uint64(id),
		Image:           info.Image,
		Name:            info.Name,
		Description:     info.Description,
		BackgroundColor: toHexColor(info.BackgroundColor),
		Attributes: []nftAttribute{
			{TraitType: traitRarity, Value: id.TokenType().Rarity()},
			{TraitType: traitType, Value: typePodcast},
		},
	}
}

func (m *nftMetadata) marshal() ([]byte, error) {
	return json.Marshal(m)
}

// toHexColor converts a css color such as "rgb(255, 0, 128)" to "#ff0080".
// Anything which is not an rgb color is returned unchanged.
func toHexColor(color string) string {
	color = strings.TrimSpace(color)
	open := strings.IndexByte(color, '(')
	if open < 0 || !strings.HasSuffix(color, ")") {
		return color
	}

	channels := strings.Split(color[open+1:len(color)-1], ",")
	if len(channels) < 3 {
		return color
	}

	var sb strings.Builder
	sb.WriteByte('#')
	for _, channel := range channels[:3] {
		value, err := strconv.ParseUint(strings.TrimSpace(channel), 10, 8)
		if err != nil {
			return color
		}
		sb.WriteString(fmt.Sprintf("%02x", value))
	}
	return sb.String()
}
