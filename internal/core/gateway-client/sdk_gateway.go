package gatewayclient

import (
	"context"

	"github.com/markdave123-py/PhotoAlbum/internal/apperrors"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// SDKGateway serves the workflows through backend SDKs instead of the API
// gateway. Either half may be missing; the missing operation reports
// ErrUnsupported so the caller moves on to the direct route.
type SDKGateway struct {
	objects  core.ObjectClient
	searcher core.Searcher
}

// NewSDKGateway returns nil when neither an object client nor a searcher is
// configured, meaning there is no SDK route at all.
func NewSDKGateway(objects core.ObjectClient, searcher core.Searcher) *SDKGateway {
	if objects == nil && searcher == nil {
		return nil
	}
	return &SDKGateway{objects: objects, searcher: searcher}
}

func (g *SDKGateway) Name() string {
	if g.objects != nil {
		return "sdk:" + g.objects.Backend()
	}
	return "sdk"
}

func (g *SDKGateway) Upload(ctx context.Context, in *models.UploadInput) error {
	if g.objects == nil {
		return apperrors.Unsupported("sdk upload")
	}
	if _, err := g.objects.UploadFile(ctx, in); err != nil {
		return apperrors.Wrap(err, "sdk upload")
	}
	return nil
}

func (g *SDKGateway) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	if g.searcher == nil {
		return nil, apperrors.Unsupported("sdk search")
	}
	items, err := g.searcher.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "sdk search")
	}
	return items, nil
}

var _ core.PhotoGateway = (*SDKGateway)(nil)
