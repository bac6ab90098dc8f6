package core

import (
	"context"

	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// PhotoGateway is one route to the photo backend. Both the SDK route and the
// direct HTTP route implement it, and the workflows only see this interface.
type PhotoGateway interface {
	// Name identifies the route in logs and metrics.
	Name() string
	Upload(ctx context.Context, in *models.UploadInput) error
	Search(ctx context.Context, query string) ([]models.SearchResultItem, error)
}

// ObjectClient defines interactions with S3 or any object storage.
// It's abstract so AWS can be swapped for MinIO without touching callers.
type ObjectClient interface {
	UploadFile(ctx context.Context, in *models.UploadInput) (url string, err error)
	Backend() string
}

// Searcher queries the photo index directly, bypassing the gateway.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResultItem, error)
}
