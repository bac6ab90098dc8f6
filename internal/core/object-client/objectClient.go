package objectclient

import (
	"context"
	"fmt"
	"log/slog"

	cfg "github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
)

// NewObjectClient builds the object client selected by SDK_BACKEND. It returns
// nil and no error when no SDK backend is configured.
func NewObjectClient(ctx context.Context, c *cfg.Config, logger *slog.Logger) (core.ObjectClient, error) {
	switch c.SDKBackend {
	case cfg.SDKBackendS3:
		client, err := NewS3Client(ctx, c, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case cfg.SDKBackendMinio:
		client, err := NewMinioClient(c, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case cfg.SDKBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown sdk backend: %q", c.SDKBackend)
	}
}
