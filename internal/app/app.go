// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markdave123-py/PhotoAlbum/internal/api/handlers"
	"github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
	gatewayclient "github.com/markdave123-py/PhotoAlbum/internal/core/gateway-client"
	objectclient "github.com/markdave123-py/PhotoAlbum/internal/core/object-client"
	searchclient "github.com/markdave123-py/PhotoAlbum/internal/core/search-client"
	"github.com/markdave123-py/PhotoAlbum/internal/render"
	"github.com/markdave123-py/PhotoAlbum/internal/services"
)

const pageTitle = "Photo Album"

type App struct {
	Config       *config.Config
	ObjectClient core.ObjectClient // nil unless SDK_BACKEND selects one
	Photos       *services.PhotoService
	Page         *render.Page
	Server       *Server
}

// Clients are the routes the workflows can take, decided once at startup.
type Clients struct {
	Objects core.ObjectClient
	SDK     core.PhotoGateway // nil when no SDK backend is configured
	Direct  core.PhotoGateway
}

// NewClients builds the SDK route from config, if any, and the direct gateway.
func NewClients(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Clients, error) {
	initCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	objClient, err := objectclient.NewObjectClient(initCtx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the object client: %w", err)
	}
	if objClient != nil {
		logger.Info("object client initialized and ready", slog.String("backend", objClient.Backend()))
	}

	var searcher core.Searcher
	if cfg.SearchBackend == config.SearchBackendElastic {
		es, err := searchclient.NewElasticSearcher(cfg.ElasticsearchURL, cfg.ElasticsearchIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("couldn't initialize the search client: %w", err)
		}
		searcher = es
		logger.Info("search client initialized and ready", slog.String("index", cfg.ElasticsearchIndex))
	}

	if !cfg.HasSDK() {
		logger.Info("no SDK backend configured, using the direct gateway only")
	}

	clients := &Clients{Objects: objClient}
	if sdk := gatewayclient.NewSDKGateway(objClient, searcher); sdk != nil {
		clients.SDK = sdk
	}

	var doer gatewayclient.Doer = gatewayclient.NewClient(cfg.HTTPTimeout)
	if cfg.CircuitBreaker {
		doer = gatewayclient.NewBreakerClient(doer, gatewayclient.DefaultBreakerConfig("api-gateway"), logger)
	}
	clients.Direct = gatewayclient.NewHTTPGateway(cfg.APIBase, cfg.APIKey, doer, logger)
	return clients, nil
}

// NewPhotoService wires the upload and search workflows over clients.
func NewPhotoService(cfg *config.Config, clients *Clients, logger *slog.Logger) *services.PhotoService {
	return services.NewPhotoService(clients.SDK, clients.Direct, cfg.UploadBucket, logger)
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	clients, err := NewClients(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	photos := NewPhotoService(cfg, clients, logger)

	page, err := render.NewPage(pageTitle)
	if err != nil {
		return nil, err
	}
	handler := handlers.NewPhotoHandler(photos, page, logger)
	server := NewServer(cfg, handler, logger)

	logger.Info("photo album ready",
		slog.Any("routes", photos.Routes()),
		slog.String("api_base", cfg.APIBase),
		slog.String("bucket", cfg.UploadBucket),
	)

	return &App{
		Config:       cfg,
		ObjectClient: clients.Objects,
		Photos:       photos,
		Page:         page,
		Server:       server,
	}, nil
}
