package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/markdave123-py/PhotoAlbum/internal/apperrors"
	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// User-facing prompts for input errors.
const (
	PromptNoFile     = "Please choose a file to upload."
	PromptEmptyQuery = "Enter a search query."
)

var (
	ErrNoFile     = apperrors.InvalidInput(PromptNoFile)
	ErrEmptyQuery = apperrors.InvalidInput(PromptEmptyQuery)
)

const defaultContentType = "application/octet-stream"

var workflowTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "photoalbum_workflow_total",
		Help: "Upload and search attempts by route and outcome",
	},
	[]string{"workflow", "route", "outcome"},
)

func init() {
	prometheus.MustRegister(workflowTotal)
}

// UploadRequest is one file picked by the user.
type UploadRequest struct {
	Filename    string
	ContentType string
	Labels      string
	Body        io.Reader
}

// PhotoService runs the upload and search workflows: try the SDK route when one
// was configured at startup, fall back to the direct gateway, report failure.
type PhotoService struct {
	sdk    core.PhotoGateway
	direct core.PhotoGateway
	bucket string
	now    func() time.Time
	logger *slog.Logger
}

// NewPhotoService wires the routes. sdk may be nil.
func NewPhotoService(sdk, direct core.PhotoGateway, bucket string, logger *slog.Logger) *PhotoService {
	return &PhotoService{
		sdk:    sdk,
		direct: direct,
		bucket: bucket,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the clock used for object keys.
func (s *PhotoService) WithClock(now func() time.Time) *PhotoService {
	s.now = now
	return s
}

// Bucket is the default upload bucket.
func (s *PhotoService) Bucket() string { return s.bucket }

// Routes lists the configured routes in the order they are tried.
func (s *PhotoService) Routes() []string {
	var routes []string
	if s.sdk != nil {
		routes = append(routes, s.sdk.Name())
	}
	return append(routes, s.direct.Name())
}

// Upload stores the file under "<millis>_<name>" and returns the stored photo.
// A missing file is rejected before any network call.
func (s *PhotoService) Upload(ctx context.Context, req *UploadRequest) (*models.Photo, error) {
	if req == nil || req.Body == nil || strings.TrimSpace(req.Filename) == "" {
		return nil, ErrNoFile
	}
	log := logger.WithContext(ctx, s.logger)

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("read upload body: %w", err))
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	uploadedAt := s.now()
	in := &models.UploadInput{
		Key:         models.NewObjectKey(uploadedAt, req.Filename),
		Bucket:      s.bucket,
		ContentType: contentType,
		Labels:      req.Labels,
		Data:        data,
	}

	route, err := s.attempt(ctx, "upload", func(gw core.PhotoGateway) error {
		return gw.Upload(ctx, in)
	})
	if err != nil {
		log.ErrorContext(ctx, "upload failed", slog.String("key", in.Key), slog.String("error", err.Error()))
		return nil, err
	}

	log.InfoContext(ctx, "upload successful",
		slog.String("key", in.Key),
		slog.String("route", route),
		slog.Int("bytes", len(data)),
	)
	return &models.Photo{
		ObjectKey:   in.Key,
		Bucket:      in.Bucket,
		Labels:      in.Labels,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         models.PublicURL(in.Bucket, in.Key),
		Route:       route,
		UploadedAt:  uploadedAt,
	}, nil
}

// Search returns the raw result descriptors for query. A blank query is
// rejected before any network call.
func (s *PhotoService) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	log := logger.WithContext(ctx, s.logger)

	var items []models.SearchResultItem
	route, err := s.attempt(ctx, "search", func(gw core.PhotoGateway) error {
		var err error
		items, err = gw.Search(ctx, q)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "search failed", slog.String("query", q), slog.String("error", err.Error()))
		return nil, err
	}

	log.InfoContext(ctx, "search done", slog.String("query", q), slog.String("route", route), slog.Int("results", len(items)))
	return items, nil
}

// attempt runs op against the SDK route, then the direct route when the SDK is
// absent or fails. It returns the name of the route that succeeded.
func (s *PhotoService) attempt(ctx context.Context, workflow string, op func(core.PhotoGateway) error) (string, error) {
	if s.sdk != nil {
		err := op(s.sdk)
		if err == nil {
			workflowTotal.WithLabelValues(workflow, s.sdk.Name(), "success").Inc()
			return s.sdk.Name(), nil
		}
		if !errors.Is(err, apperrors.ErrUnsupported) {
			workflowTotal.WithLabelValues(workflow, s.sdk.Name(), "failure").Inc()
			logger.WithContext(ctx, s.logger).WarnContext(ctx, "sdk attempt failed, falling back to direct gateway",
				slog.String("workflow", workflow),
				slog.String("route", s.sdk.Name()),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := op(s.direct); err != nil {
		workflowTotal.WithLabelValues(workflow, s.direct.Name(), "failure").Inc()
		return "", err
	}
	workflowTotal.WithLabelValues(workflow, s.direct.Name(), "success").Inc()
	return s.direct.Name(), nil
}
