package gatewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

const (
	HeaderCustomLabels = "x-amz-meta-customLabels"
	HeaderAPIKey       = "x-api-key"
	HeaderRequestID    = "X-Request-ID"

	defaultContentType = "application/octet-stream"
)

// RouteDirect names the direct HTTP route in logs and metrics.
const RouteDirect = "direct"

// HTTPGateway talks to the API gateway with plain HTTP:
//
//	PUT {base}/photos/{key}
//	GET {base}/search?q={query}
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  Doer
	logger  *slog.Logger
}

func NewHTTPGateway(baseURL, apiKey string, client Doer, logger *slog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

func (g *HTTPGateway) Name() string { return RouteDirect }

// Upload PUTs the raw bytes. Any 2xx is success.
func (g *HTTPGateway) Upload(ctx context.Context, in *models.UploadInput) error {
	endpoint := g.baseURL + "/photos/" + models.EscapeKey(in.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(in.Data))
	if err != nil {
		return fmt.Errorf("create PUT request: %w", err)
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.Header[HeaderCustomLabels] = []string{in.Labels}
	g.setCommonHeaders(ctx, req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	drainAndClose(resp)

	logger.WithContext(ctx, g.logger).DebugContext(ctx, "gateway upload accepted",
		slog.String("key", in.Key),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

// Search GETs the search endpoint and normalises whatever list shape it returns.
func (g *HTTPGateway) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	endpoint := g.baseURL + "/search?" + url.Values{"q": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	g.setCommonHeaders(ctx, req)

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}
	defer drainAndClose(resp)

	var sr models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return sr.Items, nil
}

// setCommonHeaders adds the API key when configured and a request ID that ties
// gateway logs to ours.
func (g *HTTPGateway) setCommonHeaders(ctx context.Context, req *http.Request) {
	if g.apiKey != "" {
		req.Header.Set(HeaderAPIKey, g.apiKey)
	}
	id := logger.CorrelationIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set(HeaderRequestID, id)
}

// drainAndClose reads what is left of the body so the connection goes back to
// the keep-alive pool.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

var _ core.PhotoGateway = (*HTTPGateway)(nil)
