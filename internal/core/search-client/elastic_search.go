package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/markdave123-py/PhotoAlbum/internal/core"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// maxHits bounds one search. The gateway route has no paging either.
const maxHits = 50

// photoDoc is the document the indexing side writes for every stored photo.
type photoDoc struct {
	ObjectKey        string   `json:"objectKey"`
	Bucket           string   `json:"bucket"`
	CreatedTimestamp string   `json:"createdTimestamp"`
	Labels           []string `json:"labels"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source photoDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// ElasticSearcher queries the photo label index directly.
type ElasticSearcher struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// NewElasticSearcher creates a client for esURL. No request is made until the
// first search.
func NewElasticSearcher(esURL, indexName string, logger *slog.Logger) (*ElasticSearcher, error) {
	return newElasticSearcher(elasticsearch.Config{Addresses: []string{esURL}}, indexName, logger)
}

func newElasticSearcher(cfg elasticsearch.Config, indexName string, logger *slog.Logger) (*ElasticSearcher, error) {
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}
	return &ElasticSearcher{client: client, indexName: indexName, logger: logger}, nil
}

// Search matches every word of query against the photo labels.
func (e *ElasticSearcher) Search(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	body, err := buildLabelQuery(query)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: build query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithSize(maxHits),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		if res.StatusCode == http.StatusNotFound {
			e.logger.WarnContext(ctx, "photo index missing", slog.String("index", e.indexName))
			return []models.SearchResultItem{}, nil
		}
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return nil, fmt.Errorf("elasticsearch search: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	var sr esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	items := make([]models.SearchResultItem, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		items = append(items, models.SearchResultItem{
			ObjectKey: hit.Source.ObjectKey,
			Bucket:    hit.Source.Bucket,
			Labels:    hit.Source.Labels,
		})
	}

	e.logger.DebugContext(ctx, "elasticsearch search done", slog.String("query", query), slog.Int("hits", len(items)))
	return items, nil
}

// buildLabelQuery ORs one match clause per word so "dogs and cats" finds photos
// labelled with either.
func buildLabelQuery(query string) ([]byte, error) {
	words := strings.Fields(strings.ToLower(query))
	should := make([]map[string]any, 0, len(words))
	for _, w := range words {
		should = append(should, map[string]any{
			"match": map[string]any{"labels": w},
		})
	}
	return json.Marshal(map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should":               should,
				"minimum_should_match": 1,
			},
		},
	})
}

var _ core.Searcher = (*ElasticSearcher)(nil)
