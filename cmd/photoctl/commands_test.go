package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/PhotoAlbum/internal/app"
	"github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

type fakeObjects struct {
	stored []*models.UploadInput
}

func (f *fakeObjects) Backend() string { return "s3" }

func (f *fakeObjects) UploadFile(_ context.Context, in *models.UploadInput) (string, error) {
	f.stored = append(f.stored, in)
	return "https://" + in.Bucket + ".s3.amazonaws.com/" + in.Key, nil
}

type gatewayCalls struct {
	puts    []string
	labels  []string
	bodies  [][]byte
	queries []string
}

func newGateway(t *testing.T, searchBody string) (*httptest.Server, *gatewayCalls) {
	t.Helper()
	calls := &gatewayCalls{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			calls.puts = append(calls.puts, r.URL.Path)
			calls.labels = append(calls.labels, r.Header.Get("x-amz-meta-customLabels"))
			calls.bodies = append(calls.bodies, body)
		case http.MethodGet:
			calls.queries = append(calls.queries, r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(searchBody))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func testConfig(t *testing.T, apiBase string) *config.Config {
	t.Helper()
	t.Setenv("API_BASE", apiBase)
	t.Setenv("UPLOAD_BUCKET", "photos")
	t.Setenv("SDK_BACKEND", "none")
	t.Setenv("SEARCH_BACKEND", "none")
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), cfg, logger.Discard(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUpload(t *testing.T) {
	srv, calls := newGateway(t, `[]`)
	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o600))

	code, out, _ := runCLI(t, testConfig(t, srv.URL), "upload", "-labels", "cat,pet", path)

	require.Equal(t, 0, code)
	assert.Contains(t, out, "Upload successful: ")
	assert.Contains(t, out, "_cat.png\n")
	assert.Contains(t, out, "https://photos.s3.amazonaws.com/")
	require.Len(t, calls.puts, 1)
	assert.Regexp(t, `^/photos/\d+_cat\.png$`, calls.puts[0])
	assert.Equal(t, "cat,pet", calls.labels[0])
	assert.Equal(t, []byte("png"), calls.bodies[0])
}

func TestUpload_NoFile(t *testing.T) {
	srv, calls := newGateway(t, `[]`)

	code, _, errOut := runCLI(t, testConfig(t, srv.URL), "upload")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Please choose a file to upload.\n", errOut)
	assert.Empty(t, calls.puts)
}

func TestSearch(t *testing.T) {
	srv, calls := newGateway(t, `{"results":[{"objectKey":"a.jpg"},{"bucket":"other","ObjectKey":"b c.png"},{"Bucket":"legacy","key":"c.png"},{"labels":["x"]}]}`)

	code, out, _ := runCLI(t, testConfig(t, srv.URL), "search", "dog", "park")

	require.Equal(t, 0, code)
	assert.Equal(t, []string{"dog park"}, calls.queries)
	assert.Equal(t, "https://photos.s3.amazonaws.com/a.jpg\n"+
		"https://other.s3.amazonaws.com/b%20c.png\n"+
		"https://photos.s3.amazonaws.com/c.png\n", out)
}

func TestSearch_NoResults(t *testing.T) {
	srv, _ := newGateway(t, `[]`)

	code, out, _ := runCLI(t, testConfig(t, srv.URL), "search", "dog")

	require.Equal(t, 0, code)
	assert.Equal(t, "No results\n", out)
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv, calls := newGateway(t, `[]`)

	code, _, errOut := runCLI(t, testConfig(t, srv.URL), "search", "  ")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Enter a search query.\n", errOut)
	assert.Empty(t, calls.queries)
}

func TestSearch_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	code, _, errOut := runCLI(t, testConfig(t, srv.URL), "search", "dog")

	assert.Equal(t, 1, code)
	assert.Equal(t, "Search failed: 500 boom\n\n", errOut)
}

func TestPublish_NeedsObjectClient(t *testing.T) {
	srv, _ := newGateway(t, `[]`)

	code, _, errOut := runCLI(t, testConfig(t, srv.URL), "publish")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "SDK_BACKEND")
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, testConfig(t, "http://localhost:3000"), "delete")

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "delete"`)
}

func TestPublish(t *testing.T) {
	srv, calls := newGateway(t, `[{"objectKey":"a.jpg"}]`)
	t.Setenv("FRONTEND_BUCKET", "site")
	t.Setenv("FRONTEND_URL", "http://site.example/")
	cfg := testConfig(t, srv.URL)

	objects := &fakeObjects{}
	newClients = func(ctx context.Context, cfg *config.Config, l *slog.Logger) (*app.Clients, error) {
		clients, err := app.NewClients(ctx, cfg, l)
		if err != nil {
			return nil, err
		}
		clients.Objects = objects
		return clients, nil
	}
	t.Cleanup(func() { newClients = app.NewClients })

	code, out, _ := runCLI(t, cfg, "publish", "dog")

	require.Equal(t, 0, code)
	assert.Equal(t, "http://site.example/\n", out)
	assert.Equal(t, []string{"dog"}, calls.queries)
	require.Len(t, objects.stored, 1)
	page := objects.stored[0]
	assert.Equal(t, "site", page.Bucket)
	assert.Equal(t, "index.html", page.Key)
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
	assert.Contains(t, string(page.Data), `<img src="https://photos.s3.amazonaws.com/a.jpg"`)
	assert.NotContains(t, string(page.Data), "<form")
}
