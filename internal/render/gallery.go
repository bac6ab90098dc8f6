package render

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/markdave123-py/PhotoAlbum/internal/models"
)

// NoResultsText is shown when a search returns an empty list.
const NoResultsText = "No results"

// Image is one rendered thumbnail.
type Image struct {
	URL    string
	Bucket string
	Key    string
	Labels string
}

// Token encodes the image for a hidden form field, so a page can post back
// what it is showing.
func (img Image) Token() string {
	v := url.Values{"b": {img.Bucket}, "k": {img.Key}}
	if img.Labels != "" {
		v.Set("l", img.Labels)
	}
	return v.Encode()
}

// ParseToken reverses Token. ok is false for tokens without a bucket or key.
func ParseToken(token string) (Image, bool) {
	v, err := url.ParseQuery(token)
	if err != nil {
		return Image{}, false
	}
	bucket, key := v.Get("b"), v.Get("k")
	if bucket == "" || key == "" {
		return Image{}, false
	}
	return Image{URL: models.PublicURL(bucket, key), Bucket: bucket, Key: key, Labels: v.Get("l")}, true
}

// Gallery is one client's results container. A search replaces its contents;
// an upload preview is prepended so the newest upload comes first.
type Gallery struct {
	mu            sync.Mutex
	defaultBucket string
	images        []Image
	noResults     bool
	logger        *slog.Logger
}

func NewGallery(defaultBucket string, logger *slog.Logger) *Gallery {
	return &Gallery{defaultBucket: defaultBucket, logger: logger}
}

// Replace clears the gallery and appends every resolvable item in order.
// It returns how many images were rendered.
func (g *Gallery) Replace(items []models.SearchResultItem) int {
	images := make([]Image, 0, len(items))
	for i, it := range items {
		bucket, key, ok := it.Resolve(g.defaultBucket)
		if !ok {
			g.logger.Debug("skipping search result without key", slog.Int("index", i))
			continue
		}
		images = append(images, Image{
			URL:    models.PublicURL(bucket, key),
			Bucket: bucket,
			Key:    key,
			Labels: strings.Join(it.Labels, ", "),
		})
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.images = images
	g.noResults = len(items) == 0
	return len(images)
}

// Restore shows what a page posted back: its image tokens, skipping malformed
// ones, or the "No results" state when it had no images.
func (g *Gallery) Restore(tokens []string, noResults bool) {
	images := make([]Image, 0, len(tokens))
	for _, t := range tokens {
		img, ok := ParseToken(t)
		if !ok {
			g.logger.Debug("skipping malformed gallery token")
			continue
		}
		images = append(images, img)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.images = images
	g.noResults = noResults && len(images) == 0
}

// Prepend puts img in front of whatever is displayed.
func (g *Gallery) Prepend(img Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.images = append([]Image{img}, g.images...)
	g.noResults = false
}

// PreviewFor builds the thumbnail for an object in the default bucket.
func (g *Gallery) PreviewFor(key, labels string) Image {
	return Image{URL: models.PublicURL(g.defaultBucket, key), Bucket: g.defaultBucket, Key: key, Labels: labels}
}

// Snapshot returns a copy of the displayed images and whether the
// "No results" state is showing.
func (g *Gallery) Snapshot() ([]Image, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Image, len(g.images))
	copy(out, g.images)
	return out, g.noResults
}

// WriteText prints one URL per line, or NoResultsText.
func (g *Gallery) WriteText(w io.Writer) error {
	images, noResults := g.Snapshot()
	if noResults {
		_, err := fmt.Fprintln(w, NoResultsText)
		return err
	}
	for _, img := range images {
		if _, err := fmt.Fprintln(w, img.URL); err != nil {
			return err
		}
	}
	return nil
}
