package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Photo is the outcome of a successful upload.
type Photo struct {
	ObjectKey   string    `json:"object_key"`
	Bucket      string    `json:"bucket"`
	Labels      string    `json:"labels,omitempty"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`   // public thumbnail URL
	Route       string    `json:"route"` // gateway that stored it: "sdk:s3", "sdk:minio" or "direct"
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadInput is what a gateway needs to store one object.
type UploadInput struct {
	Key         string
	Bucket      string
	ContentType string
	Labels      string // sent as x-amz-meta-customLabels
	Data        []byte
}

// SearchResultItem is one entry returned by the search backend. The backend has
// used several field spellings over time, so every spelling is kept and
// Resolve picks between them.
type SearchResultItem struct {
	Bucket       string `json:"bucket,omitempty"`
	BucketAlt    string `json:"Bucket,omitempty"`
	ObjectKey    string `json:"objectKey,omitempty"`
	Key          string `json:"key,omitempty"`
	Filename     string `json:"filename,omitempty"`
	ObjectKeyAlt string `json:"ObjectKey,omitempty"`

	Labels []string `json:"labels,omitempty"`
}

// Resolve returns the bucket and key the item points at.
//
// Bucket order: bucket, defaultBucket, Bucket. The capitalised spelling only
// counts when no default bucket is configured.
// Key order: objectKey, key, filename, ObjectKey.
// ok is false when no key field is set.
func (it SearchResultItem) Resolve(defaultBucket string) (bucket, key string, ok bool) {
	key = firstNonEmpty(it.ObjectKey, it.Key, it.Filename, it.ObjectKeyAlt)
	if key == "" {
		return "", "", false
	}
	bucket = firstNonEmpty(it.Bucket, defaultBucket, it.BucketAlt)
	return bucket, key, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// SearchResponse accepts every shape the search route has been seen to return:
// a bare list, {"results": [...]}, or an SDK wrapper {"data": <either>}.
// Entries that are not JSON objects are dropped.
type SearchResponse struct {
	Items []SearchResultItem
}

func (r *SearchResponse) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Items = nil
		return nil
	}

	if trimmed[0] == '[' {
		items, err := decodeItems(trimmed)
		if err != nil {
			return err
		}
		r.Items = items
		return nil
	}

	var wrapper struct {
		Data    json.RawMessage `json:"data"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}

	if len(wrapper.Data) > 0 && !bytes.Equal(bytes.TrimSpace(wrapper.Data), []byte("null")) {
		var inner SearchResponse
		if err := json.Unmarshal(wrapper.Data, &inner); err != nil {
			return err
		}
		r.Items = inner.Items
		return nil
	}

	if len(wrapper.Results) == 0 || bytes.Equal(bytes.TrimSpace(wrapper.Results), []byte("null")) {
		r.Items = nil
		return nil
	}
	items, err := decodeItems(wrapper.Results)
	if err != nil {
		return err
	}
	r.Items = items
	return nil
}

func decodeItems(list []byte) ([]SearchResultItem, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(list, &raw); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}

	items := make([]SearchResultItem, 0, len(raw))
	for _, entry := range raw {
		var it SearchResultItem
		if err := json.Unmarshal(entry, &it); err != nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// NewObjectKey builds "<unix millis>_<base filename>". Two uploads of the same
// name within one millisecond share a key and the later one overwrites.
func NewObjectKey(now time.Time, filename string) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), filepath.Base(filename))
}

// PublicURL is the virtual-hosted S3 address of key in bucket.
func PublicURL(bucket, key string) string {
	return "https://" + bucket + ".s3.amazonaws.com/" + EscapeKey(key)
}

// EscapeKey percent-encodes key the way browsers' encodeURIComponent does:
// everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped, "/" included.
func EscapeKey(key string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
