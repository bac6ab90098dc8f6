package gatewayclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/PhotoAlbum/internal/apperrors"
	"github.com/markdave123-py/PhotoAlbum/internal/logger"
)

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      time.Second,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func getThrough(t *testing.T, d Doer, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	return d.Do(context.Background(), req)
}

func TestBreakerClient_PassesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cb := NewBreakerClient(NewClient(5*time.Second), testBreakerConfig("test-ok"), logger.Discard())

	resp, err := getThrough(t, cb, srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreakerClient_PassesClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cb := NewBreakerClient(NewClient(5*time.Second), testBreakerConfig("test-4xx"), logger.Discard())

	for i := 0; i < 5; i++ {
		resp, err := getThrough(t, cb, srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreakerClient_TripsOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	cb := NewBreakerClient(NewClient(5*time.Second), testBreakerConfig("test-trip"), logger.Discard())

	for i := 0; i < 3; i++ {
		_, err := getThrough(t, cb, srv.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUpstream))
		assert.Equal(t, "502 bad gateway", err.Error())
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := getThrough(t, cb, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load())
}
