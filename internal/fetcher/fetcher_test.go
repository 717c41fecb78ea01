package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/fetcher"
	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/pkg/failure"
)

func newTestRecorder(t *testing.T) metadata.MetadataSink {
	logger, closeFn, err := metadata.NewFileLogger(t.TempDir() + "/test.log")
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return metadata.NewRecorder(logger, "test")
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher(newTestRecorder(t))
	result, err := f.Fetch(context.Background(), fetcher.NewFetchParam(srv.URL, "distcrawl/1.0", time.Second))
	require.NoError(t, err)
	assert.Equal(t, 200, result.StatusCode())
	assert.Contains(t, result.ContentType(), "text/html")
	assert.Contains(t, string(result.Body()), "hi")
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher(newTestRecorder(t))
	_, err := f.Fetch(context.Background(), fetcher.NewFetchParam(srv.URL, "distcrawl/1.0", 5*time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, failure.SeverityRecoverable, err.Severity())
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := fetcher.NewHTTPFetcher(newTestRecorder(t))
	_, err := f.Fetch(context.Background(), fetcher.NewFetchParam(srv.URL, "distcrawl/1.0", time.Second))
	require.Error(t, err)
	assert.Equal(t, failure.SeverityRecoverable, err.Severity())
}
