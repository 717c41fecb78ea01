// Package fetcher implements the leaf fetch step of the worker pipeline:
// a pure URL -> (bytes, content-type, status) function with a bounded
// timeout and a configurable user-agent. It never parses content; it
// only returns bytes and metadata.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/pkg/failure"
)

// Fetcher is the pluggable HTML-fetching collaborator. HTTPFetcher is
// the concrete default; tests substitute a fake implementation.
type Fetcher interface {
	Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError)
}

// HTTPFetcher performs real HTTP GETs.
type HTTPFetcher struct {
	metadataSink metadata.MetadataSink
	client       *http.Client
}

func NewHTTPFetcher(metadataSink metadata.MetadataSink) *HTTPFetcher {
	return &HTTPFetcher{metadataSink: metadataSink, client: &http.Client{}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	start := time.Now()
	result, err := f.fetch(ctx, param)
	duration := time.Since(start)

	statusCode, contentType := 0, ""
	if err == nil {
		statusCode, contentType = result.StatusCode(), result.ContentType()
	}
	f.metadataSink.RecordFetch(metadata.FetchEvent{
		URL:         param.URL(),
		StatusCode:  statusCode,
		Duration:    duration,
		ContentType: contentType,
	})

	if err != nil {
		f.metadataSink.RecordError(
			time.Now(), "fetcher", "HTTPFetcher.Fetch",
			mapFetchErrorToMetadataCause(err.(*FetchError).Cause),
			err.Error(),
			metadata.NewAttr(metadata.AttrURL, param.URL()),
		)
		return FetchResult{}, err
	}
	return result, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	timeout := param.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, reqErr := http.NewRequestWithContext(reqCtx, http.MethodGet, param.URL(), nil)
	if reqErr != nil {
		return FetchResult{}, &FetchError{Message: reqErr.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	req.Header.Set("User-Agent", param.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		if reqCtx.Err() != nil {
			return FetchResult{}, &FetchError{Message: doErr.Error(), Retryable: true, Cause: ErrCauseTimeout}
		}
		return FetchResult{}, &FetchError{Message: doErr.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return FetchResult{}, &FetchError{Message: readErr.Error(), Retryable: true, Cause: ErrCauseReadBody}
	}

	if resp.StatusCode >= 400 {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			Cause:     ErrCauseBadStatus,
		}
	}

	return FetchResult{
		url:         param.URL(),
		body:        body,
		contentType: resp.Header.Get("Content-Type"),
		statusCode:  resp.StatusCode,
		fetchedAt:   time.Now(),
	}, nil
}
