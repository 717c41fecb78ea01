package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/bus"
	"github.com/distcrawl/distcrawl/internal/fetcher"
	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/internal/worker"
	"github.com/distcrawl/distcrawl/pkg/failure"
)

const (
	rankCoordinator = 0
	rankWorker      = 1
	rankIndexer     = 2
)

type fakeFetcher struct {
	result fetcher.FetchResult
	err    failure.ClassifiedError
}

func (f *fakeFetcher) Fetch(context.Context, fetcher.FetchParam) (fetcher.FetchResult, failure.ClassifiedError) {
	return f.result, f.err
}

type noopSink struct{}

func (noopSink) RecordError(time.Time, string, string, metadata.ErrorCause, string, ...metadata.Attribute) {
}
func (noopSink) RecordFetch(metadata.FetchEvent)          {}
func (noopSink) RecordArtifact(string, string, ...metadata.Attribute) {}

func newTestWorker(t *testing.T, f fetcher.Fetcher) (*worker.Worker, *bus.Bus) {
	t.Helper()
	b := bus.New([]int{rankCoordinator, rankWorker, rankIndexer}, 8)
	w := worker.New(worker.Param{
		Rank: rankWorker, CoordinatorRank: rankCoordinator, IndexerRank: rankIndexer,
		UserAgent: "distcrawl-test/1.0", FetchTimeout: time.Second,
	}, b, f, noopSink{})
	return w, b
}

func TestWorkerProcessEmitsLinksDocAndStatus(t *testing.T) {
	html := `<html><body><a href="/a">a</a><a href="http://other.com/b">b</a></body></html>`
	f := &fakeFetcher{result: fetcher.NewFetchResultForTest("http://example.com/", []byte(html), "text/html", 200, time.Now())}
	w, b := newTestWorker(t, f)

	coordInbox, err := b.Inbox(rankCoordinator)
	require.NoError(t, err)
	indexerInbox, err := b.Inbox(rankIndexer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- w.Run(ctx) }()

	url := "http://example.com/"
	require.NoError(t, b.Send(ctx, rankWorker, bus.Message{From: rankCoordinator, Tag: bus.TagTask, Body: bus.NewTask(url)}))

	linksMsg := <-coordInbox
	require.Equal(t, bus.TagLinks, linksMsg.Tag)
	links := linksMsg.Body.(bus.LinksPayload)
	assert.Len(t, links.URLs, 2)

	docMsg := <-indexerInbox
	require.Equal(t, bus.TagDoc, docMsg.Tag)
	doc := docMsg.Body.(bus.DocPayload)
	assert.Equal(t, url, doc.URL)
	assert.Equal(t, []byte(html), doc.Content)

	statusMsg := <-coordInbox
	require.Equal(t, bus.TagStatus, statusMsg.Tag)
	status := statusMsg.Body.(bus.StatusPayload)
	assert.Equal(t, url, status.URL)

	require.NoError(t, b.Send(ctx, rankWorker, bus.Message{From: rankCoordinator, Tag: bus.TagTask, Body: bus.Sentinel()}))
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after sentinel")
	}
}

func TestWorkerFetchErrorEmitsErrorMessage(t *testing.T) {
	f := &fakeFetcher{err: &fetcher.FetchError{Message: "boom", Retryable: true, Cause: fetcher.ErrCauseNetworkFailure}}
	w, b := newTestWorker(t, f)

	coordInbox, err := b.Inbox(rankCoordinator)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- w.Run(ctx) }()

	url := "http://example.com/"
	require.NoError(t, b.Send(ctx, rankWorker, bus.Message{From: rankCoordinator, Tag: bus.TagTask, Body: bus.NewTask(url)}))

	errMsg := <-coordInbox
	require.Equal(t, bus.TagError, errMsg.Tag)
	payload := errMsg.Body.(bus.ErrorPayload)
	assert.Equal(t, url, payload.URL)

	require.NoError(t, b.Send(ctx, rankWorker, bus.Message{From: rankCoordinator, Tag: bus.TagTask, Body: bus.Sentinel()}))
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after sentinel")
	}
}

func TestWorkerStopsOnSentinel(t *testing.T) {
	f := &fakeFetcher{}
	w, b := newTestWorker(t, f)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, b.Send(ctx, rankWorker, bus.Message{From: rankCoordinator, Tag: bus.TagTask, Body: bus.Sentinel()}))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after sentinel")
	}
}
