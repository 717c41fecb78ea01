package coordinator_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/bus"
	"github.com/distcrawl/distcrawl/internal/coordinator"
	"github.com/distcrawl/distcrawl/internal/metadata"
)

// fakeSink is a minimal metadata.MetadataSink that only records what the
// tests need to assert on; it never feeds anything back into control flow.
type fakeSink struct {
	mu     sync.Mutex
	errors []string
}

func (f *fakeSink) RecordError(_ time.Time, pkg, action string, cause metadata.ErrorCause, message string, _ ...metadata.Attribute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, pkg+"/"+action+"/"+cause.String()+": "+message)
}
func (f *fakeSink) RecordFetch(metadata.FetchEvent)                     {}
func (f *fakeSink) RecordArtifact(string, string, ...metadata.Attribute) {}
func (f *fakeSink) RecordFinalCrawlStats(metadata.CrawlStats)           {}

func newTestCoordinator(t *testing.T, seeds []string, workers []int, indexer int) (*coordinator.Coordinator, *bus.Bus) {
	t.Helper()
	ranks := append([]int{0, indexer}, workers...)
	b := bus.New(ranks, 16)
	cfg := coordinator.Config{
		Rank:           0,
		WorkerRanks:    workers,
		IndexerRank:    indexer,
		SeedURLs:       seeds,
		MaxURLs:        len(seeds) + 10,
		NewURLsPerPage: 5,
		TaskTimeout:    30 * time.Millisecond,
		HeartbeatTTL:   500 * time.Millisecond,
		MetricsPath:    filepath.Join(t.TempDir(), "monitoring_data.json"),
	}
	c, err := coordinator.New(cfg, b, &fakeSink{})
	require.NoError(t, err)
	return c, b
}

func TestNewRejectsTooFewWorkers(t *testing.T) {
	b := bus.New([]int{0, 1}, 4)
	_, err := coordinator.New(coordinator.Config{Rank: 0, WorkerRanks: nil, IndexerRank: 1}, b, &fakeSink{})
	require.Error(t, err)
}

func TestDispatchAssignsSeedsRoundRobin(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1", "http://a.test/2"}, []int{1, 2}, 3)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))
	inbox2, err := b.Inbox(2)
	require.NoError(t, asErr(err))

	var urls []string
	select {
	case m := <-inbox1:
		p, ok := m.Body.(bus.TaskPayload)
		require.True(t, ok)
		urls = append(urls, *p.URL)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker 1's task")
	}
	select {
	case m := <-inbox2:
		p, ok := m.Body.(bus.TaskPayload)
		require.True(t, ok)
		urls = append(urls, *p.URL)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker 2's task")
	}
	assert.ElementsMatch(t, []string{"http://a.test/1", "http://a.test/2"}, urls)

	// Report both as complete so the frontier goes idle and Run returns.
	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: "http://a.test/1"}})))
	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 2, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: "http://a.test/2"}})))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not terminate after completing all seeds")
	}
}

func TestTaskTimeoutReenqueues(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1"}, []int{1}, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))

	// First dispatch: worker 1 never acks, so the task timeout re-enqueues
	// it and it gets re-dispatched to the same (only) worker.
	var first, second string
	select {
	case m := <-inbox1:
		p := m.Body.(bus.TaskPayload)
		first = *p.URL
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first dispatch")
	}
	select {
	case m := <-inbox1:
		p := m.Body.(bus.TaskPayload)
		second = *p.URL
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for re-dispatch after task timeout")
	}
	assert.Equal(t, first, second)

	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: second}})))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not terminate")
	}
}

func TestSilentOwnerTaskRedispatchedToOtherWorker(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1"}, []int{1, 2}, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))
	inbox2, err := b.Inbox(2)
	require.NoError(t, asErr(err))

	var owner <-chan bus.Message
	var other <-chan bus.Message
	var ownerRank, otherRank int
	select {
	case <-inbox1:
		owner, other = inbox1, inbox2
		ownerRank, otherRank = 1, 2
	case <-inbox2:
		owner, other = inbox2, inbox1
		ownerRank, otherRank = 2, 1
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the single seed's dispatch")
	}
	_ = owner

	// Stay silent past the task timeout: the owner's assignment is cleared,
	// the URL re-queued, and round-robin hands it to the other worker.
	select {
	case m := <-other:
		p := m.Body.(bus.TaskPayload)
		require.NotNil(t, p.URL)
		require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: otherRank, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: *p.URL}})))
	case <-time.After(2 * time.Second):
		t.Fatalf("worker %d never received the re-queued task after worker %d's task timed out", otherRank, ownerRank)
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not terminate")
	}
}

func TestLinksFromWorkerAreEnqueuedAndDispatched(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1"}, []int{1}, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))

	m := <-inbox1
	first := *m.Body.(bus.TaskPayload).URL

	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagLinks, Body: bus.LinksPayload{URLs: []string{"http://a.test/2"}}})))
	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: first}})))

	select {
	case m := <-inbox1:
		p := m.Body.(bus.TaskPayload)
		assert.Equal(t, "http://a.test/2", *p.URL)
		require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: "http://a.test/2"}})))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the link extracted from the first page to be dispatched")
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("coordinator did not terminate")
	}
}

func TestWorkerErrorReenqueuesURL(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1"}, []int{1}, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))

	m := <-inbox1
	url := *m.Body.(bus.TaskPayload).URL

	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagError, Body: bus.ErrorPayload{URL: url, Text: "connection reset"}})))

	select {
	case m := <-inbox1:
		p := m.Body.(bus.TaskPayload)
		assert.Equal(t, url, *p.URL)
		require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: url}})))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the errored URL to be re-dispatched")
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("coordinator did not terminate")
	}
}

func TestIndexerErrorDoesNotReenqueue(t *testing.T) {
	c, b := newTestCoordinator(t, []string{"http://a.test/1"}, []int{1}, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	inbox1, err := b.Inbox(1)
	require.NoError(t, asErr(err))

	m := <-inbox1
	url := *m.Body.(bus.TaskPayload).URL

	// The indexer reports an ingest failure for the URL ahead of the
	// worker's completion notice; this must not cause a re-dispatch, so
	// the next thing worker 1 receives is the shutdown sentinel.
	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 2, Tag: bus.TagError, Body: bus.ErrorPayload{URL: url, Text: "ingest failed"}})))
	require.NoError(t, asErr(b.Send(ctx, 0, bus.Message{From: 1, Tag: bus.TagStatus, Body: bus.StatusPayload{URL: url}})))

	select {
	case m := <-inbox1:
		p, ok := m.Body.(bus.TaskPayload)
		require.True(t, ok)
		require.True(t, p.IsSentinel(), "indexer ingest failure must not re-dispatch an already-completed URL")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("coordinator did not terminate")
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("coordinator did not terminate")
	}
}

func asErr(err interface{ Error() string }) error {
	if err == nil {
		return nil
	}
	return err
}
