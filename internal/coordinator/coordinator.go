// Package coordinator implements the master role: the URL frontier,
// per-worker assignment tracking, heartbeat-based failure detection,
// task timeout/re-queue, round-robin dispatch, the termination
// protocol, and metrics export.
package coordinator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/distcrawl/distcrawl/internal/bus"
	"github.com/distcrawl/distcrawl/internal/frontier"
	"github.com/distcrawl/distcrawl/internal/metadata"
)

// idlePoll bounds the coordinator's idle sleep between timeout/dispatch
// scans when no message has arrived.
const idlePoll = 50 * time.Millisecond

// recorder is what the coordinator needs from its metadata sink: ordinary
// error logging plus the one terminal crawl-stats summary emitted on
// termination.
type recorder interface {
	metadata.MetadataSink
	metadata.CrawlFinalizer
}

type Coordinator struct {
	rank        int
	workerRanks []int
	indexerRank int

	maxURLs        int
	newURLsPerPage int
	taskTimeout    time.Duration
	heartbeatTTL   time.Duration

	bus      *bus.Bus
	frontier *frontier.Frontier
	recorder recorder
	metrics  *Metrics

	assignments map[int]assignment // worker rank -> assignment
	health      map[int]*healthRecord
	nextWorker  int // round-robin cursor into workerRanks
}

// Config bundles the coordinator's tunables.
type Config struct {
	Rank           int
	WorkerRanks    []int
	IndexerRank    int
	SeedURLs       []string
	MaxURLs        int
	NewURLsPerPage int
	TaskTimeout    time.Duration
	HeartbeatTTL   time.Duration
	MetricsPath    string
}

// New constructs a Coordinator. The process topology requires at least
// 3 peers total: one or more workers, exactly one indexer, one coordinator.
func New(cfg Config, b *bus.Bus, rec recorder) (*Coordinator, error) {
	if len(cfg.WorkerRanks) < 1 {
		return nil, errTooFewPeers(2 + len(cfg.WorkerRanks))
	}
	ranks := append([]int(nil), cfg.WorkerRanks...)
	sort.Ints(ranks) // deterministic tie-break on worker id during dispatch

	f := frontier.New()
	f.Seed(cfg.SeedURLs)

	health := make(map[int]*healthRecord, len(ranks))
	now := time.Now()
	for _, r := range ranks {
		health[r] = &healthRecord{lastHeartbeat: now, status: HealthActive}
	}

	c := &Coordinator{
		rank:           cfg.Rank,
		workerRanks:    ranks,
		indexerRank:    cfg.IndexerRank,
		maxURLs:        cfg.MaxURLs,
		newURLsPerPage: cfg.NewURLsPerPage,
		taskTimeout:    cfg.TaskTimeout,
		heartbeatTTL:   cfg.HeartbeatTTL,
		bus:            b,
		frontier:       f,
		recorder:       rec,
		metrics:        NewMetrics(cfg.MetricsPath),
		assignments:    make(map[int]assignment),
		health:         health,
	}
	for _, r := range ranks {
		c.metrics.SetStatus(r, HealthActive)
	}
	return c, nil
}

// Run drives the single-threaded event-loop reactor until the
// termination condition is met or ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) error {
	inbox, err := c.bus.Inbox(c.rank)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(idlePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-inbox:
			c.handleMessage(msg)
		case <-ticker.C:
		}

		c.checkTaskTimeouts()
		c.checkHeartbeats()
		c.dispatch(ctx)
		_ = c.metrics.Snapshot()

		if c.shouldTerminate() {
			c.terminate(ctx)
			return nil
		}
	}
}

func (c *Coordinator) handleMessage(msg bus.Message) {
	c.touchHealth(msg.From)

	switch msg.Tag {
	case bus.TagLinks:
		payload, ok := msg.Body.(bus.LinksPayload)
		if !ok {
			return
		}
		c.handleLinks(payload)
	case bus.TagStatus:
		payload, ok := msg.Body.(bus.StatusPayload)
		if !ok {
			return
		}
		c.handleStatus(msg.From, payload)
	case bus.TagError:
		payload, ok := msg.Body.(bus.ErrorPayload)
		if !ok {
			return
		}
		c.handleError(msg.From, payload)
	default:
		c.recorder.RecordError(time.Now(), "coordinator", "handleMessage",
			metadata.CauseInvariantViolation, fmt.Sprintf("unexpected tag %s from rank %d", msg.Tag, msg.From))
	}
}

func (c *Coordinator) handleLinks(payload bus.LinksPayload) {
	links := payload.URLs
	if c.newURLsPerPage > 0 && len(links) > c.newURLsPerPage {
		links = links[:c.newURLsPerPage]
	}
	for _, u := range links {
		c.frontier.Enqueue(u)
	}
}

// handleStatus covers a worker's completion notice, the indexer's
// success ack, and a pure liveness ping. A StatusPayload with an empty
// URL is a pure heartbeat (no state change beyond the liveness touch
// already applied in handleMessage).
func (c *Coordinator) handleStatus(from int, payload bus.StatusPayload) {
	if payload.URL == "" {
		return
	}
	if from == c.indexerRank {
		c.metrics.RecordIndexed()
		return
	}
	c.completeAssignment(from, payload.URL)
}

// handleError covers both sides: a worker's fetch/parse error re-enqueues
// the URL and counts as a task failure, while an indexer ingest failure
// only increments the observability error counter, since the URL already
// crawled successfully and re-dispatching it would not help.
func (c *Coordinator) handleError(from int, payload bus.ErrorPayload) {
	c.metrics.RecordError()
	if from == c.indexerRank {
		return
	}
	if payload.URL != "" {
		c.frontier.Requeue(payload.URL)
	}
	delete(c.assignments, from)
	c.metrics.RecordTaskFailure(from)
	c.metrics.AppendTaskLog(TaskLogEntry{
		Time: time.Now(), URL: payload.URL, Crawler: from,
		Status: "error", ErrorMessage: payload.Text,
	})
}

func (c *Coordinator) completeAssignment(worker int, url string) {
	a, ok := c.assignments[worker]
	if !ok || a.url != url {
		// Stale or already-cleared completion notice; the frontier's own
		// completed set protects against double counting.
		return
	}
	delete(c.assignments, worker)
	if c.frontier.Complete(url) {
		c.metrics.RecordCompletion(worker)
		c.metrics.AppendTaskLog(TaskLogEntry{
			Time: time.Now(), URL: url, Crawler: worker, Status: "completed",
		})
	}
}

func (c *Coordinator) touchHealth(rank int) {
	h, ok := c.health[rank]
	if !ok {
		return
	}
	h.lastHeartbeat = time.Now()
	if h.status == HealthFailed {
		h.status = HealthActive
		c.metrics.SetStatus(rank, HealthActive)
	}
}

// checkTaskTimeouts re-enqueues any URL whose dispatch has run past the
// task timeout, clears its assignment, and counts it as a failure; the
// worker itself is not demoted.
func (c *Coordinator) checkTaskTimeouts() {
	now := time.Now()
	for worker, a := range c.assignments {
		if now.Sub(a.dispatchedAt) <= c.taskTimeout {
			continue
		}
		c.frontier.Requeue(a.url)
		delete(c.assignments, worker)
		c.metrics.RecordTaskFailure(worker)
		c.metrics.AppendTaskLog(TaskLogEntry{
			Time: now, URL: a.url, Crawler: worker, Status: "timeout",
		})
	}
}

// checkHeartbeats marks a worker failed once it has sent no inbound
// message within the heartbeat timeout, re-enqueuing its in-flight URL
// (if any).
func (c *Coordinator) checkHeartbeats() {
	now := time.Now()
	for _, worker := range c.workerRanks {
		h := c.health[worker]
		if h.status == HealthFailed {
			continue
		}
		if now.Sub(h.lastHeartbeat) <= c.heartbeatTTL {
			continue
		}
		h.status = HealthFailed
		c.metrics.SetStatus(worker, HealthFailed)
		if a, ok := c.assignments[worker]; ok {
			c.frontier.Requeue(a.url)
			delete(c.assignments, worker)
		}
	}
}

// dispatch assigns the next frontier URL round-robin to workers whose
// health is active and whose assignment slot is free, deterministically
// tie-broken on worker id.
func (c *Coordinator) dispatch(ctx context.Context) {
	if c.frontier.CompletedLen() >= c.maxURLs {
		return
	}
	n := len(c.workerRanks)
	for i := 0; i < n; i++ {
		idx := (c.nextWorker + i) % n
		worker := c.workerRanks[idx]
		if c.health[worker].status != HealthActive {
			continue
		}
		if _, busy := c.assignments[worker]; busy {
			continue
		}
		url, ok := c.frontier.Dispatch()
		if !ok {
			c.nextWorker = idx
			return
		}
		now := time.Now()
		c.assignments[worker] = assignment{url: url, dispatchedAt: now}
		c.metrics.RecordAssignment(worker)
		c.metrics.AppendTaskLog(TaskLogEntry{
			Time: now, TaskID: uuid.NewString(), URL: url, Crawler: worker, Status: "assigned",
		})
		_ = c.bus.Send(ctx, worker, bus.Message{From: c.rank, Tag: bus.TagTask, Body: bus.NewTask(url)})
		c.nextWorker = (idx + 1) % n
	}
}

// shouldTerminate reports whether the crawl is done: completed count
// reached max_urls, or the frontier is empty and no assignments remain.
func (c *Coordinator) shouldTerminate() bool {
	if c.frontier.CompletedLen() >= c.maxURLs {
		return true
	}
	return c.frontier.Idle() && len(c.assignments) == 0
}

// terminate broadcasts the shutdown sentinel to every worker and the
// indexer, isolating each send's failure so one unreachable peer never
// blocks delivery to the rest.
func (c *Coordinator) terminate(ctx context.Context) {
	c.metrics.MarkEnded()
	targets := append(append([]int(nil), c.workerRanks...), c.indexerRank)
	failures := c.bus.BroadcastSentinel(ctx, c.rank, targets)
	for rank, err := range failures {
		c.recorder.RecordError(time.Now(), "coordinator", "terminate",
			metadata.CauseNetworkFailure, err.Error(), metadata.NewAttr(metadata.AttrWorker, workerLabel(rank)))
	}
	c.recorder.RecordFinalCrawlStats(c.metrics.Stats())
	_ = c.metrics.Snapshot()
}
