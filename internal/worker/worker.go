// Package worker implements the fetch -> parse -> extract -> forward
// pipeline that executes one URL at a time to completion or error.
package worker

import (
	"context"
	"fmt"
	"math/rand"
	neturl "net/url"
	"sync/atomic"
	"time"

	"github.com/distcrawl/distcrawl/internal/bus"
	"github.com/distcrawl/distcrawl/internal/fetcher"
	"github.com/distcrawl/distcrawl/internal/linkextract"
	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/pkg/failure"
	"github.com/distcrawl/distcrawl/pkg/limiter"
)

/*
Responsibilities
- Execute one URL at a time to completion or error
- Emit links, documents, and status to the rest of the topology
- Keep the coordinator informed of liveness independent of task progress

Concurrency model: the main loop and the heartbeat emitter are two
concurrent logical tasks sharing only an atomic shutdown flag and
plain counters. The main loop reads and writes the counters
non-atomically; the heartbeat only reads them, so the race is benign.
*/

// Worker executes tasks received on its bus inbox.
type Worker struct {
	param   Param
	bus     *bus.Bus
	fetcher fetcher.Fetcher
	limiter limiter.RateLimiter
	sink    metadata.MetadataSink

	shutdown atomic.Bool

	completed int
	failed    int
}

func New(param Param, b *bus.Bus, f fetcher.Fetcher, sink metadata.MetadataSink) *Worker {
	var rl limiter.RateLimiter
	if param.Politeness > 0 {
		rl = limiter.NewConcurrentRateLimiter()
		rl.SetBaseDelay(param.Politeness)
	}
	return &Worker{param: param, bus: b, fetcher: f, limiter: rl, sink: sink}
}

// Run blocks, processing tasks until the shutdown sentinel arrives or
// ctx is cancelled. It starts the heartbeat emitter as an independent
// goroutine for the duration of the call.
func (w *Worker) Run(ctx context.Context) error {
	inbox, err := w.bus.Inbox(w.param.Rank)
	if err != nil {
		return err
	}

	heartbeatDone := make(chan struct{})
	go func() {
		defer close(heartbeatDone)
		w.heartbeatLoop(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			w.shutdown.Store(true)
			<-heartbeatDone
			return nil
		case msg, ok := <-inbox:
			if !ok {
				w.shutdown.Store(true)
				<-heartbeatDone
				return nil
			}
			if msg.Tag != bus.TagTask {
				continue
			}
			task, ok := msg.Body.(bus.TaskPayload)
			if !ok {
				continue
			}
			if task.IsSentinel() {
				w.shutdown.Store(true)
				<-heartbeatDone
				return nil
			}
			w.process(ctx, *task.URL)
		}
	}
}

// process runs the fetch/parse/extract/forward sequence for one URL.
// Any step-1-3 failure is converted into an ERROR message; the worker
// then returns to the receive state and remains active.
func (w *Worker) process(ctx context.Context, pageURL string) {
	host := hostOf(pageURL)
	if w.limiter != nil {
		if delay := w.limiter.ResolveDelay(host); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
	}

	param := fetcher.NewFetchParam(pageURL, w.param.UserAgent, w.param.FetchTimeout)
	result, fetchErr := w.fetcher.Fetch(ctx, param)
	if w.limiter != nil {
		w.limiter.MarkLastFetchAsNow(host)
	}
	if fetchErr != nil {
		w.failed++
		if w.limiter != nil {
			w.limiter.Backoff(host)
		}
		w.sendError(ctx, pageURL, fetchErr)
		return
	}
	if w.limiter != nil {
		w.limiter.ResetBackoff(host)
	}

	links, parseErr := linkextract.Extract(result.Body(), pageURL)
	if parseErr != nil {
		w.failed++
		w.sendError(ctx, pageURL, &ParseError{Message: parseErr.Error(), Cause: ErrCauseParseFailure})
		return
	}

	w.send(ctx, w.param.CoordinatorRank, bus.TagLinks, bus.LinksPayload{URLs: links})
	w.send(ctx, w.param.IndexerRank, bus.TagDoc, bus.DocPayload{URL: pageURL, Content: result.Body()})
	w.completed++
	w.send(ctx, w.param.CoordinatorRank, bus.TagStatus, bus.StatusPayload{
		Text: fmt.Sprintf("crawled %s (%d links)", pageURL, len(links)),
		URL:  pageURL,
	})
}

// hostOf extracts the host component used to key per-host politeness
// state; an unparseable URL falls back to the raw string so distinct
// malformed URLs do not collide on an empty host key.
func hostOf(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func (w *Worker) sendError(ctx context.Context, url string, err failure.ClassifiedError) {
	w.send(ctx, w.param.CoordinatorRank, bus.TagError, bus.ErrorPayload{Text: err.Error(), URL: url})
}

func (w *Worker) send(ctx context.Context, to int, tag bus.Tag, body interface{}) {
	if err := w.bus.Send(ctx, to, bus.Message{From: w.param.Rank, Tag: tag, Body: body}); err != nil {
		w.sink.RecordError(time.Now(), "worker", "send", metadata.CauseNetworkFailure, err.Error(),
			metadata.NewAttr(metadata.AttrTag, tag.String()))
	}
}

// heartbeatLoop emits a STATUS liveness message every 2-5s (jittered)
// until the shutdown flag is observed.
func (w *Worker) heartbeatLoop(ctx context.Context) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(w.param.Rank)))
	for {
		interval := heartbeatJitterMin + time.Duration(rng.Int63n(int64(heartbeatJitterMax-heartbeatJitterMin)))
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
		if w.shutdown.Load() {
			return
		}
		w.send(ctx, w.param.CoordinatorRank, bus.TagStatus, bus.StatusPayload{
			Text: fmt.Sprintf("alive, completed=%d failed=%d", w.completed, w.failed),
		})
	}
}
