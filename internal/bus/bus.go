package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

/*
Responsibilities
- Own one inbox channel per rank
- Deliver Messages by destination rank
- Isolate one peer's send failure from every other peer's delivery

Ordering guarantee: per sender, messages emitted in sequence arrive at
their destination in emission order, because each Send blocks only on
its own destination's inbox.
*/

// Bus is a rank-addressed, in-process point-to-point message bus.
type Bus struct {
	mu      sync.RWMutex
	inboxes map[int]chan Message
	closed  map[int]bool
}

// New creates a Bus with one buffered inbox (capacity bufSize) per rank.
func New(ranks []int, bufSize int) *Bus {
	b := &Bus{
		inboxes: make(map[int]chan Message, len(ranks)),
		closed:  make(map[int]bool, len(ranks)),
	}
	for _, r := range ranks {
		b.inboxes[r] = make(chan Message, bufSize)
	}
	return b
}

// Inbox returns the receive-only channel for rank. A role's event loop
// blocks on a receive from this channel while it has no other work.
func (b *Bus) Inbox(rank int) (<-chan Message, failure.ClassifiedError) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ch, ok := b.inboxes[rank]
	if !ok {
		return nil, &BusError{Message: fmt.Sprintf("no inbox for rank %d", rank), Cause: ErrCauseUnknownRank, Rank: rank}
	}
	return ch, nil
}

// Send delivers msg to rank `to`, blocking until the destination's inbox
// accepts it or ctx is cancelled. A cancelled ctx yields a retryable
// BusError rather than blocking forever, so a broadcast loop can isolate
// one stalled peer from the rest.
func (b *Bus) Send(ctx context.Context, to int, msg Message) failure.ClassifiedError {
	b.mu.RLock()
	ch, ok := b.inboxes[to]
	closed := b.closed[to]
	b.mu.RUnlock()
	if !ok {
		return &BusError{Message: fmt.Sprintf("no inbox for rank %d", to), Cause: ErrCauseUnknownRank, Rank: to}
	}
	if closed {
		return &BusError{Message: "inbox closed", Cause: ErrCauseInboxClosed, Rank: to, Retryable: false}
	}

	msg.To = to
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return &BusError{Message: ctx.Err().Error(), Cause: ErrCauseSendTimedOut, Rank: to, Retryable: true}
	}
}

// BroadcastSentinel sends the shutdown sentinel to every rank in `to`,
// isolating each send's failure so one unreachable peer does not block
// delivery to the rest. Returns a map of rank -> error for ranks that failed.
func (b *Bus) BroadcastSentinel(ctx context.Context, from int, to []int) map[int]failure.ClassifiedError {
	failures := make(map[int]failure.ClassifiedError)
	for _, rank := range to {
		err := b.Send(ctx, rank, Message{From: from, Tag: TagTask, Body: Sentinel()})
		if err != nil {
			failures[rank] = err
		}
	}
	return failures
}

// CloseInbox marks rank's inbox closed for new sends and closes the
// channel so a ranging receiver observes end-of-stream. Safe to call once
// per rank; callers must ensure no further Send targets this rank.
func (b *Bus) CloseInbox(rank int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed[rank] {
		return
	}
	b.closed[rank] = true
	if ch, ok := b.inboxes[rank]; ok {
		close(ch)
	}
}
