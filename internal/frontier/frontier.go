/*
Package frontier implements the coordinator's URL frontier:

  - a FIFO-ordered queue of not-yet-dispatched URLs
  - a set of enqueued URLs for O(1) dedup
  - a set of in-flight (dispatched, not yet completed) URLs
  - a set of completed URLs

Invariants enforced here:
  - enqueued and in-flight are always disjoint
  - every URL the frontier has ever accepted is, at every point in time,
    exactly one of {enqueued, in-flight, completed}
  - clearing an in-flight URL without recording completion (Requeue)
    moves it back to enqueued rather than dropping it

The coordinator's event loop is single-threaded, so Frontier performs
no internal locking.
*/
package frontier

type Frontier struct {
	queue     *FIFOQueue[string]
	enqueued  Set[string]
	inFlight  Set[string]
	completed Set[string]
}

func New() *Frontier {
	return &Frontier{
		queue:     NewFIFOQueue[string](),
		enqueued:  NewSet[string](),
		inFlight:  NewSet[string](),
		completed: NewSet[string](),
	}
}

// Seed enqueues the initial frontier contents.
func (f *Frontier) Seed(urls []string) {
	for _, u := range urls {
		f.Enqueue(u)
	}
}

// Enqueue admits url to the tail of the queue unless it is already known
// (enqueued, in-flight, or completed). Returns false on a duplicate.
func (f *Frontier) Enqueue(url string) bool {
	if f.enqueued.Contains(url) || f.inFlight.Contains(url) || f.completed.Contains(url) {
		return false
	}
	f.queue.Enqueue(url)
	f.enqueued.Add(url)
	return true
}

// Dispatch pops the head of the queue and marks it in-flight. The caller
// (coordinator) is responsible for recording an Assignment alongside this
// call.
func (f *Frontier) Dispatch() (string, bool) {
	url, ok := f.queue.Dequeue()
	if !ok {
		return "", false
	}
	f.enqueued.Remove(url)
	f.inFlight.Add(url)
	return url, true
}

// Requeue clears url's in-flight status and re-enqueues it at the queue
// tail. A no-op if url is not currently in-flight.
func (f *Frontier) Requeue(url string) {
	if !f.inFlight.Contains(url) {
		return
	}
	f.inFlight.Remove(url)
	f.queue.Enqueue(url)
	f.enqueued.Add(url)
}

// Complete clears url's in-flight status and records it as completed.
// A no-op if url is not currently in-flight.
func (f *Frontier) Complete(url string) bool {
	if !f.inFlight.Contains(url) {
		return false
	}
	f.inFlight.Remove(url)
	f.completed.Add(url)
	return true
}

func (f *Frontier) IsCompleted(url string) bool { return f.completed.Contains(url) }
func (f *Frontier) IsInFlight(url string) bool  { return f.inFlight.Contains(url) }
func (f *Frontier) IsEnqueued(url string) bool  { return f.enqueued.Contains(url) }

func (f *Frontier) QueueLen() int     { return f.queue.Len() }
func (f *Frontier) InFlightLen() int  { return f.inFlight.Len() }
func (f *Frontier) CompletedLen() int { return f.completed.Len() }

// Idle reports whether the frontier has no work left to dispatch or
// drain: the queue is empty and nothing is in flight.
func (f *Frontier) Idle() bool {
	return f.queue.Len() == 0 && f.inFlight.Len() == 0
}
