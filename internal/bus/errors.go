package bus

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type BusErrorCause string

const (
	ErrCauseUnknownRank  BusErrorCause = "unknown rank"
	ErrCauseInboxClosed  BusErrorCause = "inbox closed"
	ErrCauseSendTimedOut BusErrorCause = "send timed out"
)

// BusError reports a delivery failure for a single Send. Every
// sentinel/broadcast send is isolated: one peer's BusError must never
// block or fail delivery to another peer.
type BusError struct {
	Message   string
	Retryable bool
	Cause     BusErrorCause
	Rank      int
}

func (e *BusError) Error() string {
	return fmt.Sprintf("bus error: %s (rank %d): %s", e.Cause, e.Rank, e.Message)
}

func (e *BusError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *BusError) IsRetryable() bool {
	return e.Retryable
}

var _ failure.ClassifiedError = (*BusError)(nil)
