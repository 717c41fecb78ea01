package worker

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type WorkerErrorCause string

const (
	ErrCauseParseFailure WorkerErrorCause = "failed to parse fetched body"
)

// ParseError wraps a link-extraction failure as a classified error so
// it converts into an ERROR message the same way a FetchError does.
type ParseError struct {
	Message string
	Cause   WorkerErrorCause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("worker error: %s: %s", e.Cause, e.Message)
}

func (e *ParseError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ParseError) IsRetryable() bool {
	return false
}

var _ failure.ClassifiedError = (*ParseError)(nil)
