package index

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type IndexErrorCause string

const (
	ErrCauseFTSWrite     IndexErrorCause = "inverted index write failed"
	ErrCauseDocumentRead IndexErrorCause = "document read failed"
	ErrCauseDocumentPut  IndexErrorCause = "document write failed"
	ErrCauseQuery        IndexErrorCause = "query failed"
	ErrCauseOpen         IndexErrorCause = "index open failed"
)

// IndexError is raised by the document store / inverted index and is
// never auto-retried: it is reported to the coordinator and the URL
// is left unmarked-processed.
type IndexError struct {
	Message string
	Cause   IndexErrorCause
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index error: %s: %s", e.Cause, e.Message)
}

func (e *IndexError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *IndexError) IsRetryable() bool {
	return false
}

var _ failure.ClassifiedError = (*IndexError)(nil)
