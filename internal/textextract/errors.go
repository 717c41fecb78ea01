package textextract

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type TextExtractErrorCause string

const (
	ErrCauseUnparseableHTML TextExtractErrorCause = "unparseable html"
)

// TextExtractError is raised by the indexer's ingestion pipeline and
// surfaces as an ERROR message to the coordinator; the URL is not marked
// processed.
type TextExtractError struct {
	Message string
	Cause   TextExtractErrorCause
}

func (e *TextExtractError) Error() string {
	return fmt.Sprintf("textextract error: %s: %s", e.Cause, e.Message)
}

func (e *TextExtractError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *TextExtractError) IsRetryable() bool {
	return false
}

var _ failure.ClassifiedError = (*TextExtractError)(nil)
