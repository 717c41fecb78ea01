package indexer

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type IndexerErrorCause string

const (
	ErrCauseTextExtract IndexerErrorCause = "text extraction failed"
	ErrCauseIndexWrite  IndexerErrorCause = "index write failed"
)

// IngestError reports a failure in the DOC ingestion pipeline. Artifact
// write failures never surface here; only text extraction and index
// write failures abort one document's ingest.
type IngestError struct {
	Message string
	Cause   IndexerErrorCause
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("indexer error: %s: %s", e.Cause, e.Message)
}

func (e *IngestError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *IngestError) IsRetryable() bool {
	return false
}

var _ failure.ClassifiedError = (*IngestError)(nil)
