package artifact

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

type ArtifactErrorCause string

const (
	ErrCauseObjectPut   ArtifactErrorCause = "object store put failed"
	ErrCauseObjectGet   ArtifactErrorCause = "object store get failed"
	ErrCauseLocalPut    ArtifactErrorCause = "local fallback put failed"
	ErrCauseLocalGet    ArtifactErrorCause = "local fallback get failed"
	ErrCauseBucketProbe ArtifactErrorCause = "bucket bootstrap failed"
)

// ArtifactError reports a storage failure. It degrades transparently to
// the local fallback and is never fatal to the ingest pipeline; it is
// only returned once every backend has been exhausted.
type ArtifactError struct {
	Message string
	Cause   ArtifactErrorCause
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact error: %s: %s", e.Cause, e.Message)
}

func (e *ArtifactError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *ArtifactError) IsRetryable() bool {
	return false
}

var _ failure.ClassifiedError = (*ArtifactError)(nil)
