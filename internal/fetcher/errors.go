package fetcher

import (
	"fmt"

	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout        FetchErrorCause = "timeout"
	ErrCauseNetworkFailure FetchErrorCause = "network issues"
	ErrCauseReadBody       FetchErrorCause = "failed to read response body"
	ErrCauseBadStatus      FetchErrorCause = "non-2xx status"
)

// FetchError is raised by the fetch/parse steps of the worker's main loop
// and is always converted into a TagError message to the coordinator.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

var _ failure.ClassifiedError = (*FetchError)(nil)

// mapFetchErrorToMetadataCause is observational only; see pkg/failure and
// internal/metadata package docs for the control-flow-vs-observability split.
func mapFetchErrorToMetadataCause(cause FetchErrorCause) metadata.ErrorCause {
	switch cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseReadBody:
		return metadata.CauseNetworkFailure
	case ErrCauseBadStatus:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
