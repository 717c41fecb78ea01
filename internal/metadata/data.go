// Package metadata carries observability-only data: error classification
// for logging/metrics, fetch events, and crawl summaries.
//
// None of the types here participate in control flow. Every package that
// raises a failure.ClassifiedError may additionally map it to an
// ErrorCause for the log line it contributes, but the retry/re-enqueue/
// abort decision is always made from failure.ClassifiedError.Severity(),
// never from ErrorCause.
package metadata

import "time"

/*
ErrorCause is a closed, canonical classification used exclusively for
observability (logging, metrics, reporting).

Rules:
  - ErrorCause is for observability only.
  - It must never be used to derive retry, continuation, or abort decisions.
  - Any use of metadata.ErrorCause outside logging, metrics, or reporting is a design violation.
  - ErrorCause values MUST have stable, package-agnostic semantics.
  - Pipeline packages MAY map their local errors to ErrorCause, but MUST
    NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be
used.
*/
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// AttributeKey names a structured field attached to a log record.
type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrWorker     AttributeKey = "worker"
	AttrTaskID     AttributeKey = "task_id"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrKind       AttributeKey = "kind"
	AttrTag        AttributeKey = "tag"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{Key: key, Value: val}
}

// FetchEvent describes one completed fetch attempt, successful or not.
type FetchEvent struct {
	URL         string
	StatusCode  int
	Duration    time.Duration
	ContentType string
}

/*
CrawlStats is a terminal, derived summary of a completed run.

Computed exactly once after termination. Must not influence dispatch,
retries, or termination itself.
*/
type CrawlStats struct {
	TotalCrawled int
	TotalIndexed int
	TotalFailed  int
	TotalErrors  int
	Duration     time.Duration
}
