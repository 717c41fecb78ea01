package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Crawl/index durations

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Status codes
- Durations
- Identifiers (worker id, task id)
*/

// MetadataSink receives observability events from every pipeline package.
// Implementations must not feed any of this back into control flow.
type MetadataSink interface {
	RecordError(at time.Time, packageName, action string, cause ErrorCause, message string, attrs ...Attribute)
	RecordFetch(event FetchEvent)
	RecordArtifact(kind string, path string, attrs ...Attribute)
}

// CrawlFinalizer records the one terminal summary of a completed run.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(stats CrawlStats)
}

// Recorder is a zerolog-backed MetadataSink/CrawlFinalizer. One Recorder is
// constructed per role (coordinator, each worker, indexer), each bound to
// its own log file per the external log-file contract.
type Recorder struct {
	logger zerolog.Logger
	role   string
}

func NewRecorder(logger zerolog.Logger, role string) *Recorder {
	return &Recorder{logger: logger.With().Str("role", role).Logger(), role: role}
}

var _ MetadataSink = (*Recorder)(nil)
var _ CrawlFinalizer = (*Recorder)(nil)

func (r *Recorder) RecordError(at time.Time, packageName, action string, cause ErrorCause, message string, attrs ...Attribute) {
	evt := r.logger.Error().
		Time("at", at).
		Str("package", packageName).
		Str("action", action).
		Str("cause", cause.String())
	for _, a := range attrs {
		evt = evt.Str(string(a.Key), a.Value)
	}
	evt.Msg(message)
}

func (r *Recorder) RecordFetch(event FetchEvent) {
	r.logger.Info().
		Str("url", event.URL).
		Int("status", event.StatusCode).
		Dur("duration", event.Duration).
		Str("content_type", event.ContentType).
		Msg("fetch complete")
}

func (r *Recorder) RecordArtifact(kind string, path string, attrs ...Attribute) {
	evt := r.logger.Info().Str("kind", kind).Str("path", path)
	for _, a := range attrs {
		evt = evt.Str(string(a.Key), a.Value)
	}
	evt.Msg("artifact written")
}

func (r *Recorder) RecordFinalCrawlStats(stats CrawlStats) {
	r.logger.Info().
		Int("total_crawled", stats.TotalCrawled).
		Int("total_indexed", stats.TotalIndexed).
		Int("total_failed", stats.TotalFailed).
		Int("total_errors", stats.TotalErrors).
		Dur("duration", stats.Duration).
		Msg("crawl finished")
}

// NewFileLogger opens (creating if necessary) the named log file and
// returns a console-formatted zerolog.Logger writing to it, matching the
// plain timestamped lines the reference dashboard tails.
func NewFileLogger(path string) (zerolog.Logger, func() error, error) {
	return newFileLogger(path)
}
