package coordinator

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/pkg/fileutil"
)

/*
Metrics keeps the crawl counters as real prometheus.Counter/CounterVec
instruments (race-free, introspectable), and renders them into a plain
JSON snapshot by reading each instrument back through its protobuf
Write method. No /metrics HTTP endpoint is exposed here.
*/
type Metrics struct {
	mu sync.Mutex

	registry *prometheus.Registry

	crawled prometheus.Counter
	indexed prometheus.Counter
	failed  prometheus.Counter
	errors  prometheus.Counter

	assignedByWorker  *prometheus.CounterVec
	completedByWorker *prometheus.CounterVec
	failedByWorker    *prometheus.CounterVec

	startTime time.Time
	endTime   *time.Time
	status    map[string]HealthStatus
	taskLog   []TaskLogEntry

	path string
}

func NewMetrics(path string) *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		crawled:  promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "distcrawl_urls_crawled_total"}),
		indexed:  promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "distcrawl_urls_indexed_total"}),
		failed:   promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "distcrawl_urls_failed_total"}),
		errors:   promauto.With(reg).NewCounter(prometheus.CounterOpts{Name: "distcrawl_error_total"}),
		assignedByWorker: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "distcrawl_worker_assigned_total"}, []string{"worker"}),
		completedByWorker: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "distcrawl_worker_completed_total"}, []string{"worker"}),
		failedByWorker: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "distcrawl_worker_failed_total"}, []string{"worker"}),
		startTime: time.Now(),
		status:    make(map[string]HealthStatus),
		path:      path,
	}
}

func readCounter(c prometheus.Counter) int {
	var m dto.Metric
	_ = c.Write(&m)
	return int(m.GetCounter().GetValue())
}

func readLabeled(v *prometheus.CounterVec, label string) int {
	return readCounter(v.WithLabelValues(label))
}

func (m *Metrics) RecordAssignment(worker int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignedByWorker.WithLabelValues(workerLabel(worker)).Inc()
}

func (m *Metrics) RecordCompletion(worker int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.crawled.Inc()
	m.completedByWorker.WithLabelValues(workerLabel(worker)).Inc()
}

func (m *Metrics) RecordIndexed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed.Inc()
}

func (m *Metrics) RecordTaskFailure(worker int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed.Inc()
	m.failedByWorker.WithLabelValues(workerLabel(worker)).Inc()
}

func (m *Metrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors.Inc()
}

func (m *Metrics) SetStatus(worker int, status HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[workerLabel(worker)] = status
}

func (m *Metrics) AppendTaskLog(entry TaskLogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskLog = append(m.taskLog, entry)
	if len(m.taskLog) > maxTaskLogEntries {
		m.taskLog = m.taskLog[len(m.taskLog)-maxTaskLogEntries:]
	}
}

func (m *Metrics) MarkEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.endTime = &now
}

// Stats renders the terminal crawl summary handed to the metadata
// sink's CrawlFinalizer once, at the end of a run.
func (m *Metrics) Stats() metadata.CrawlStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	duration := time.Since(m.startTime)
	if m.endTime != nil {
		duration = m.endTime.Sub(m.startTime)
	}
	return metadata.CrawlStats{
		TotalCrawled: readCounter(m.crawled),
		TotalIndexed: readCounter(m.indexed),
		TotalFailed:  readCounter(m.failed),
		TotalErrors:  readCounter(m.errors),
		Duration:     duration,
	}
}

func workerLabel(worker int) string {
	return strconv.Itoa(worker)
}

// Snapshot renders the current metrics into the on-disk JSON shape and
// atomically writes it to m.path (write-then-rename). Called after every
// coordinator state transition.
func (m *Metrics) Snapshot() error {
	m.mu.Lock()
	perf := make(map[string]workerPerformance, len(m.status))
	status := make(map[string]string, len(m.status))
	for worker, st := range m.status {
		perf[worker] = workerPerformance{
			Assigned:  readLabeled(m.assignedByWorker, worker),
			Completed: readLabeled(m.completedByWorker, worker),
			Failed:    readLabeled(m.failedByWorker, worker),
		}
		status[worker] = string(st)
	}
	snap := snapshot{
		StartTime:          m.startTime,
		EndTime:            m.endTime,
		URLsCrawled:        readCounter(m.crawled),
		URLsIndexed:        readCounter(m.indexed),
		URLsFailed:         readCounter(m.failed),
		ErrorCount:         readCounter(m.errors),
		CrawlerStatus:      status,
		CrawlerPerformance: perf,
		TaskAssignments:    append([]TaskLogEntry(nil), m.taskLog...),
	}
	path := m.path
	m.mu.Unlock()

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if classified := fileutil.AtomicWriteFile(path, body, 0644); classified != nil {
		return classified
	}
	return nil
}
