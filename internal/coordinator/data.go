package coordinator

import "time"

// HealthStatus is a worker's liveness state.
type HealthStatus string

const (
	HealthActive HealthStatus = "active"
	HealthFailed HealthStatus = "failed"
)

// healthRecord tracks one worker's last inbound message time and status.
type healthRecord struct {
	lastHeartbeat time.Time
	status        HealthStatus
}

// assignment records that a worker currently owns url, dispatched at
// dispatchedAt.
type assignment struct {
	url         string
	dispatchedAt time.Time
}

// TaskLogEntry is one append-only entry in the metrics file's
// task_assignments list.
type TaskLogEntry struct {
	Time            time.Time `json:"time"`
	TaskID          string    `json:"task_id,omitempty"`
	URL             string    `json:"url"`
	Crawler         int       `json:"crawler"`
	Status          string    `json:"status"`
	URLsExtracted   int       `json:"urls_extracted,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
}

// maxTaskLogEntries bounds the in-memory/on-disk task log tail.
const maxTaskLogEntries = 500

// snapshot is the JSON shape written to Config.MetricsPath.
type snapshot struct {
	StartTime          time.Time                    `json:"start_time"`
	EndTime            *time.Time                   `json:"end_time,omitempty"`
	URLsCrawled        int                           `json:"urls_crawled"`
	URLsIndexed        int                           `json:"urls_indexed"`
	URLsFailed         int                           `json:"urls_failed"`
	ErrorCount         int                           `json:"error_count"`
	CrawlerStatus      map[string]string             `json:"crawler_status"`
	CrawlerPerformance map[string]workerPerformance  `json:"crawler_performance"`
	TaskAssignments    []TaskLogEntry                `json:"task_assignments"`
}

type workerPerformance struct {
	Assigned int `json:"assigned"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
