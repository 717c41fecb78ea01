package worker

import "time"

// heartbeatJitterMin/Max bound the 2-5s jittered interval between
// liveness STATUS emissions.
const (
	heartbeatJitterMin = 2 * time.Second
	heartbeatJitterMax = 5 * time.Second
)

// Param configures one Worker instance.
type Param struct {
	Rank            int
	CoordinatorRank int
	IndexerRank     int
	UserAgent       string
	FetchTimeout    time.Duration
	Politeness      time.Duration
}
