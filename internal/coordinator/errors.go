package coordinator

import (
	"fmt"

	"github.com/distcrawl/distcrawl/pkg/failure"
)

// CoordinatorError covers the coordinator's own fatal preconditions, most
// notably the minimum process-topology requirement: fewer than 3 peers
// is an unrecoverable misconfiguration and the coordinator aborts.
type CoordinatorError struct {
	Message string
}

func (e *CoordinatorError) Error() string {
	return fmt.Sprintf("coordinator error: %s", e.Message)
}

func (e *CoordinatorError) Severity() failure.Severity {
	return failure.SeverityFatal
}

var _ failure.ClassifiedError = (*CoordinatorError)(nil)

func errTooFewPeers(n int) *CoordinatorError {
	return &CoordinatorError{Message: fmt.Sprintf("process topology requires N >= 3 peers, got %d", n)}
}
