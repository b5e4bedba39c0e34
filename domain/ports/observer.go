package ports

import "time"

// ExecutionObserver is notified of load and execution outcomes.
// Outcomes are the ErrorDetail type of the failure, or "success".
type ExecutionObserver interface {
	ObserveLoad(outcome string)
	ObserveExecution(outcome string, elapsed time.Duration)
}
