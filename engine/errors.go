package engine

import "fmt"

// ValidationError reports a bad, missing, or contradictory request field.
// Never retried; returned straight to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure talking to the analytical store after retries
// are exhausted. The whole request fails: a partially-aggregated win rate
// would be misleading.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ExecutionLimitError reports that the row cap or the per-request timeout
// was hit. The caller should narrow the filters and try again.
type ExecutionLimitError struct {
	Kind  string // "rows" or "timeout"
	Limit int
}

func (e *ExecutionLimitError) Error() string {
	if e.Kind == "timeout" {
		return "query exceeded the execution time limit; narrow the filters"
	}
	return fmt.Sprintf("query matched more than %d rows; narrow the filters", e.Limit)
}
