package adaptive

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSkill means the skill does not exist or is inactive. Client
	// error, no retry.
	ErrInvalidSkill = errors.New("skill not found or inactive")

	// ErrMalformedAnswer means the selected answer is not a member of the
	// question's option set. Rejected before any score mutation.
	ErrMalformedAnswer = errors.New("selected answer is not one of the question's options")
)

// PersistenceError wraps a transient progress-store failure. Callers may
// retry the same submission only when the failed write was never durably
// applied; the engine itself never retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("progress store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
