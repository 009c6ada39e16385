package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChanges is returned by Diff when source and target already agree.
	// It is a clean outcome, not a failure.
	ErrNoChanges = errors.New("source and target are identical, no changes required")

	// ErrAborted is returned when the user declines a confirmation prompt.
	// It is a clean outcome, not a failure.
	ErrAborted = errors.New("operation cancelled by user")
)

// IsCleanExit reports whether err terminates a run without being a fault.
func IsCleanExit(err error) bool {
	return errors.Is(err, ErrNoChanges) || errors.Is(err, ErrAborted)
}

// DuplicateKeyError reports two records sharing one key inside a collection.
type DuplicateKeyError struct {
	Key Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s", e.Key)
}

// StoreWriteError reports a failed apply. The store has been rolled back to
// its pre-apply state when this is returned.
type StoreWriteError struct {
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to write changes to store: %v", e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// StageError attaches the failing stage of a run to its cause.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Stage wraps err with the stage name. Clean exits and nil pass through.
func Stage(stage string, err error) error {
	if err == nil || IsCleanExit(err) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}
