package quiz

import (
	"errors"
	"fmt"
)

// Outcome kinds shared by every package. Match with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrEmptyResult     = errors.New("no questions")
	ErrNotFound        = errors.New("not found")
	ErrStoreCorruption = errors.New("store corruption")
)

// ValidationError reports missing or invalid input. State is unchanged when
// an operation returns it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a reference to a bank or question that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CorruptionError reports a persisted collection that failed to decode.
type CorruptionError struct {
	Key string
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("collection %q is corrupt and was treated as empty: %v", e.Key, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

func (e *CorruptionError) Is(target error) bool { return target == ErrStoreCorruption }
