package amb

import (
	"errors"
	"fmt"
)

// ErrNilSource is delivered to the observer when a lazily produced
// source sequence yields a nil [Source].
var ErrNilSource = errors.New("amb: nil source")

// UndeliverableError wraps an error that had no live observer to receive
// it, together with the index of the source that produced it. Errors
// from sources that lost a race arrive at the undeliverable-error
// handler wrapped in an UndeliverableError.
type UndeliverableError struct {
	// Source is the position of the emitting source in the race, or -1
	// when the error did not come from a race.
	Source int
	Err    error
}

func (e *UndeliverableError) Error() string {
	if e.Source < 0 {
		return fmt.Sprintf("amb: undeliverable error: %v", e.Err)
	}
	return fmt.Sprintf("amb: undeliverable error from source %d: %v", e.Source, e.Err)
}

func (e *UndeliverableError) Unwrap() error {
	return e.Err
}

// IsUndeliverable reports whether err (or any error in its chain) is an
// [*UndeliverableError].
func IsUndeliverable(err error) bool {
	if err == nil {
		return false
	}
	var ue *UndeliverableError
	return errors.As(err, &ue)
}

// SourceOf extracts the source index from the first [*UndeliverableError]
// in err's chain. Returns false if none is found or the error was not
// produced by a race.
func SourceOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var ue *UndeliverableError
	if errors.As(err, &ue) && ue.Source >= 0 {
		return ue.Source, true
	}
	return 0, false
}

// CauseOf unwraps the first [*UndeliverableError] in err's chain and
// returns the error it carries. Any other error is returned as-is.
// Returns nil if err is nil.
func CauseOf(err error) error {
	if err == nil {
		return nil
	}

	var ue *UndeliverableError
	if errors.As(err, &ue) {
		return ue.Err
	}

	return err
}
