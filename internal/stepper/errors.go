package stepper

import "errors"

// Stepper errors.
var (
	// ErrUnhandledOutcome indicates an outcome variant no handler in the
	// chain recognized. This is a configuration error and is fatal.
	ErrUnhandledOutcome = errors.New("stepper: unhandled command outcome")

	// ErrModificationAborted indicates a modification refused to apply
	// after warning the user (e.g. a stale document). The iteration
	// continues and the modification is not recorded in history.
	ErrModificationAborted = errors.New("stepper: modification aborted")

	// ErrNothingToUndo indicates an empty history stack.
	ErrNothingToUndo = errors.New("stepper: nothing to undo")

	// ErrNothingToRedo indicates an empty future stack.
	ErrNothingToRedo = errors.New("stepper: nothing to redo")
)

// StopError is the distinguished control value that terminates the run
// loop. It is not a fault: hooks and handlers return it to request a clean
// stop, and Run converts it into the returned reason.
type StopError struct {
	// Reason is an opaque tag surfaced to Run's caller ("quit", "done",
	// or an application-defined string).
	Reason string
}

// Error implements the error interface.
func (e *StopError) Error() string {
	return "stepper: stop (" + e.Reason + ")"
}

// Stop returns a StopError with the given reason.
func Stop(reason string) error {
	return &StopError{Reason: reason}
}

// AsStop reports whether err carries a StopError and returns it.
func AsStop(err error) (*StopError, bool) {
	var stop *StopError
	if errors.As(err, &stop) {
		return stop, true
	}
	return nil, false
}
