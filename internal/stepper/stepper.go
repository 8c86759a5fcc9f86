package stepper

import (
	"errors"
	"fmt"
)

// Cursor is an immutable position value inside a State. Implementations
// must be pure values: no method may observe or mutate external state.
type Cursor interface {
	// Equal reports field-for-field equality with another cursor.
	Equal(other Cursor) bool
}

// State is the session payload threaded through the loop. It owns the
// current Cursor plus whatever the application needs.
type State interface {
	// Cursor returns the current position.
	Cursor() Cursor

	// SetCursor replaces the current position. Cursors are never mutated
	// in place, only replaced.
	SetCursor(c Cursor)

	// Clone returns an independent copy for sub-sessions and snapshots.
	// Implementations document their deep-vs-shallow boundary.
	Clone() State
}

// Modification is a reversible unit of change over a State.
type Modification interface {
	// Apply performs the change. Returning ErrModificationAborted (or a
	// wrapped form of it) skips recording without stopping the loop.
	Apply(st State) error

	// Unapply reverses a previously applied change.
	Unapply(st State) error

	// Description returns a human-readable summary.
	Description() string
}

// Outcome is a tagged result of executing a Command. Outcomes carry no
// behavior; they are inputs to the outcome handler chain.
type Outcome interface {
	// Outcome returns the variant name, used in errors and logs.
	Outcome() string
}

// OutcomeHandler converts one outcome variant into a Modification.
//
// A handler returns (mod, true, nil) when it recognizes the outcome (mod
// may be nil for outcomes with no effect), (nil, false, nil) to delegate to
// the next handler in the chain, or an error to terminate the run. A
// StopError returned here unwinds to Run unchanged; handlers must never
// swallow an in-flight stop.
type OutcomeHandler interface {
	HandleOutcome(o Outcome, st State) (Modification, bool, error)
}

// OutcomeHandlerFunc adapts a function to the OutcomeHandler interface.
type OutcomeHandlerFunc func(o Outcome, st State) (Modification, bool, error)

// HandleOutcome implements OutcomeHandler.
func (f OutcomeHandlerFunc) HandleOutcome(o Outcome, st State) (Modification, bool, error) {
	return f(o, st)
}

// Program supplies the application-specific hooks of one iteration.
type Program interface {
	// EnsureUpToDate refreshes the state before rendering. It may return
	// a StopError to terminate the run (e.g. nothing left to process).
	EnsureUpToDate(st State) error

	// ShowState renders the current state. It must not mutate the state.
	ShowState(st State)

	// Commands builds the command collection legal for the current
	// state. Commands are rebuilt fresh every iteration.
	Commands(st State) (*CommandCollection, error)
}

// ModificationObserver is an optional Program extension notified after
// every applied or unapplied modification (e.g. to invalidate caches).
type ModificationObserver interface {
	AfterModification(mod Modification, undone bool)
}

// Stepper drives the command/outcome/modification lifecycle with grouped
// undo/redo history. It is not safe for concurrent use; the execution model
// is a single cooperative actor.
type Stepper struct {
	state    State
	program  Program
	handlers []OutcomeHandler
	history  *History
}

// New creates a stepper over the given state and program with an initially
// empty handler chain.
func New(state State, program Program) *Stepper {
	return &Stepper{
		state:   state,
		program: program,
		history: NewHistory(0),
	}
}

// Use appends a handler to the outcome handler chain. Handlers are
// consulted in the order they were added.
func (s *Stepper) Use(h OutcomeHandler) {
	s.handlers = append(s.handlers, h)
}

// State returns the current state.
func (s *Stepper) State() State {
	return s.state
}

// SwapState replaces the current state and returns the previous one.
// Used by focus sub-sessions; the history is unaffected.
func (s *Stepper) SwapState(st State) State {
	old := s.state
	s.state = st
	return old
}

// History returns the stepper's history stacks.
func (s *Stepper) History() *History {
	return s.history
}

// Run loops until a hook or handler requests a stop, and returns the stop
// reason. Run never returns a StopError: stopping is converted into the
// reason value. Any other error is a genuine fault and propagates.
func (s *Stepper) Run() (string, error) {
	for {
		if err := s.iterate(); err != nil {
			if stop, ok := AsStop(err); ok {
				return stop.Reason, nil
			}
			return "", err
		}
	}
}

// iterate performs one full iteration: refresh, render, collect input,
// dispatch, apply outcomes, record history.
func (s *Stepper) iterate() error {
	if err := s.program.EnsureUpToDate(s.state); err != nil {
		return err
	}
	s.program.ShowState(s.state)

	commands, err := s.program.Commands(s.state)
	if err != nil {
		return err
	}
	outcomes, err := commands.Apply()
	if err != nil {
		return err
	}

	var batch []Modification
	for _, outcome := range outcomes {
		mod, err := s.handleOutcome(outcome)
		if err != nil {
			return err
		}
		if mod == nil {
			continue
		}
		if err := mod.Apply(s.state); err != nil {
			if errors.Is(err, ErrModificationAborted) {
				continue
			}
			return fmt.Errorf("applying %s: %w", mod.Description(), err)
		}
		batch = append(batch, mod)
		s.afterModification(mod, false)
	}

	if len(batch) > 0 {
		s.history.Push(batch)
	}
	return nil
}

// handleOutcome walks the handler chain. The first handler recognizing the
// variant wins; an unrecognized variant is a fatal configuration error.
func (s *Stepper) handleOutcome(o Outcome) (Modification, error) {
	for _, h := range s.handlers {
		mod, handled, err := h.HandleOutcome(o, s.state)
		if err != nil {
			return nil, err
		}
		if handled {
			return mod, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnhandledOutcome, o.Outcome())
}

// Undo reverses the most recent history batch.
func (s *Stepper) Undo() error {
	batch, err := s.history.Undo(s.state)
	if err != nil {
		return err
	}
	for i := len(batch) - 1; i >= 0; i-- {
		s.afterModification(batch[i], true)
	}
	return nil
}

// Redo reapplies the most recent undone batch.
func (s *Stepper) Redo() error {
	batch, err := s.history.Redo(s.state)
	if err != nil {
		return err
	}
	for _, mod := range batch {
		s.afterModification(mod, false)
	}
	return nil
}

// afterModification notifies the program, if it observes modifications.
func (s *Stepper) afterModification(mod Modification, undone bool) {
	if obs, ok := s.program.(ModificationObserver); ok {
		obs.AfterModification(mod, undone)
	}
}
