package stepper

import "fmt"

// QuitOutcome requests a clean termination of the run loop.
type QuitOutcome struct {
	// Reason overrides the default "quit" reason when non-empty.
	Reason string
}

// Outcome implements Outcome.
func (QuitOutcome) Outcome() string { return "quit" }

// NewQuitCommand returns the standard quit command bound to the letter q.
func NewQuitCommand(long string) Command {
	return &FuncCommand{
		CommandInfo: CommandInfo{
			Pattern: "q",
			Short:   "uit",
			Long:    long,
		},
		Fn: func(string) ([]Outcome, error) {
			return []Outcome{QuitOutcome{}}, nil
		},
	}
}

// QuitHandler terminates the run with a StopError when it sees a
// QuitOutcome. It delegates everything else.
func QuitHandler() OutcomeHandler {
	return OutcomeHandlerFunc(func(o Outcome, _ State) (Modification, bool, error) {
		q, ok := o.(QuitOutcome)
		if !ok {
			return nil, false, nil
		}
		reason := q.Reason
		if reason == "" {
			reason = "quit"
		}
		return nil, false, Stop(reason)
	})
}

// SetCursorOutcome requests moving the state's cursor to a new position.
type SetCursorOutcome struct {
	New Cursor
}

// Outcome implements Outcome.
func (SetCursorOutcome) Outcome() string { return "set-cursor" }

// CursorModification swaps the state's cursor between two positions.
// Cursors are immutable values, so holding both ends is enough to make the
// change reversible.
type CursorModification struct {
	Old Cursor
	New Cursor
}

// Apply implements Modification.
func (m *CursorModification) Apply(st State) error {
	st.SetCursor(m.New)
	return nil
}

// Unapply implements Modification.
func (m *CursorModification) Unapply(st State) error {
	st.SetCursor(m.Old)
	return nil
}

// Description implements Modification.
func (m *CursorModification) Description() string {
	return fmt.Sprintf("move cursor %v -> %v", m.Old, m.New)
}

// CursorHandler converts SetCursorOutcome into a CursorModification
// capturing the current cursor as the undo position.
func CursorHandler() OutcomeHandler {
	return OutcomeHandlerFunc(func(o Outcome, st State) (Modification, bool, error) {
		sc, ok := o.(SetCursorOutcome)
		if !ok {
			return nil, false, nil
		}
		return &CursorModification{Old: st.Cursor(), New: sc.New}, true, nil
	})
}
