package stepper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glosskit/glossmark/internal/render"
)

// fakeCursor is an integer position.
type fakeCursor int

func (c fakeCursor) Equal(other Cursor) bool {
	o, ok := other.(fakeCursor)
	return ok && c == o
}

// fakeState is a cursor plus an integer register modifications act on.
type fakeState struct {
	cursor Cursor
	value  int
}

func (s *fakeState) Cursor() Cursor     { return s.cursor }
func (s *fakeState) SetCursor(c Cursor) { s.cursor = c }
func (s *fakeState) Clone() State {
	clone := *s
	return &clone
}

// addOutcome asks for the register to change by Delta.
type addOutcome struct{ Delta int }

func (addOutcome) Outcome() string { return "add" }

// strangeOutcome is recognized by no handler.
type strangeOutcome struct{}

func (strangeOutcome) Outcome() string { return "strange" }

// addModification applies a register delta.
type addModification struct {
	delta int
	fail  error
}

func (m *addModification) Apply(st State) error {
	if m.fail != nil {
		return m.fail
	}
	st.(*fakeState).value += m.delta
	return nil
}

func (m *addModification) Unapply(st State) error {
	st.(*fakeState).value -= m.delta
	return nil
}

func (m *addModification) Description() string {
	return fmt.Sprintf("add %d", m.delta)
}

func addHandler(fail error) OutcomeHandler {
	return OutcomeHandlerFunc(func(o Outcome, _ State) (Modification, bool, error) {
		add, ok := o.(addOutcome)
		if !ok {
			return nil, false, nil
		}
		return &addModification{delta: add.Delta, fail: fail}, true, nil
	})
}

// scriptProgram feeds one prepared outcome batch per iteration, then quits.
type scriptProgram struct {
	batches [][]Outcome
	step    int
	shown   int
}

func (p *scriptProgram) EnsureUpToDate(State) error { return nil }
func (p *scriptProgram) ShowState(State)            { p.shown++ }

func (p *scriptProgram) Commands(State) (*CommandCollection, error) {
	batch := []Outcome{QuitOutcome{}}
	if p.step < len(p.batches) {
		batch = p.batches[p.step]
		p.step++
	}
	cmd := &FuncCommand{
		CommandInfo: CommandInfo{Pattern: "x", Regex: "^.*$"},
		Fn: func(string) ([]Outcome, error) {
			return batch, nil
		},
	}
	return NewCommandCollection("test", scriptedUI(""), false, cmd)
}

// scriptedUI returns a no-op UI whose GetInput yields each given line once,
// then fails.
func scriptedUI(lines ...string) render.Interface {
	return &nullUI{inputs: lines}
}

type nullUI struct {
	inputs []string
	lines  []string
}

func (u *nullUI) Clear()                        {}
func (u *nullUI) WriteText(text string, _ render.Style) { u.lines = append(u.lines, text) }
func (u *nullUI) Newline()                      {}
func (u *nullUI) WriteHeader(text string)       { u.lines = append(u.lines, text) }
func (u *nullUI) WriteCommandInfo(key, desc string) {
	u.lines = append(u.lines, "["+key+"]"+desc)
}
func (u *nullUI) ShowCode(string, render.CodeOptions) {}

func (u *nullUI) GetInput() (string, error) {
	if len(u.inputs) == 0 {
		return "", render.ErrInterrupted
	}
	line := u.inputs[0]
	u.inputs = u.inputs[1:]
	return line, nil
}

func (u *nullUI) AwaitConfirmation() error { return nil }

func (u *nullUI) BigInfoPage(body func() error) error { return body() }

func newTestStepper(p Program, extra ...OutcomeHandler) (*Stepper, *fakeState) {
	state := &fakeState{cursor: fakeCursor(0)}
	s := New(state, p)
	s.Use(QuitHandler())
	s.Use(CursorHandler())
	s.Use(addHandler(nil))
	for _, h := range extra {
		s.Use(h)
	}
	return s, state
}

func TestRunStopsWithReason(t *testing.T) {
	s, _ := newTestStepper(&scriptProgram{})
	reason, err := s.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != "quit" {
		t.Errorf("reason = %q, want %q", reason, "quit")
	}
}

func TestRunAppliesBatches(t *testing.T) {
	p := &scriptProgram{batches: [][]Outcome{
		{addOutcome{Delta: 2}, addOutcome{Delta: 3}},
	}}
	s, state := newTestStepper(p)

	if _, err := s.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.value != 5 {
		t.Errorf("value = %d, want 5", state.value)
	}
	if got := s.History().UndoCount(); got != 1 {
		t.Errorf("undo count = %d, want 1 (one batch per iteration)", got)
	}
}

func TestRunUnhandledOutcomeIsFatal(t *testing.T) {
	p := &scriptProgram{batches: [][]Outcome{{strangeOutcome{}}}}
	s, _ := newTestStepper(p)

	_, err := s.Run()
	if !errors.Is(err, ErrUnhandledOutcome) {
		t.Errorf("err = %v, want ErrUnhandledOutcome", err)
	}
}

func TestRunSkipsAbortedModification(t *testing.T) {
	p := &scriptProgram{batches: [][]Outcome{{addOutcome{Delta: 7}}}}
	state := &fakeState{}
	s := New(state, p)
	s.Use(QuitHandler())
	s.Use(addHandler(fmt.Errorf("stale: %w", ErrModificationAborted)))

	if _, err := s.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.value != 0 {
		t.Errorf("value = %d, want 0 (aborted)", state.value)
	}
	if s.History().CanUndo() {
		t.Error("aborted modification must not be recorded")
	}
}

func TestUndoRedoBatch(t *testing.T) {
	p := &scriptProgram{batches: [][]Outcome{
		{addOutcome{Delta: 1}, addOutcome{Delta: 10}},
	}}
	s, state := newTestStepper(p)
	if _, err := s.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if state.value != 0 {
		t.Errorf("after undo value = %d, want 0", state.value)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if state.value != 11 {
		t.Errorf("after redo value = %d, want 11", state.value)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	s, _ := newTestStepper(&scriptProgram{})
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("err = %v, want ErrNothingToRedo", err)
	}
}

func TestSwapState(t *testing.T) {
	s, state := newTestStepper(&scriptProgram{})
	sub := &fakeState{cursor: fakeCursor(9)}

	old := s.SwapState(sub)
	if old != State(state) {
		t.Error("SwapState returned wrong previous state")
	}
	if s.State() != State(sub) {
		t.Error("SwapState did not install new state")
	}
}

func TestCursorHandlerRoundTrip(t *testing.T) {
	state := &fakeState{cursor: fakeCursor(3)}
	h := CursorHandler()

	mod, handled, err := h.HandleOutcome(SetCursorOutcome{New: fakeCursor(8)}, state)
	if err != nil || !handled {
		t.Fatalf("handled = %v, err = %v", handled, err)
	}
	if err := mod.Apply(state); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !state.cursor.Equal(fakeCursor(8)) {
		t.Errorf("cursor = %v, want 8", state.cursor)
	}
	if err := mod.Unapply(state); err != nil {
		t.Fatalf("unapply: %v", err)
	}
	if !state.cursor.Equal(fakeCursor(3)) {
		t.Errorf("cursor = %v, want 3", state.cursor)
	}
}
