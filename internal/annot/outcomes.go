package annot

import "github.com/glosskit/glossmark/internal/catalog"

// SubstitutionOutcome replaces the byte range [Start, End) of the current
// document with Text.
type SubstitutionOutcome struct {
	Text  string
	Start int
	End   int
}

// Outcome implements stepper.Outcome.
func (SubstitutionOutcome) Outcome() string { return "substitute" }

// RescanOutcome invalidates the catalog cache and reloads documents.
type RescanOutcome struct{}

// Outcome implements stepper.Outcome.
func (RescanOutcome) Outcome() string { return "rescan" }

// FocusOutcome starts a sub-session on an independent state; the current
// state is restored when the sub-session runs out of matches.
type FocusOutcome struct {
	State *State
}

// Outcome implements stepper.Outcome.
func (FocusOutcome) Outcome() string { return "focus" }

// UndoOutcome reverses the most recent history batch.
type UndoOutcome struct{}

// Outcome implements stepper.Outcome.
func (UndoOutcome) Outcome() string { return "undo" }

// RedoOutcome reapplies the most recent undone batch.
type RedoOutcome struct{}

// Outcome implements stepper.Outcome.
func (RedoOutcome) Outcome() string { return "redo" }

// IgnoreKind selects which ignore set an IgnoreOutcome touches.
type IgnoreKind int

const (
	// IgnoreStem suppresses a stemmed phrase for the session.
	IgnoreStem IgnoreKind = iota
	// IgnoreWord suppresses a literal surface word for the session.
	IgnoreWord
	// IgnoreSymbol drops one candidate symbol for the session.
	IgnoreSymbol
)

// IgnoreOutcome adds an entry to one of the session ignore sets.
type IgnoreOutcome struct {
	Kind   IgnoreKind
	Key    string            // stem or word, depending on Kind
	Symbol catalog.SymbolRef // for IgnoreSymbol
}

// Outcome implements stepper.Outcome.
func (IgnoreOutcome) Outcome() string { return "ignore" }
