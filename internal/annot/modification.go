package annot

import (
	"fmt"

	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/render"
	"github.com/glosskit/glossmark/internal/stepper"
)

// SubstitutionModification swaps a document's content between two full
// snapshots. Before either direction writes, it re-reads the backing file
// and compares it to the snapshot it is about to replace; on mismatch the
// write is aborted, the user is warned and must acknowledge, and the
// modification is not recorded into history.
type SubstitutionModification struct {
	// Doc is the document the substitution was created against. The
	// modification is bound to this identity, not to a position in some
	// state's document list: focus sub-sessions clone the list, and a
	// batch recorded under focus must still find its document when it is
	// undone in the enclosing session.
	Doc        *document.Document
	OldContent string
	NewContent string

	ui   render.Interface
	desc string
}

// NewSubstitution builds a substitution modification over doc, replacing
// [start, end) of oldContent with text.
func NewSubstitution(ui render.Interface, doc *document.Document, oldContent, text string, start, end int) *SubstitutionModification {
	return &SubstitutionModification{
		Doc:        doc,
		OldContent: oldContent,
		NewContent: oldContent[:start] + text + oldContent[end:],
		ui:         ui,
		desc:       fmt.Sprintf("replace [%d:%d) with %q", start, end, text),
	}
}

// Apply implements stepper.Modification.
func (m *SubstitutionModification) Apply(st stepper.State) error {
	return m.swap(st, m.OldContent, m.NewContent)
}

// Unapply implements stepper.Modification.
func (m *SubstitutionModification) Unapply(st stepper.State) error {
	return m.swap(st, m.NewContent, m.OldContent)
}

// Description implements stepper.Modification.
func (m *SubstitutionModification) Description() string { return m.desc }

// swap writes 'to' if the document currently holds 'from'.
func (m *SubstitutionModification) swap(st stepper.State, from, to string) error {
	doc := m.target(st.(*State))

	fresh, err := doc.FreshContent()
	if err != nil {
		return err
	}
	if fresh != from {
		if m.ui != nil {
			m.ui.WriteText(
				fmt.Sprintf("%s changed on disk since it was read; not writing.", doc.Identifier),
				render.StyleWarning)
			m.ui.Newline()
			m.ui.AwaitConfirmation()
		}
		return fmt.Errorf("%s: %w", doc.Identifier, stepper.ErrModificationAborted)
	}
	return doc.SetContent(to)
}

// target resolves the modification's document in the given state. The
// state's list may hold a clone of the captured document (or the other way
// around, after an unfocus); file-backed documents are then matched by
// path so the current state's cached snapshot gets the write.
func (m *SubstitutionModification) target(state *State) *document.Document {
	for _, d := range state.Documents {
		if d == m.Doc {
			return d
		}
	}
	if m.Doc.Path != "" {
		for _, d := range state.Documents {
			if d.Path == m.Doc.Path {
				return d
			}
		}
	}
	return m.Doc
}

// IgnoreModification records one ignore-set entry reversibly.
type IgnoreModification struct {
	outcome IgnoreOutcome
}

// NewIgnore builds the modification for an IgnoreOutcome.
func NewIgnore(o IgnoreOutcome) *IgnoreModification {
	return &IgnoreModification{outcome: o}
}

// Apply implements stepper.Modification.
func (m *IgnoreModification) Apply(st stepper.State) error {
	return m.set(st, true)
}

// Unapply implements stepper.Modification.
func (m *IgnoreModification) Unapply(st stepper.State) error {
	return m.set(st, false)
}

// Description implements stepper.Modification.
func (m *IgnoreModification) Description() string {
	switch m.outcome.Kind {
	case IgnoreStem:
		return fmt.Sprintf("ignore stem %q", m.outcome.Key)
	case IgnoreWord:
		return fmt.Sprintf("ignore word %q", m.outcome.Key)
	default:
		return fmt.Sprintf("ignore symbol %v", m.outcome.Symbol)
	}
}

func (m *IgnoreModification) set(st stepper.State, on bool) error {
	state := st.(*State)
	switch m.outcome.Kind {
	case IgnoreStem:
		setMember(state.IgnoreStems, m.outcome.Key, on)
	case IgnoreWord:
		setMember(state.IgnoreWords, m.outcome.Key, on)
	case IgnoreSymbol:
		if on {
			state.IgnoreSymbols[m.outcome.Symbol] = true
		} else {
			delete(state.IgnoreSymbols, m.outcome.Symbol)
		}
	}
	return nil
}

func setMember(set map[string]bool, key string, on bool) {
	if on {
		set[key] = true
	} else {
		delete(set, key)
	}
}
