package annot

import (
	"errors"
	"fmt"

	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/stepper"
)

// ErrEmptyState indicates a state with no documents.
var ErrEmptyState = errors.New("annot: no documents available")

// State is the session payload: the cursor, the documents under
// annotation, the session's ignore bookkeeping and focus metadata.
type State struct {
	cursor Cursor

	// Documents is the ordered list under annotation.
	Documents []*document.Document

	// IgnoreStems suppresses matches whose stemmed phrase is listed.
	IgnoreStems map[string]bool

	// IgnoreWords suppresses matches whose literal surface text is
	// listed.
	IgnoreWords map[string]bool

	// IgnoreSymbols drops individual candidate symbols from option
	// lists.
	IgnoreSymbols map[catalog.SymbolRef]bool

	// StemFocus, when non-empty, restricts matching to this stemmed
	// phrase (focus sub-sessions).
	StemFocus string

	// FocusLanguage is the language the focus stem was computed with.
	FocusLanguage string

	// FocusLimit bounds scanning to documents below this index while a
	// stem focus is active. The document list itself is never sliced, so
	// cursor indices keep the same meaning in the enclosing session.
	FocusLimit int
}

// NewState creates a session state starting at the first document.
func NewState(docs []*document.Document) *State {
	return &State{
		Documents:     docs,
		IgnoreStems:   make(map[string]bool),
		IgnoreWords:   make(map[string]bool),
		IgnoreSymbols: make(map[catalog.SymbolRef]bool),
	}
}

// Cursor implements stepper.State.
func (s *State) Cursor() stepper.Cursor { return s.cursor }

// SetCursor implements stepper.State. Only annot cursors are accepted.
func (s *State) SetCursor(c stepper.Cursor) {
	s.cursor = c.(Cursor)
}

// At returns the typed cursor.
func (s *State) At() Cursor { return s.cursor }

// SetAt replaces the typed cursor.
func (s *State) SetAt(c Cursor) { s.cursor = c }

// Clone implements stepper.State.
//
// Deep-vs-shallow boundary: the document list and each document's metadata
// and content snapshot are duplicated, as are the ignore sets. Backing
// files on disk are intentionally shared; so are the immutable symbol
// values used as map keys.
func (s *State) Clone() stepper.State {
	docs := make([]*document.Document, len(s.Documents))
	for i, d := range s.Documents {
		docs[i] = d.Clone()
	}
	clone := &State{
		cursor:        s.cursor,
		Documents:     docs,
		IgnoreStems:   make(map[string]bool, len(s.IgnoreStems)),
		IgnoreWords:   make(map[string]bool, len(s.IgnoreWords)),
		IgnoreSymbols: make(map[catalog.SymbolRef]bool, len(s.IgnoreSymbols)),
		StemFocus:     s.StemFocus,
		FocusLanguage: s.FocusLanguage,
		FocusLimit:    s.FocusLimit,
	}
	for k := range s.IgnoreStems {
		clone.IgnoreStems[k] = true
	}
	for k := range s.IgnoreWords {
		clone.IgnoreWords[k] = true
	}
	for k := range s.IgnoreSymbols {
		clone.IgnoreSymbols[k] = true
	}
	return clone
}

// DocLimit returns the index past the last document scanning may visit:
// the focus bound while a stem focus is active, the list length otherwise.
func (s *State) DocLimit() int {
	if s.StemFocus != "" && s.FocusLimit < len(s.Documents) {
		return s.FocusLimit
	}
	return len(s.Documents)
}

// Current returns the document under the cursor.
func (s *State) Current() (*document.Document, error) {
	if len(s.Documents) == 0 {
		return nil, ErrEmptyState
	}
	if s.cursor.DocIndex < 0 || s.cursor.DocIndex >= len(s.Documents) {
		return nil, fmt.Errorf("annot: document index %d out of range", s.cursor.DocIndex)
	}
	return s.Documents[s.cursor.DocIndex], nil
}

// SelectedText returns the text under a resolved cursor.
func (s *State) SelectedText() (string, error) {
	if !s.cursor.Resolved {
		return "", errors.New("annot: cursor has no selection")
	}
	doc, err := s.Current()
	if err != nil {
		return "", err
	}
	content, err := doc.Content()
	if err != nil {
		return "", err
	}
	if s.cursor.End > len(content) {
		return "", fmt.Errorf("annot: selection %s exceeds document", s.cursor)
	}
	return content[s.cursor.Start:s.cursor.End], nil
}

// IgnoreSet assembles the per-scan ignore sets for the matching engine.
func (s *State) IgnoreSet() catalog.IgnoreSet[catalog.SymbolRef] {
	return catalog.IgnoreSet[catalog.SymbolRef]{
		Stems:   s.IgnoreStems,
		Words:   s.IgnoreWords,
		Symbols: s.IgnoreSymbols,
	}
}
