package annot

import (
	"strings"

	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/render"
)

// testUI is a scripted render.Interface: it yields the prepared inputs in
// order and records everything written.
type testUI struct {
	inputs []string
	lines  []string

	// onInput, when set, runs before each scripted input is handed out.
	// Tests use it to edit files behind the annotator's back.
	onInput func(line string)
}

func (u *testUI) Clear() {}

func (u *testUI) WriteText(text string, _ render.Style) {
	u.lines = append(u.lines, text)
}

func (u *testUI) Newline() {}

func (u *testUI) WriteHeader(text string) {
	u.lines = append(u.lines, text)
}

func (u *testUI) WriteCommandInfo(key, desc string) {
	u.lines = append(u.lines, "["+key+"]"+desc)
}

func (u *testUI) ShowCode(string, render.CodeOptions) {}

func (u *testUI) GetInput() (string, error) {
	if len(u.inputs) == 0 {
		return "", render.ErrInterrupted
	}
	line := u.inputs[0]
	u.inputs = u.inputs[1:]
	if u.onInput != nil {
		u.onInput(line)
	}
	return line, nil
}

func (u *testUI) AwaitConfirmation() error { return nil }

func (u *testUI) BigInfoPage(body func() error) error { return body() }

func (u *testUI) wrote(substr string) bool {
	for _, line := range u.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// memorySource is an in-memory catalog.Source.
type memorySource struct {
	records []memoryRecord
}

type memoryRecord struct {
	lang string
	sym  catalog.SymbolRef
	verb string
}

func (s *memorySource) Each(fn func(lang string, sym catalog.SymbolRef, entry catalog.Phrase) error) error {
	for _, r := range s.records {
		if err := fn(r.lang, r.sym, catalog.Phrase{Text: r.verb}); err != nil {
			return err
		}
	}
	return nil
}

func defaultSource() *memorySource {
	return &memorySource{records: []memoryRecord{
		{"en", catalog.SymbolRef{URI: "sym:nat"}, "natural number"},
		{"en", catalog.SymbolRef{URI: "sym:num"}, "number"},
		{"en", catalog.SymbolRef{URI: "sym:group"}, "group"},
	}}
}

func memoryState(contents ...string) *State {
	var docs []*document.Document
	for i, content := range contents {
		docs = append(docs, document.NewMemory("doc"+string(rune('A'+i)), "txt", "en", content))
	}
	return NewState(docs)
}

func newTestAnnotator(state *State, inputs ...string) (*Annotator, *testUI) {
	ui := &testUI{inputs: inputs}
	return NewAnnotator(ui, nil, defaultSource(), state), ui
}
