package annot

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/document"
)

// EncodeState serializes a state for session storage. Document contents
// are not persisted for file-backed documents (they are reloaded from
// disk); memory documents keep their content inline.
func EncodeState(s *State) ([]byte, error) {
	js := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		js, err = sjson.SetBytes(js, path, value)
	}

	cur := s.At()
	set("cursor.doc", cur.DocIndex)
	set("cursor.start", cur.Start)
	set("cursor.end", cur.End)
	set("cursor.resolved", cur.Resolved)

	for i, d := range s.Documents {
		prefix := fmt.Sprintf("documents.%d.", i)
		set(prefix+"identifier", d.Identifier)
		set(prefix+"path", d.Path)
		set(prefix+"format", d.Format)
		set(prefix+"language", d.Language)
		if d.Path == "" {
			content, cerr := d.Content()
			if cerr != nil {
				return nil, cerr
			}
			set(prefix+"content", content)
		}
	}
	if len(s.Documents) == 0 {
		set("documents", []any{})
	}

	set("ignore.stems", sortedKeys(s.IgnoreStems))
	set("ignore.words", sortedKeys(s.IgnoreWords))
	syms := make([]catalog.SymbolRef, 0, len(s.IgnoreSymbols))
	for sym := range s.IgnoreSymbols {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].URI < syms[j].URI })
	for i, sym := range syms {
		set(fmt.Sprintf("ignore.symbols.%d.uri", i), sym.URI)
		set(fmt.Sprintf("ignore.symbols.%d.path", i), sym.Path)
	}

	set("focus.stem", s.StemFocus)
	set("focus.language", s.FocusLanguage)
	set("focus.limit", s.FocusLimit)

	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return js, nil
}

// DecodeState reconstructs a state from its serialized form.
func DecodeState(data []byte) (*State, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("decoding state: not a JSON object")
	}

	var docs []*document.Document
	for _, rec := range root.Get("documents").Array() {
		path := rec.Get("path").String()
		if path != "" {
			doc := document.New(path)
			doc.Identifier = rec.Get("identifier").String()
			doc.Format = rec.Get("format").String()
			doc.Language = rec.Get("language").String()
			docs = append(docs, doc)
			continue
		}
		docs = append(docs, document.NewMemory(
			rec.Get("identifier").String(),
			rec.Get("format").String(),
			rec.Get("language").String(),
			rec.Get("content").String(),
		))
	}

	state := NewState(docs)
	state.SetAt(Cursor{
		DocIndex: int(root.Get("cursor.doc").Int()),
		Start:    int(root.Get("cursor.start").Int()),
		End:      int(root.Get("cursor.end").Int()),
		Resolved: root.Get("cursor.resolved").Bool(),
	})

	for _, stem := range root.Get("ignore.stems").Array() {
		state.IgnoreStems[stem.String()] = true
	}
	for _, word := range root.Get("ignore.words").Array() {
		state.IgnoreWords[word.String()] = true
	}
	for _, sym := range root.Get("ignore.symbols").Array() {
		state.IgnoreSymbols[catalog.SymbolRef{
			URI:  sym.Get("uri").String(),
			Path: sym.Get("path").String(),
		}] = true
	}

	state.StemFocus = root.Get("focus.stem").String()
	state.FocusLanguage = root.Get("focus.language").String()
	state.FocusLimit = int(root.Get("focus.limit").Int())
	return state, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
