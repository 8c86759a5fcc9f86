package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// SymbolRef identifies a symbol in an external knowledge source.
type SymbolRef struct {
	// URI is the symbol's canonical identity.
	URI string
	// Path is the source document that introduces the symbol, when known.
	Path string
}

// String returns the symbol URI.
func (s SymbolRef) String() string { return s.URI }

// Phrase is the plain-text Verbalization used by file-backed catalogs.
type Phrase struct {
	Text string
}

// Phrase implements Verbalization.
func (p Phrase) Phrase() string { return p.Text }

// Source produces a restartable sequence of (language, symbol, entry)
// triples. The sequence is finite for a given snapshot of the external
// knowledge source and re-enumerable on rescan.
type Source interface {
	Each(fn func(lang string, sym SymbolRef, entry Phrase) error) error
}

// FromSource builds one catalog per language from a triple source.
func FromSource(src Source) (map[string]*Catalog[SymbolRef, Phrase], error) {
	catalogs := make(map[string]*Catalog[SymbolRef, Phrase])
	err := src.Each(func(lang string, sym SymbolRef, entry Phrase) error {
		c, ok := catalogs[lang]
		if !ok {
			c = New[SymbolRef, Phrase](lang)
			catalogs[lang] = c
		}
		c.Add(sym, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalogs, nil
}

// FileSource reads verbalization dumps: JSON with one record per line (or
// a top-level array), each record carrying language, symbol and verb
// fields:
//
//	{"language": "en", "symbol": {"uri": "...", "path": "..."}, "verb": "natural number"}
type FileSource struct {
	Path string
}

// Each implements Source by re-reading the file on every call.
func (f *FileSource) Each(fn func(lang string, sym SymbolRef, entry Phrase) error) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading catalog source: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "[") {
		var each error
		gjson.Parse(text).ForEach(func(_, rec gjson.Result) bool {
			each = emitRecord(rec, fn)
			return each == nil
		})
		return each
	}

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec := gjson.Parse(line)
		if !rec.IsObject() {
			return fmt.Errorf("catalog source %s: line %d is not a JSON object", f.Path, lineNo+1)
		}
		if err := emitRecord(rec, fn); err != nil {
			return err
		}
	}
	return nil
}

// emitRecord extracts one triple from a parsed record.
func emitRecord(rec gjson.Result, fn func(string, SymbolRef, Phrase) error) error {
	verb := rec.Get("verb").String()
	if verb == "" {
		return nil // tolerated: records without a verbalization carry no key
	}
	lang := rec.Get("language").String()
	if lang == "" {
		lang = "en"
	}
	sym := SymbolRef{
		URI:  rec.Get("symbol.uri").String(),
		Path: rec.Get("symbol.path").String(),
	}
	return fn(lang, sym, Phrase{Text: verb})
}
