package annot

import (
	"testing"

	"github.com/glosskit/glossmark/internal/catalog"
)

func TestStateCloneIndependence(t *testing.T) {
	s := memoryState("a number")
	s.IgnoreStems["number"] = true
	s.FocusLimit = 1
	s.SetAt(Selected(0, 2, 8))

	c := s.Clone().(*State)
	if c.FocusLimit != 1 {
		t.Errorf("clone FocusLimit = %d, want 1", c.FocusLimit)
	}

	c.IgnoreStems["group"] = true
	c.IgnoreWords["Numbers"] = true
	c.IgnoreSymbols[catalog.SymbolRef{URI: "sym:x"}] = true
	if err := c.Documents[0].SetContent("changed"); err != nil {
		t.Fatal(err)
	}
	c.SetAt(At(0, 0))

	if len(s.IgnoreStems) != 1 || s.IgnoreStems["group"] {
		t.Error("stem set leaked into original")
	}
	if len(s.IgnoreWords) != 0 || len(s.IgnoreSymbols) != 0 {
		t.Error("word or symbol set leaked into original")
	}
	content, _ := s.Documents[0].Content()
	if content != "a number" {
		t.Errorf("content = %q, want original snapshot", content)
	}
	if !s.At().Equal(Selected(0, 2, 8)) {
		t.Error("cursor leaked into original")
	}
}

func TestSelectedText(t *testing.T) {
	s := memoryState("a natural number")
	s.SetAt(Selected(0, 2, 16))

	sel, err := s.SelectedText()
	if err != nil {
		t.Fatalf("selected text: %v", err)
	}
	if sel != "natural number" {
		t.Errorf("sel = %q", sel)
	}
}

func TestSelectedTextUnresolved(t *testing.T) {
	s := memoryState("text")
	s.SetAt(At(0, 0))
	if _, err := s.SelectedText(); err == nil {
		t.Error("expected error for unresolved cursor")
	}
}

func TestSelectedTextOutOfRange(t *testing.T) {
	s := memoryState("ab")
	s.SetAt(Selected(0, 0, 10))
	if _, err := s.SelectedText(); err == nil {
		t.Error("expected error for selection past end")
	}
}

func TestCurrentOutOfRange(t *testing.T) {
	s := memoryState("x")
	s.SetAt(At(3, 0))
	if _, err := s.Current(); err == nil {
		t.Error("expected error for document index out of range")
	}

	empty := NewState(nil)
	if _, err := empty.Current(); err != ErrEmptyState {
		t.Errorf("err = %v, want ErrEmptyState", err)
	}
}

func TestIgnoreSetSharesMaps(t *testing.T) {
	s := memoryState("x")
	ig := s.IgnoreSet()
	s.IgnoreStems["later"] = true
	if !ig.Stems["later"] {
		t.Error("ignore set must view the live session maps")
	}
}

func TestCursorString(t *testing.T) {
	if got := At(1, 5).String(); got != "doc 1 @5" {
		t.Errorf("got %q", got)
	}
	if got := Selected(0, 2, 8).String(); got != "doc 0 [2:8)" {
		t.Errorf("got %q", got)
	}
}
