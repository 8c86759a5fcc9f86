package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestMinimalGetInput(t *testing.T) {
	var out bytes.Buffer
	m := NewMinimal(&out, strings.NewReader("skip\r\nsecond"))

	line, err := m.GetInput()
	if err != nil {
		t.Fatalf("get input: %v", err)
	}
	if line != "skip" {
		t.Errorf("line = %q, want %q", line, "skip")
	}

	// A final line without a newline is still delivered.
	line, err = m.GetInput()
	if err != nil {
		t.Fatalf("get input: %v", err)
	}
	if line != "second" {
		t.Errorf("line = %q, want %q", line, "second")
	}

	if _, err := m.GetInput(); err != ErrInterrupted {
		t.Errorf("err = %v, want ErrInterrupted", err)
	}
}

func TestMinimalWriteCommandInfo(t *testing.T) {
	var out bytes.Buffer
	m := NewMinimal(&out, strings.NewReader(""))

	m.WriteCommandInfo("s", "kip once")
	if got := out.String(); got != "  [s]kip once\n" {
		t.Errorf("got %q", got)
	}
}

func TestMinimalShowCodeHighlightAndNumbers(t *testing.T) {
	var out bytes.Buffer
	m := NewMinimal(&out, strings.NewReader(""))

	code := "alpha\nbeta\ngamma\n"
	start := strings.Index(code, "beta")
	m.ShowCode(code, CodeOptions{
		Highlight:   &Span{Start: start, End: start + 4},
		LimitLines:  1,
		LineNumbers: true,
	})

	got := out.String()
	if !strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
		t.Errorf("missing context or highlight: %q", got)
	}
	if !strings.Contains(got, "   1 ") {
		t.Errorf("missing line number gutter: %q", got)
	}
}

func TestMinimalBigInfoPagePausesOnError(t *testing.T) {
	var out bytes.Buffer
	m := NewMinimal(&out, strings.NewReader("\n"))

	bodyErr := errSentinel{}
	err := m.BigInfoPage(func() error {
		m.WriteText("details", StyleDefault)
		return bodyErr
	})
	if err != bodyErr {
		t.Errorf("err = %v, want body error preserved", err)
	}
	if !strings.Contains(out.String(), "details") {
		t.Error("body output missing")
	}
	if !strings.Contains(out.String(), "Press Enter") {
		t.Error("confirmation prompt missing")
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }
