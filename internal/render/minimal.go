package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Minimal is a plain-text Interface writing to an io.Writer and reading
// lines from an io.Reader. It applies no styling and simulates Clear with a
// separator line, which makes it suitable for tests, pipes and dumb
// terminals.
type Minimal struct {
	out io.Writer
	in  *bufio.Reader
}

// NewMinimal creates a Minimal interface over the given streams.
func NewMinimal(out io.Writer, in io.Reader) *Minimal {
	return &Minimal{
		out: out,
		in:  bufio.NewReader(in),
	}
}

// Clear writes a separator instead of clearing the screen.
func (m *Minimal) Clear() {
	fmt.Fprintf(m.out, "\n%s\n", strings.Repeat("=", 80))
}

// WriteText writes text, ignoring the style.
func (m *Minimal) WriteText(text string, _ Style) {
	io.WriteString(m.out, text)
}

// Newline writes a line break.
func (m *Minimal) Newline() {
	io.WriteString(m.out, "\n")
}

// WriteHeader writes the text followed by a line break.
func (m *Minimal) WriteHeader(text string) {
	m.WriteText(text, StyleBold)
	m.Newline()
}

// WriteCommandInfo writes one command help line.
func (m *Minimal) WriteCommandInfo(key, description string) {
	indent := "\n" + strings.Repeat(" ", len(key)+4)
	fmt.Fprintf(m.out, "  [%s]%s\n", key, strings.ReplaceAll(description, "\n", indent))
}

// ShowCode displays source text with optional gutter and highlight markers.
func (m *Minimal) ShowCode(code string, opts CodeOptions) {
	writeCode(m, code, opts)
}

// GetInput reads one line. io.EOF is reported as ErrInterrupted.
func (m *Minimal) GetInput() (string, error) {
	line, err := m.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", ErrInterrupted
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AwaitConfirmation prompts for and consumes one line.
func (m *Minimal) AwaitConfirmation() error {
	m.WriteText("Press Enter to continue...", StyleDefault)
	_, err := m.GetInput()
	return err
}

// BigInfoPage clears, runs body and pauses for confirmation. The pause
// happens even if body returns an error.
func (m *Minimal) BigInfoPage(body func() error) error {
	m.Clear()
	err := body()
	if cerr := m.AwaitConfirmation(); err == nil {
		err = cerr
	}
	m.Clear()
	return err
}
