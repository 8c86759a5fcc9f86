package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInterrupted is returned by GetInput when the user aborts input
// (Ctrl+C or a closed input stream).
var ErrInterrupted = errors.New("render: input interrupted")

// Style identifies how a piece of text should be presented.
type Style int

const (
	// StyleDefault is unstyled text.
	StyleDefault Style = iota
	// StyleBold is emphasized text (headers, command keys).
	StyleBold
	// StylePale is de-emphasized text (line numbers, statistics).
	StylePale
	// StyleError marks error messages.
	StyleError
	// StyleWarning marks warnings.
	StyleWarning
	// StyleHighlight marks the current match inside displayed code.
	StyleHighlight
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case StyleBold:
		return "bold"
	case StylePale:
		return "pale"
	case StyleError:
		return "error"
	case StyleWarning:
		return "warning"
	case StyleHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Start, End) into a text.
type Span struct {
	Start int
	End   int
}

// CodeOptions controls how ShowCode presents a document.
type CodeOptions struct {
	// Format is an informational tag ("tex", "md", ...). Implementations
	// may use it for syntax-aware presentation; the bundled ones ignore it.
	Format string

	// Highlight, when non-nil, marks a byte range to emphasize.
	Highlight *Span

	// LimitLines, when > 0, shows only this many lines of context before
	// and after the highlight. Requires Highlight to be set.
	LimitLines int

	// LineNumbers enables a line number gutter.
	LineNumbers bool
}

// Interface is the capability set the stepper needs from a user interface.
//
// All methods are synchronous. GetInput and AwaitConfirmation are the only
// blocking points; BigInfoPage may additionally block while the user pages
// through buffered output.
type Interface interface {
	// Clear resets the display for a new iteration.
	Clear()

	// WriteText writes styled text. Newlines are honored.
	WriteText(text string, style Style)

	// Newline writes a line break.
	Newline()

	// WriteHeader writes an emphasized header line.
	WriteHeader(text string)

	// WriteCommandInfo writes one command help line, e.g. "  [s]kip once".
	WriteCommandInfo(key, description string)

	// ShowCode displays source text, optionally highlighting a range and
	// limiting the shown context around it.
	ShowCode(code string, opts CodeOptions)

	// GetInput blocks for one line of raw input.
	GetInput() (string, error)

	// AwaitConfirmation blocks until the user acknowledges a message.
	AwaitConfirmation() error

	// BigInfoPage buffers all output produced by body and presents it as a
	// pageable unit. The buffered output is flushed and the pause happens
	// even if body returns an error.
	BigInfoPage(body func() error) error
}

// LinesAround splits text around the byte range [start, end) and returns the
// n lines preceding start, the range itself, the n lines following end, and
// the 1-based line number of the first returned line.
func LinesAround(text string, start, end, n int) (before, within, after string, firstLine int) {
	startIdx := start
	for i := 0; i < n; i++ {
		if startIdx > 0 {
			startIdx--
		}
		for startIdx > 0 && text[startIdx-1] != '\n' {
			startIdx--
		}
	}

	endIdx := end
	for i := 0; i < n; i++ {
		if endIdx+1 < len(text) {
			endIdx++
		}
		for endIdx+1 < len(text) && text[endIdx+1] != '\n' {
			endIdx++
		}
	}
	if endIdx < len(text) {
		endIdx++
	}

	firstLine = strings.Count(text[:startIdx], "\n") + 1
	return text[startIdx:start], text[start:end], text[end:endIdx], firstLine
}

// codeSegments splits code according to opts into styled (text, style)
// pairs plus the starting line number. Shared by the bundled interfaces.
func codeSegments(code string, opts CodeOptions) (segs []codeSegment, firstLine int) {
	firstLine = 1
	if opts.LimitLines > 0 && opts.Highlight != nil {
		before, within, after, ln := LinesAround(code, opts.Highlight.Start, opts.Highlight.End, opts.LimitLines)
		return []codeSegment{
			{before, StyleDefault},
			{within, StyleHighlight},
			{after, StyleDefault},
		}, ln
	}
	if opts.Highlight != nil {
		h := *opts.Highlight
		return []codeSegment{
			{code[:h.Start], StyleDefault},
			{code[h.Start:h.End], StyleHighlight},
			{code[h.End:], StyleDefault},
		}, 1
	}
	return []codeSegment{{code, StyleDefault}}, 1
}

type codeSegment struct {
	text  string
	style Style
}

// writeCode renders code segments through primitive writes. It implements
// the common gutter and highlight logic for Interface implementations.
func writeCode(ui Interface, code string, opts CodeOptions) {
	segs, lineNo := codeSegments(code, opts)

	atLineStart := true
	for _, seg := range segs {
		for _, line := range splitAfterNewlines(seg.text) {
			if atLineStart && opts.LineNumbers {
				ui.WriteText(fmt.Sprintf("%4d ", lineNo), StylePale)
			}
			ui.WriteText(line, seg.style)
			atLineStart = strings.HasSuffix(line, "\n")
			if atLineStart {
				lineNo++
			}
		}
	}

	if !strings.HasSuffix(code, "\n") {
		ui.Newline()
	}
}

// splitAfterNewlines splits s into chunks that each keep their trailing
// newline, like bufio line scanning but preserving separators.
func splitAfterNewlines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			return out
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
		if s == "" {
			return out
		}
	}
}
