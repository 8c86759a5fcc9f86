package annot

import (
	"fmt"

	"github.com/glosskit/glossmark/internal/catalog"
)

// FormatAnnotation wraps the selected text in a reference marker for the
// chosen symbol, using a per-format template.
func FormatAnnotation(format string, sym catalog.SymbolRef, text string) string {
	switch format {
	case "tex", "latex", "ltx":
		return fmt.Sprintf(`\gm[%s]{%s}`, sym.URI, text)
	case "md", "markdown", "myst":
		return fmt.Sprintf("[%s](glossary:%s)", text, sym.URI)
	default:
		return fmt.Sprintf("[[%s|%s]]", text, sym.URI)
	}
}
