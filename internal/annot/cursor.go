package annot

import (
	"fmt"

	"github.com/glosskit/glossmark/internal/stepper"
)

// Cursor identifies a position in the annotation session: a document index
// plus either a single offset (not yet resolved to a match) or a half-open
// byte range (a resolved selection). Cursor is an immutable value; it is
// replaced, never mutated.
type Cursor struct {
	// DocIndex indexes the session's ordered document list.
	DocIndex int

	// Start is the scan offset while unresolved, and the selection start
	// once resolved.
	Start int

	// End is the selection end (exclusive). Meaningful only when
	// Resolved.
	End int

	// Resolved reports whether [Start, End) is a selection.
	Resolved bool
}

// At returns an unresolved cursor at the given offset.
func At(docIndex, offset int) Cursor {
	return Cursor{DocIndex: docIndex, Start: offset}
}

// Selected returns a resolved cursor over [start, end).
func Selected(docIndex, start, end int) Cursor {
	return Cursor{DocIndex: docIndex, Start: start, End: end, Resolved: true}
}

// Equal implements stepper.Cursor: two cursors are equal iff all fields
// are equal.
func (c Cursor) Equal(other stepper.Cursor) bool {
	o, ok := other.(Cursor)
	return ok && c == o
}

// String returns a compact representation for logs.
func (c Cursor) String() string {
	if c.Resolved {
		return fmt.Sprintf("doc %d [%d:%d)", c.DocIndex, c.Start, c.End)
	}
	return fmt.Sprintf("doc %d @%d", c.DocIndex, c.Start)
}
