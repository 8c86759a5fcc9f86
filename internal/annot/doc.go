// Package annot implements the interactive annotation application on top of
// the stepper engine and the catalog matching engine.
//
// The annotator walks an ordered list of documents, locates the next
// occurrence of a known vocabulary phrase, and offers commands to annotate
// it, skip it, suppress it for the session, focus on other occurrences of
// the same stem, view context, undo/redo, rescan, or quit. Text changes
// are reversible substitutions guarded by an optimistic staleness check
// against the backing file.
package annot
