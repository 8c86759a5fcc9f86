// Package render provides the user-facing output and input surface for the
// interactive annotation loop.
//
// The package defines the Interface contract consumed by the stepper and two
// implementations: Minimal, which writes plain text to an io.Writer and reads
// lines from an io.Reader (useful for tests and pipes), and Console, a
// tcell-backed styled terminal surface with an inline line editor and a
// paged "big info" view.
//
// There is no package-level default interface. Callers construct exactly one
// implementation and pass the handle to whatever needs it.
package render
