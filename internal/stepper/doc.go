// Package stepper implements a generic "ispell-like" interactive loop: show
// the current position, offer a small set of commands, apply whatever
// reversible change the chosen command produces, and advance.
//
// The engine is domain-agnostic. An application supplies:
//
//   - a State implementation carrying its session payload and a Cursor,
//   - a Program with the three per-iteration hooks (refresh, render, and
//     building the currently legal command collection),
//   - an ordered chain of OutcomeHandlers that convert command outcomes
//     into reversible Modifications.
//
// Composition happens through the handler chain rather than through
// subclassing: appending a handler adds a behavior. The built-in
// QuitHandler and CursorHandler cover the two behaviors every application
// wants.
//
// Execution is single-threaded and cooperative. The only suspension points
// are user input inside CommandCollection.Apply and confirmation prompts in
// the render layer. Stopping the loop is a normal result, represented by
// StopError and converted by Run into a returned reason string.
package stepper
