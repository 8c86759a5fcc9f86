package annot

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/logging"
	"github.com/glosskit/glossmark/internal/render"
	"github.com/glosskit/glossmark/internal/stepper"
)

// Option is the concrete candidate type of this application.
type Option = catalog.Option[catalog.SymbolRef, catalog.Phrase]

// Catalogs maps language tags to the application's catalogs.
type Catalogs = map[string]*catalog.Catalog[catalog.SymbolRef, catalog.Phrase]

// CommandProvider contributes extra commands for the current state
// (plugins, tests).
type CommandProvider func(state *State) []stepper.Command

// ChangeDetector reports whether a backing file changed behind the cache.
// Implemented by the watch package.
type ChangeDetector interface {
	Dirty(path string) bool
}

// Annotator is the concrete application driving the stepper engine: it
// locates annotation targets with the catalog, renders them, and converts
// command outcomes into reversible modifications.
type Annotator struct {
	ui     render.Interface
	log    *logging.Logger
	source catalog.Source
	engine *stepper.Stepper

	// catalogs is populated on first use and invalidated by rescan. The
	// guard is not needed under the single-actor model but keeps the
	// build observable and safe in tests.
	catalogMu sync.Mutex
	catalogs  Catalogs

	// options is the candidate list of the current match, recomputed
	// whenever the state moves underneath it.
	options []Option

	// focusParents holds suspended states of enclosing sessions.
	focusParents []*State

	providers []CommandProvider
	detector  ChangeDetector
}

// NewAnnotator wires an annotator over the given state. The handler chain
// is quit, cursor, then the application outcomes.
func NewAnnotator(ui render.Interface, log *logging.Logger, source catalog.Source, state *State) *Annotator {
	if log == nil {
		log = logging.Null
	}
	a := &Annotator{
		ui:     ui,
		log:    log.WithComponent("annot"),
		source: source,
	}
	a.engine = stepper.New(state, a)
	a.engine.Use(stepper.QuitHandler())
	a.engine.Use(stepper.CursorHandler())
	a.engine.Use(stepper.OutcomeHandlerFunc(a.handleOutcome))
	return a
}

// Engine returns the underlying stepper.
func (a *Annotator) Engine() *stepper.Stepper { return a.engine }

// State returns the current typed state.
func (a *Annotator) State() *State { return a.engine.State().(*State) }

// AddCommandProvider appends a source of extra commands.
func (a *Annotator) AddCommandProvider(p CommandProvider) {
	a.providers = append(a.providers, p)
}

// SetChangeDetector installs a file change detector used to hint at
// external edits.
func (a *Annotator) SetChangeDetector(d ChangeDetector) { a.detector = d }

// Run drives the loop until it stops and returns the stop reason.
func (a *Annotator) Run() (string, error) { return a.engine.Run() }

// EnsureUpToDate resolves an unresolved cursor to the next annotation
// target, advancing through documents and unwinding focus sub-sessions.
// When nothing is left it stops the run with reason "done".
func (a *Annotator) EnsureUpToDate(st stepper.State) error {
	state := st.(*State)
	for {
		cur := state.At()
		if cur.Resolved {
			if a.options == nil {
				a.options = a.optionsForSelection(state)
			}
			return nil
		}

		if len(state.Documents) == 0 || cur.DocIndex >= state.DocLimit() {
			if parent := a.popFocus(); parent != nil {
				a.engine.SwapState(parent)
				state = parent
				a.options = nil
				continue
			}
			a.ui.Clear()
			a.ui.WriteText("There is nothing left to annotate.", render.StyleDefault)
			a.ui.Newline()
			a.ui.AwaitConfirmation()
			return stepper.Stop("done")
		}

		doc := state.Documents[cur.DocIndex]
		cat, err := a.catalogFor(doc)
		if err != nil {
			a.ui.WriteText(fmt.Sprintf("Error when processing %s:\n%v", doc.Identifier, err), render.StyleError)
			a.ui.Newline()
			a.ui.AwaitConfirmation()
			state.SetAt(At(cur.DocIndex+1, 0))
			continue
		}

		content, err := doc.Content()
		if err != nil {
			a.log.Error("reading %s: %v", doc.Identifier, err)
			a.ui.WriteText(fmt.Sprintf("Cannot read %s: %v", doc.Identifier, err), render.StyleError)
			a.ui.Newline()
			a.ui.AwaitConfirmation()
			state.SetAt(At(cur.DocIndex+1, 0))
			continue
		}

		m, ok := a.nextMatch(cat, state, content, cur.Start)
		if !ok {
			state.SetAt(At(cur.DocIndex+1, 0))
			continue
		}
		state.SetAt(Selected(cur.DocIndex, m.Start, m.End))
		a.options = m.Options
		a.log.Debug("match in %s at [%d:%d), %d option(s)", doc.Identifier, m.Start, m.End, len(m.Options))
		return nil
	}
}

// nextMatch scans content from offset, honoring an active stem focus.
func (a *Annotator) nextMatch(cat *catalog.Catalog[catalog.SymbolRef, catalog.Phrase], state *State, content string, from int) (catalog.Match[catalog.SymbolRef, catalog.Phrase], bool) {
	if from > len(content) {
		from = len(content)
	}
	offset := from
	for {
		m, ok := cat.FirstMatch(content[offset:], state.IgnoreSet())
		if !ok {
			return m, false
		}
		m.Start += offset
		m.End += offset
		if state.StemFocus != "" &&
			catalog.StemPhrase(content[m.Start:m.End], state.FocusLanguage) != state.StemFocus {
			offset = m.End
			continue
		}
		return m, true
	}
}

// ShowState renders the current document excerpt, the candidate options
// and a status line. It does not mutate the state.
func (a *Annotator) ShowState(st stepper.State) {
	state := st.(*State)
	doc, err := state.Current()
	if err != nil {
		a.ui.WriteText(err.Error(), render.StyleError)
		a.ui.Newline()
		return
	}
	content, err := doc.Content()
	if err != nil {
		a.ui.WriteText(err.Error(), render.StyleError)
		a.ui.Newline()
		return
	}

	a.ui.Clear()
	header := doc.Identifier
	if state.StemFocus != "" {
		header += "  (focus: " + state.StemFocus + ")"
	}
	a.ui.WriteHeader(header)

	if a.detector != nil && doc.Path != "" && a.detector.Dirty(doc.Path) {
		a.ui.WriteText("Note: this file changed on disk. Use R to rescan.", render.StyleWarning)
		a.ui.Newline()
	}

	cur := state.At()
	opts := render.CodeOptions{Format: doc.Format, LineNumbers: true}
	if cur.Resolved {
		opts.Highlight = &render.Span{Start: cur.Start, End: cur.End}
		opts.LimitLines = 5
	}
	a.ui.ShowCode(content, opts)
	a.ui.Newline()

	for i, opt := range a.options {
		a.ui.WriteCommandInfo(strconv.Itoa(i), " "+opt.Symbol.URI)
	}
	if len(a.options) > 0 {
		a.ui.Newline()
	}
	a.ui.WriteText(
		fmt.Sprintf("Document %d of %d", cur.DocIndex+1, len(state.Documents)),
		render.StylePale)
	a.ui.Newline()
}

// Commands builds the collection legal for the current state.
func (a *Annotator) Commands(st stepper.State) (*stepper.CommandCollection, error) {
	state := st.(*State)
	cmds := a.buildCommands(state)
	for _, p := range a.providers {
		cmds = append(cmds, p(state)...)
	}
	cmds = append(cmds, stepper.NewQuitCommand("Quits the annotator, saving the session."))
	return stepper.NewCommandCollection("annotate", a.ui, true, cmds...)
}

// AfterModification invalidates the cached option list; the next refresh
// recomputes it from the (possibly rewound) state.
func (a *Annotator) AfterModification(mod stepper.Modification, undone bool) {
	a.options = nil
	a.log.Debug("modification (undone=%v): %s", undone, mod.Description())
}

// handleOutcome is the application's link in the outcome handler chain.
func (a *Annotator) handleOutcome(o stepper.Outcome, st stepper.State) (stepper.Modification, bool, error) {
	state := st.(*State)
	switch o := o.(type) {
	case SubstitutionOutcome:
		doc, err := state.Current()
		if err != nil {
			return nil, false, err
		}
		oldContent, err := doc.Content()
		if err != nil {
			return nil, false, err
		}
		return NewSubstitution(a.ui, doc, oldContent, o.Text, o.Start, o.End), true, nil

	case IgnoreOutcome:
		return NewIgnore(o), true, nil

	case RescanOutcome:
		a.rescan(state)
		return nil, true, nil

	case FocusOutcome:
		parent := a.engine.SwapState(o.State).(*State)
		a.focusParents = append(a.focusParents, parent)
		a.options = nil
		a.log.Info("focus on %q through document %d", o.State.StemFocus, o.State.FocusLimit)
		return nil, true, nil

	case UndoOutcome:
		if err := a.engine.Undo(); err != nil {
			if errors.Is(err, stepper.ErrNothingToUndo) {
				a.notify("Nothing to undo.")
				return nil, true, nil
			}
			// A stale-content refusal already warned the user; the
			// batch stays on the stack and the loop continues.
			if errors.Is(err, stepper.ErrModificationAborted) {
				return nil, true, nil
			}
			return nil, false, err
		}
		return nil, true, nil

	case RedoOutcome:
		if err := a.engine.Redo(); err != nil {
			if errors.Is(err, stepper.ErrNothingToRedo) {
				a.notify("Nothing to redo.")
				return nil, true, nil
			}
			if errors.Is(err, stepper.ErrModificationAborted) {
				return nil, true, nil
			}
			return nil, false, err
		}
		return nil, true, nil
	}
	return nil, false, nil
}

// rescan drops every cache derived from the outside world: catalogs,
// document contents and the current match.
func (a *Annotator) rescan(state *State) {
	a.catalogMu.Lock()
	a.catalogs = nil
	a.catalogMu.Unlock()

	for _, doc := range state.Documents {
		if err := doc.Reload(); err != nil {
			a.log.Warn("reload %s: %v", doc.Identifier, err)
		}
	}
	cur := state.At()
	state.SetAt(At(cur.DocIndex, cur.Start))
	a.options = nil
	a.log.Info("rescan: caches invalidated")
}

// catalogFor returns the catalog for the document's language, building the
// catalog set on first use.
func (a *Annotator) catalogFor(doc *document.Document) (*catalog.Catalog[catalog.SymbolRef, catalog.Phrase], error) {
	cats, err := a.loadCatalogs()
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, errors.New("no catalogs available")
	}
	cat, ok := cats[doc.Language]
	if !ok {
		return nil, fmt.Errorf("no catalog available for language %q", doc.Language)
	}
	return cat, nil
}

// loadCatalogs builds the per-language catalogs once.
func (a *Annotator) loadCatalogs() (Catalogs, error) {
	a.catalogMu.Lock()
	defer a.catalogMu.Unlock()
	if a.catalogs != nil {
		return a.catalogs, nil
	}
	cats, err := catalog.FromSource(a.source)
	if err != nil {
		return nil, err
	}
	a.catalogs = cats
	for lang := range cats {
		a.log.Info("catalog loaded for language %q", lang)
	}
	return cats, nil
}

// optionsForSelection recomputes the candidate list for an already
// resolved cursor (after undo or session restore).
func (a *Annotator) optionsForSelection(state *State) []Option {
	doc, err := state.Current()
	if err != nil {
		return nil
	}
	cats, err := a.loadCatalogs()
	if err != nil {
		return nil
	}
	cat, ok := cats[doc.Language]
	if !ok {
		return nil
	}
	sel, err := state.SelectedText()
	if err != nil {
		return nil
	}
	m, ok := cat.FirstMatch(sel, state.IgnoreSet())
	if !ok {
		return nil
	}
	return m.Options
}

// popFocus removes and returns the innermost suspended parent state.
func (a *Annotator) popFocus() *State {
	if len(a.focusParents) == 0 {
		return nil
	}
	parent := a.focusParents[len(a.focusParents)-1]
	a.focusParents = a.focusParents[:len(a.focusParents)-1]
	a.log.Info("focus finished, returning to enclosing session")
	return parent
}

// notify writes a short message and waits for acknowledgment.
func (a *Annotator) notify(msg string) {
	a.ui.WriteText(msg, render.StyleWarning)
	a.ui.Newline()
	a.ui.AwaitConfirmation()
}
