package annot

import (
	"fmt"
	"os"
	"strconv"

	"github.com/glosskit/glossmark/internal/catalog"
	"github.com/glosskit/glossmark/internal/render"
	"github.com/glosskit/glossmark/internal/stepper"
)

// buildCommands assembles the commands legal for the current state.
// Commands close over the state of this iteration and are rebuilt fresh
// every time.
func (a *Annotator) buildCommands(state *State) []stepper.Command {
	var cmds []stepper.Command
	cur := state.At()

	if cur.Resolved {
		if len(a.options) > 0 {
			cmds = append(cmds, a.annotateCommand(state))
			cmds = append(cmds, a.viewOptionCommand())
		}
		cmds = append(cmds,
			a.skipCommand(state),
			a.skipAllCommand(state),
			a.ignoreWordCommand(state),
			a.viewCommand(state),
			a.focusCommand(state, false),
			a.focusCommand(state, true),
		)
	}

	cmds = append(cmds,
		a.exitFileCommand(state),
		a.rescanCommand(),
	)

	if a.engine.History().CanUndo() {
		cmds = append(cmds, a.undoCommand())
	}
	if a.engine.History().CanRedo() {
		cmds = append(cmds, a.redoCommand())
	}
	return cmds
}

// annotateCommand annotates the selection with option number i.
func (a *Annotator) annotateCommand(state *State) stepper.Command {
	options := a.options
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "𝑖",
			Regex:   "^[0-9]+$",
			Short:   " annotate with 𝑖",
			Long:    "Annotates the current selection with option number 𝑖.",
		},
		Fn: func(call string) ([]stepper.Outcome, error) {
			i, err := strconv.Atoi(call)
			if err != nil || i >= len(options) {
				a.notify("Invalid option number.")
				return nil, nil
			}
			doc, err := state.Current()
			if err != nil {
				return nil, err
			}
			sel, err := state.SelectedText()
			if err != nil {
				return nil, err
			}
			cur := state.At()
			replacement := FormatAnnotation(doc.Format, options[i].Symbol, sel)
			return []stepper.Outcome{
				SubstitutionOutcome{Text: replacement, Start: cur.Start, End: cur.End},
				stepper.SetCursorOutcome{New: At(cur.DocIndex, cur.Start+len(replacement))},
			}, nil
		},
	}
}

// skipCommand skips the current selection once.
func (a *Annotator) skipCommand(state *State) stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "s",
			Short:   "kip once",
			Long:    "Skips to the next possible annotation.",
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			cur := state.At()
			return []stepper.Outcome{
				stepper.SetCursorOutcome{New: At(cur.DocIndex, cur.End)},
			}, nil
		},
	}
}

// skipAllCommand suppresses the selection's stem for the whole session.
func (a *Annotator) skipAllCommand(state *State) stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "S",
			Short:   "kip this stem everywhere",
			Long:    "Never again offers this stem for annotation in this session.",
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			doc, err := state.Current()
			if err != nil {
				return nil, err
			}
			sel, err := state.SelectedText()
			if err != nil {
				return nil, err
			}
			cur := state.At()
			return []stepper.Outcome{
				IgnoreOutcome{Kind: IgnoreStem, Key: catalog.StemPhrase(sel, doc.Language)},
				stepper.SetCursorOutcome{New: At(cur.DocIndex, cur.Start)},
			}, nil
		},
	}
}

// ignoreWordCommand suppresses the literal surface text for the session.
func (a *Annotator) ignoreWordCommand(state *State) stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "w",
			Short:   " ignore this exact wording",
			Long:    "Suppresses this literal wording for the session; other inflections still match.",
			Hidden:  true,
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			sel, err := state.SelectedText()
			if err != nil {
				return nil, err
			}
			cur := state.At()
			return []stepper.Outcome{
				IgnoreOutcome{Kind: IgnoreWord, Key: sel},
				stepper.SetCursorOutcome{New: At(cur.DocIndex, cur.Start)},
			}, nil
		},
	}
}

// viewCommand shows the whole current file on a big info page.
func (a *Annotator) viewCommand(state *State) stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "v",
			Short:   "iew file",
			Long:    "Shows the current file fully.",
			Hidden:  true,
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			doc, err := state.Current()
			if err != nil {
				return nil, err
			}
			content, err := doc.Content()
			if err != nil {
				return nil, err
			}
			err = a.ui.BigInfoPage(func() error {
				a.ui.WriteHeader(doc.Identifier)
				a.ui.ShowCode(content, render.CodeOptions{Format: doc.Format, LineNumbers: true})
				return nil
			})
			return nil, err
		},
	}
}

// viewOptionCommand shows the document introducing option number i.
func (a *Annotator) viewOptionCommand() stepper.Command {
	options := a.options
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "v𝑖",
			Regex:   "^v[0-9]+$",
			Short:   " view document for 𝑖",
			Long:    "Displays the document that introduces symbol number 𝑖.",
			Hidden:  true,
		},
		Fn: func(call string) ([]stepper.Outcome, error) {
			i, err := strconv.Atoi(call[1:])
			if err != nil || i >= len(options) {
				a.notify("Invalid option number.")
				return nil, nil
			}
			sym := options[i].Symbol
			if sym.Path == "" {
				a.notify(fmt.Sprintf("No source document known for %s.", sym.URI))
				return nil, nil
			}
			data, err := os.ReadFile(sym.Path)
			if err != nil {
				a.notify(fmt.Sprintf("Cannot read %s: %v", sym.Path, err))
				return nil, nil
			}
			err = a.ui.BigInfoPage(func() error {
				a.ui.WriteHeader(sym.Path)
				a.ui.ShowCode(string(data), render.CodeOptions{LineNumbers: true})
				return nil
			})
			return nil, err
		},
	}
}

// exitFileCommand continues with the next document.
func (a *Annotator) exitFileCommand(state *State) stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "X",
			Short:   " exit file",
			Long:    "Exits the current file and continues with the next one.",
			Hidden:  true,
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			cur := state.At()
			return []stepper.Outcome{
				stepper.SetCursorOutcome{New: At(cur.DocIndex+1, 0)},
			}, nil
		},
	}
}

// rescanCommand invalidates catalogs and document caches.
func (a *Annotator) rescanCommand() stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "R",
			Short:   "escan",
			Long:    "Rescans the local files (useful if files were modified externally).",
			Hidden:  true,
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			return []stepper.Outcome{RescanOutcome{}}, nil
		},
	}
}

// focusCommand starts a sub-session on the selection's stem: in the
// current file only, or (plus variant) in all remaining files.
func (a *Annotator) focusCommand(state *State, allRemaining bool) stepper.Command {
	info := stepper.CommandInfo{
		Pattern: "f",
		Short:   "ocus on stem",
		Long:    "Looks for other occurrences of the current stem in the current file.",
		Hidden:  true,
	}
	if allRemaining {
		info.Pattern = "f!"
		info.Short = "ocus on stem in all remaining files"
		info.Long = "Looks for other occurrences of the current stem in the remaining files."
	}
	return &stepper.FuncCommand{
		CommandInfo: info,
		Fn: func(string) ([]stepper.Outcome, error) {
			doc, err := state.Current()
			if err != nil {
				return nil, err
			}
			sel, err := state.SelectedText()
			if err != nil {
				return nil, err
			}
			cur := state.At()

			// The document list is never sliced for a focus: cursor
			// indices must mean the same thing in both sessions, or a
			// batch recorded under focus could not be undone later.
			focused := state.Clone().(*State)
			focused.StemFocus = catalog.StemPhrase(sel, doc.Language)
			focused.FocusLanguage = doc.Language
			focused.FocusLimit = cur.DocIndex + 1
			if allRemaining {
				focused.FocusLimit = len(focused.Documents)
			}
			focused.SetAt(At(cur.DocIndex, 0))

			return []stepper.Outcome{
				// The enclosing session resumes scanning at the old
				// selection start once the focus is done.
				stepper.SetCursorOutcome{New: At(cur.DocIndex, cur.Start)},
				FocusOutcome{State: focused},
			}, nil
		},
	}
}

// undoCommand reverses the most recent change batch.
func (a *Annotator) undoCommand() stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "u",
			Short:   "ndo",
			Long:    "Undoes the most recent change.",
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			return []stepper.Outcome{UndoOutcome{}}, nil
		},
	}
}

// redoCommand reapplies the most recently undone batch.
func (a *Annotator) redoCommand() stepper.Command {
	return &stepper.FuncCommand{
		CommandInfo: stepper.CommandInfo{
			Pattern: "U",
			Short:   " redo",
			Long:    "Redoes the most recently undone change.",
		},
		Fn: func(string) ([]stepper.Outcome, error) {
			return []stepper.Outcome{RedoOutcome{}}, nil
		},
	}
}
