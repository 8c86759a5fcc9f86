// Package plugin loads Lua command scripts. A script registers extra
// interactive commands that behave like the built-in ones.
package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/glosskit/glossmark/internal/annot"
	"github.com/glosskit/glossmark/internal/logging"
	"github.com/glosskit/glossmark/internal/stepper"
)

// spec is a command registered by a script.
type spec struct {
	info   stepper.CommandInfo
	script string
	run    *lua.LFunction
}

// Engine owns the Lua state and the commands scripts have registered.
// Lua states are not safe for concurrent use, so all calls into the
// state are serialized.
type Engine struct {
	mu    sync.Mutex
	ls    *lua.LState
	log   *logging.Logger
	specs []*spec

	// loading holds the script path while its top level runs.
	loading string
}

// NewEngine creates an engine with the glossmark API installed.
func NewEngine(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Null
	}
	e := &Engine{
		ls:  lua.NewState(),
		log: log.WithComponent("plugin"),
	}
	e.installAPI()
	return e
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ls.Close()
}

// LoadDir runs every *.lua file in dir, in name order. A missing dir
// is not an error. A failing script is logged and skipped.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading plugin dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := e.loadFile(path); err != nil {
			e.log.Warn("plugin %s failed: %v", name, err)
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loading = path
	defer func() { e.loading = "" }()
	return e.ls.DoFile(path)
}

// LoadScript runs a script from source, for tests and ad-hoc commands.
func (e *Engine) LoadScript(name, source string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loading = name
	defer func() { e.loading = "" }()
	return e.ls.DoString(source)
}

// Provider exposes the registered commands as a command source for the
// annotator.
func (e *Engine) Provider() annot.CommandProvider {
	return func(state *annot.State) []stepper.Command {
		e.mu.Lock()
		defer e.mu.Unlock()

		cmds := make([]stepper.Command, 0, len(e.specs))
		for _, s := range e.specs {
			s := s
			cmds = append(cmds, &stepper.FuncCommand{
				CommandInfo: s.info,
				Fn: func(call string) ([]stepper.Outcome, error) {
					return e.execute(s, call, state)
				},
			})
		}
		return cmds
	}
}

// installAPI defines the global glossmark table with a register
// function scripts call at load time.
func (e *Engine) installAPI() {
	api := e.ls.NewTable()
	e.ls.SetField(api, "register", e.ls.NewFunction(e.luaRegister))
	e.ls.SetGlobal("glossmark", api)
}

func (e *Engine) luaRegister(L *lua.LState) int {
	tbl := L.CheckTable(1)

	s := &spec{
		script: e.loading,
		info: stepper.CommandInfo{
			Pattern: tableString(tbl, "pattern"),
			Regex:   tableString(tbl, "regex"),
			Short:   tableString(tbl, "short"),
			Long:    tableString(tbl, "long"),
			Hidden:  lua.LVAsBool(tbl.RawGetString("hidden")),
		},
	}
	run, ok := tbl.RawGetString("run").(*lua.LFunction)
	if !ok {
		L.RaiseError("register: run must be a function")
		return 0
	}
	s.run = run

	if s.info.Pattern == "" {
		L.RaiseError("register: pattern is required")
		return 0
	}

	e.specs = append(e.specs, s)
	e.log.Debug("registered command %q from %s", s.info.Pattern, s.script)
	return 0
}

// execute calls a script's run function with the typed input and a
// context table, then maps the returned outcome list. The caller holds
// the mutex.
func (e *Engine) execute(s *spec, call string, state *annot.State) ([]stepper.Outcome, error) {
	ctx := e.contextTable(state)

	err := e.ls.CallByParam(lua.P{
		Fn:      s.run,
		NRet:    1,
		Protect: true,
	}, lua.LString(call), ctx)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", s.script, err)
	}

	ret := e.ls.Get(-1)
	e.ls.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, nil
	}

	var outcomes []stepper.Outcome
	var convErr error
	tbl.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		ot, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		outcome, err := outcomeFromTable(ot, state)
		if err != nil {
			convErr = fmt.Errorf("plugin %s: %w", s.script, err)
			return
		}
		if outcome != nil {
			outcomes = append(outcomes, outcome)
		}
	})
	return outcomes, convErr
}

// contextTable snapshots the parts of the state scripts may read.
func (e *Engine) contextTable(state *annot.State) *lua.LTable {
	ctx := e.ls.NewTable()
	cur := state.At()
	e.ls.SetField(ctx, "doc", lua.LNumber(cur.DocIndex))
	e.ls.SetField(ctx, "start", lua.LNumber(cur.Start))
	e.ls.SetField(ctx, "finish", lua.LNumber(cur.End))
	e.ls.SetField(ctx, "resolved", lua.LBool(cur.Resolved))

	if sel, err := state.SelectedText(); err == nil {
		e.ls.SetField(ctx, "selection", lua.LString(sel))
	}
	if doc, err := state.Current(); err == nil {
		e.ls.SetField(ctx, "path", lua.LString(doc.Path))
		e.ls.SetField(ctx, "language", lua.LString(doc.Language))
	}
	return ctx
}

func outcomeFromTable(tbl *lua.LTable, state *annot.State) (stepper.Outcome, error) {
	kind := tableString(tbl, "type")
	switch kind {
	case "cursor":
		doc := tableInt(tbl, "doc", state.At().DocIndex)
		start := tableInt(tbl, "start", 0)
		finish := tableInt(tbl, "finish", -1)
		if finish >= 0 {
			return stepper.SetCursorOutcome{New: annot.Selected(doc, start, finish)}, nil
		}
		return stepper.SetCursorOutcome{New: annot.At(doc, start)}, nil
	case "quit":
		return stepper.QuitOutcome{Reason: tableString(tbl, "reason")}, nil
	case "substitute":
		cur := state.At()
		return annot.SubstitutionOutcome{
			Text:  tableString(tbl, "text"),
			Start: tableInt(tbl, "start", cur.Start),
			End:   tableInt(tbl, "finish", cur.End),
		}, nil
	case "rescan":
		return annot.RescanOutcome{}, nil
	default:
		return nil, fmt.Errorf("unknown outcome type %q", kind)
	}
}

func tableString(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func tableInt(tbl *lua.LTable, key string, fallback int) int {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(v)
	}
	return fallback
}
