package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glosskit/glossmark/internal/annot"
	"github.com/glosskit/glossmark/internal/document"
	"github.com/glosskit/glossmark/internal/stepper"
)

const skipToEndScript = `
glossmark.register{
	pattern = "e",
	short = "nd of line",
	long = "Jumps the scan position to the end of the document.",
	run = function(call, ctx)
		return {
			{ type = "cursor", doc = ctx.doc, start = ctx.start + 100 },
		}
	end,
}
`

func testState(content string) *annot.State {
	return annot.NewState([]*document.Document{
		document.NewMemory("mem", "txt", "en", content),
	})
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(nil)
	t.Cleanup(e.Close)
	return e
}

func TestRegisterAndExecute(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadScript("test.lua", skipToEndScript); err != nil {
		t.Fatalf("load: %v", err)
	}

	state := testState("text")
	state.SetAt(annot.At(0, 7))
	cmds := e.Provider()(state)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	info := cmds[0].Info()
	if info.Pattern != "e" || info.Short != "nd of line" {
		t.Errorf("info = %+v", info)
	}

	outcomes, err := cmds[0].Execute("e")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	sc, ok := outcomes[0].(stepper.SetCursorOutcome)
	if !ok {
		t.Fatalf("outcome = %T, want SetCursorOutcome", outcomes[0])
	}
	if !sc.New.Equal(annot.At(0, 107)) {
		t.Errorf("cursor = %v, want doc 0 @107", sc.New)
	}
}

func TestRegisterRequiresPattern(t *testing.T) {
	e := newTestEngine(t)
	err := e.LoadScript("bad.lua", `
glossmark.register{ run = function() end }
`)
	if err == nil {
		t.Error("expected error for missing pattern")
	}
}

func TestRegisterRequiresRunFunction(t *testing.T) {
	e := newTestEngine(t)
	err := e.LoadScript("bad.lua", `
glossmark.register{ pattern = "x" }
`)
	if err == nil {
		t.Error("expected error for missing run function")
	}
}

func TestQuitAndSubstituteOutcomes(t *testing.T) {
	e := newTestEngine(t)
	err := e.LoadScript("multi.lua", `
glossmark.register{
	pattern = "z",
	short = "ap",
	run = function(call, ctx)
		return {
			{ type = "substitute", text = "ZAP", start = 0, finish = 3 },
			{ type = "quit", reason = "zapped" },
		}
	end,
}
`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	state := testState("abc def")
	outcomes, err := e.Provider()(state)[0].Execute("z")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	sub, ok := outcomes[0].(annot.SubstitutionOutcome)
	if !ok {
		t.Fatalf("outcome[0] = %T", outcomes[0])
	}
	if sub.Text != "ZAP" || sub.Start != 0 || sub.End != 3 {
		t.Errorf("substitution = %+v", sub)
	}
	quit, ok := outcomes[1].(stepper.QuitOutcome)
	if !ok {
		t.Fatalf("outcome[1] = %T", outcomes[1])
	}
	if quit.Reason != "zapped" {
		t.Errorf("reason = %q", quit.Reason)
	}
}

func TestUnknownOutcomeTypeIsError(t *testing.T) {
	e := newTestEngine(t)
	err := e.LoadScript("odd.lua", `
glossmark.register{
	pattern = "o",
	run = function() return { { type = "teleport" } } end,
}
`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := e.Provider()(testState("x"))[0].Execute("o"); err == nil {
		t.Error("expected error for unknown outcome type")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte(skipToEndScript), 0o644); err != nil {
		t.Fatal(err)
	}
	// A broken script is skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "b.lua"), []byte("this is not lua ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine(t)
	if err := e.LoadDir(dir); err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if got := len(e.Provider()(testState("x"))); got != 1 {
		t.Errorf("got %d commands, want 1", got)
	}
}

func TestLoadDirMissing(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("missing dir must not be an error, got %v", err)
	}
}
