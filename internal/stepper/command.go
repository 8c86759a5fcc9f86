package stepper

import (
	"fmt"
	"regexp"

	"github.com/glosskit/glossmark/internal/render"
)

// CommandInfo describes how a command is presented and matched.
type CommandInfo struct {
	// Pattern is the presentation string, e.g. "s" or "𝑖". It is what the
	// command list displays inside brackets.
	Pattern string

	// Regex matches raw input. When empty, the anchored, quoted Pattern
	// is used. A distinct regex lets a single letter expand to a
	// parametrized family (e.g. "𝑖" matching "^[0-9]+$").
	Regex string

	// Short continues the pattern into a word, e.g. "kip once" for "s".
	Short string

	// Long is the full help text shown on the help page.
	Long string

	// Hidden omits the command from the displayed list. Hidden commands
	// remain dispatchable.
	Hidden bool
}

// Command is one admissible action. Commands are rebuilt fresh every
// iteration from the current state and never persisted.
type Command interface {
	// Info returns the command's presentation and matching data.
	Info() CommandInfo

	// Execute runs the command with the raw input that matched and
	// returns its ordered outcomes. Degraded executions (e.g. an
	// out-of-range option index) report to the user and return an empty
	// outcome slice rather than an error.
	Execute(call string) ([]Outcome, error)
}

// FuncCommand adapts a CommandInfo and a function to the Command interface.
type FuncCommand struct {
	CommandInfo
	Fn func(call string) ([]Outcome, error)
}

// Info implements Command.
func (c *FuncCommand) Info() CommandInfo { return c.CommandInfo }

// Execute implements Command.
func (c *FuncCommand) Execute(call string) ([]Outcome, error) {
	if c.Fn == nil {
		return nil, nil
	}
	return c.Fn(call)
}

// CommandCollection is the ordered set of currently legal commands plus the
// logic to read one line of input and resolve it to exactly one command.
type CommandCollection struct {
	name     string
	ui       render.Interface
	commands []Command
	matchers []*regexp.Regexp
	haveHelp bool
}

// NewCommandCollection compiles the commands' matchers. Commands keep their
// given order; on input, the first match wins.
func NewCommandCollection(name string, ui render.Interface, withHelp bool, commands ...Command) (*CommandCollection, error) {
	cc := &CommandCollection{
		name:     name,
		ui:       ui,
		commands: commands,
		haveHelp: withHelp,
	}
	for _, cmd := range commands {
		info := cmd.Info()
		pattern := info.Regex
		if pattern == "" {
			pattern = "^" + regexp.QuoteMeta(info.Pattern) + "$"
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", info.Pattern, err)
		}
		cc.matchers = append(cc.matchers, re)
	}
	return cc, nil
}

// Apply renders the available commands, blocks for input, resolves it to a
// command and returns that command's outcomes. Unmatched input reports an
// error and re-prompts. An interrupted input stream stops the run.
func (cc *CommandCollection) Apply() ([]Outcome, error) {
	cc.showCommands()
	for {
		input, err := cc.ui.GetInput()
		if err != nil {
			return nil, Stop("interrupt")
		}

		if cc.haveHelp && (input == "h" || input == "?") {
			if err := cc.showHelp(); err != nil {
				return nil, Stop("interrupt")
			}
			cc.showCommands()
			continue
		}

		cmd, ok := cc.match(input)
		if !ok {
			cc.ui.WriteText(fmt.Sprintf("Unknown command %q. Type h for help.", input), render.StyleError)
			cc.ui.Newline()
			continue
		}
		return cmd.Execute(input)
	}
}

// match finds the first command whose matcher accepts the input.
func (cc *CommandCollection) match(input string) (Command, bool) {
	for i, re := range cc.matchers {
		if re.MatchString(input) {
			return cc.commands[i], true
		}
	}
	return nil, false
}

// showCommands writes the visible command list.
func (cc *CommandCollection) showCommands() {
	for _, cmd := range cc.commands {
		info := cmd.Info()
		if info.Hidden {
			continue
		}
		cc.ui.WriteCommandInfo(info.Pattern, info.Short)
	}
	if cc.haveHelp {
		cc.ui.WriteCommandInfo("h", "elp")
	}
}

// showHelp presents the long descriptions of all commands, including the
// hidden ones, on a big info page.
func (cc *CommandCollection) showHelp() error {
	return cc.ui.BigInfoPage(func() error {
		cc.ui.WriteHeader("Commands: " + cc.name)
		for _, cmd := range cc.commands {
			info := cmd.Info()
			desc := info.Long
			if desc == "" {
				desc = info.Short
			}
			cc.ui.WriteCommandInfo(info.Pattern, desc)
		}
		return nil
	})
}
