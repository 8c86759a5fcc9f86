package render

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Console is a tcell-backed Interface. Output accumulates as styled lines
// that are repainted on every write; input is collected with an inline line
// editor at the current output position.
type Console struct {
	mu     sync.Mutex
	screen tcell.Screen

	lightMode bool

	// Current display content, one entry per line.
	lines []styledLine

	// Paging state for BigInfoPage.
	paging    bool
	pageLines []styledLine
}

type styledLine []styledSegment

type styledSegment struct {
	text  string
	style Style
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithLightMode selects a palette for light terminal backgrounds.
func WithLightMode(on bool) ConsoleOption {
	return func(c *Console) { c.lightMode = on }
}

// NewConsole creates and initializes a tcell screen.
func NewConsole(opts ...ConsoleOption) (*Console, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	c := &Console{screen: screen}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// newConsoleWithScreen is used by tests with a simulation screen.
func newConsoleWithScreen(screen tcell.Screen) *Console {
	return &Console{screen: screen}
}

// Close releases the terminal. Safe to call once at shutdown.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Fini()
}

// Clear resets the display.
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paging {
		c.pageLines = nil
		return
	}
	c.lines = nil
	c.screen.Clear()
	c.screen.Show()
}

// WriteText appends styled text, splitting on newlines.
func (c *Console) WriteText(text string, style Style) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(text, style)
	if !c.paging {
		c.drawLocked()
	}
}

// Newline writes a line break.
func (c *Console) Newline() {
	c.WriteText("\n", StyleDefault)
}

// WriteHeader writes an emphasized header line.
func (c *Console) WriteHeader(text string) {
	c.WriteText(text, StyleBold)
	c.Newline()
}

// WriteCommandInfo writes one command help line.
func (c *Console) WriteCommandInfo(key, description string) {
	indent := "\n" + strings.Repeat(" ", len(key)+4)
	c.WriteText("  ", StyleDefault)
	c.WriteText("["+key+"]", StyleBold)
	c.WriteText(strings.ReplaceAll(description, "\n", indent), StyleDefault)
	c.Newline()
}

// ShowCode displays source text with optional gutter and highlight.
func (c *Console) ShowCode(code string, opts CodeOptions) {
	writeCode(c, code, opts)
}

// GetInput runs an inline line editor until Enter. Ctrl+C and screen loss
// are reported as ErrInterrupted.
func (c *Console) GetInput() (string, error) {
	var input []rune
	for {
		c.mu.Lock()
		c.drawInputLocked(string(input))
		c.mu.Unlock()

		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				c.mu.Lock()
				c.appendLocked(string(input)+"\n", StyleDefault)
				c.mu.Unlock()
				return string(input), nil
			case tcell.KeyCtrlC, tcell.KeyEscape:
				return "", ErrInterrupted
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(input) > 0 {
					input = input[:len(input)-1]
				}
			case tcell.KeyCtrlU:
				input = input[:0]
			case tcell.KeyRune:
				input = append(input, ev.Rune())
			}
		case *tcell.EventResize:
			c.mu.Lock()
			c.screen.Sync()
			c.drawLocked()
			c.mu.Unlock()
		case nil:
			return "", ErrInterrupted
		}
	}
}

// AwaitConfirmation blocks until the user presses Enter.
func (c *Console) AwaitConfirmation() error {
	c.WriteText("Press Enter to continue...", StylePale)
	_, err := c.GetInput()
	return err
}

// BigInfoPage buffers body's output and presents it in a scrollable pager.
// The pager runs even if body returns an error, so partial output is never
// silently lost.
func (c *Console) BigInfoPage(body func() error) error {
	c.mu.Lock()
	c.paging = true
	c.pageLines = nil
	c.mu.Unlock()

	err := body()

	c.mu.Lock()
	pageLines := c.pageLines
	c.paging = false
	c.pageLines = nil
	c.mu.Unlock()

	if perr := c.runPager(pageLines); err == nil {
		err = perr
	}

	c.mu.Lock()
	c.drawLocked()
	c.mu.Unlock()
	return err
}

// runPager displays lines with scrolling until the user quits the view.
func (c *Console) runPager(lines []styledLine) error {
	top := 0
	for {
		c.mu.Lock()
		_, height := c.screen.Size()
		body := height - 1
		if body < 1 {
			body = 1
		}
		maxTop := len(lines) - body
		if maxTop < 0 {
			maxTop = 0
		}
		if top > maxTop {
			top = maxTop
		}
		if top < 0 {
			top = 0
		}
		c.screen.Clear()
		for y := 0; y < body && top+y < len(lines); y++ {
			c.drawLineLocked(y, lines[top+y])
		}
		c.drawLineLocked(body, styledLine{{"-- press q to continue, arrows/space to scroll --", StylePale}})
		c.screen.Show()
		c.mu.Unlock()

		ev := c.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC:
				return ErrInterrupted
			case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q', ev.Key() == tcell.KeyEnter:
				return nil
			case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
				top--
			case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
				top++
			case ev.Key() == tcell.KeyPgUp:
				top -= body
			case ev.Key() == tcell.KeyPgDn, ev.Rune() == ' ':
				top += body
			case ev.Key() == tcell.KeyHome, ev.Rune() == 'g':
				top = 0
			case ev.Key() == tcell.KeyEnd, ev.Rune() == 'G':
				top = maxTop
			}
		case *tcell.EventResize:
			c.mu.Lock()
			c.screen.Sync()
			c.mu.Unlock()
		case nil:
			return ErrInterrupted
		}
	}
}

// appendLocked adds text to the current content, splitting on newlines.
func (c *Console) appendLocked(text string, style Style) {
	lines := &c.lines
	if c.paging {
		lines = &c.pageLines
	}
	if len(*lines) == 0 {
		*lines = append(*lines, nil)
	}
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			*lines = append(*lines, nil)
		}
		if part == "" {
			continue
		}
		last := len(*lines) - 1
		(*lines)[last] = append((*lines)[last], styledSegment{part, style})
	}
}

// drawLocked repaints the accumulated lines, keeping the tail visible.
func (c *Console) drawLocked() {
	_, height := c.screen.Size()
	top := 0
	if len(c.lines) > height {
		top = len(c.lines) - height
	}
	c.screen.Clear()
	for y := 0; top+y < len(c.lines) && y < height; y++ {
		c.drawLineLocked(y, c.lines[top+y])
	}
	c.screen.Show()
}

// drawInputLocked repaints and renders the pending input on the last line.
func (c *Console) drawInputLocked(input string) {
	_, height := c.screen.Size()
	visible := c.lines
	// Reserve the last row for the input line.
	if len(visible) > height-1 {
		visible = visible[len(visible)-(height-1):]
	}
	c.screen.Clear()
	y := 0
	for ; y < len(visible); y++ {
		c.drawLineLocked(y, visible[y])
	}
	line := styledLine{{"> ", StyleBold}, {input, StyleDefault}}
	c.drawLineLocked(y, line)
	c.screen.ShowCursor(len("> ")+len(input), y)
	c.screen.Show()
}

// drawLineLocked renders one styled line at screen row y.
func (c *Console) drawLineLocked(y int, line styledLine) {
	width, _ := c.screen.Size()
	x := 0
	for _, seg := range line {
		st := c.tcellStyle(seg.style)
		for _, r := range seg.text {
			if x >= width {
				return
			}
			c.screen.SetContent(x, y, r, nil, st)
			x++
		}
	}
}

// tcellStyle maps a Style to a tcell style for the active palette.
func (c *Console) tcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault
	switch s {
	case StyleBold:
		return st.Bold(true)
	case StylePale:
		return st.Foreground(tcell.ColorGray)
	case StyleError:
		if c.lightMode {
			return st.Background(tcell.ColorLightCoral)
		}
		return st.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	case StyleWarning, StyleHighlight:
		if c.lightMode {
			return st.Background(tcell.ColorLightYellow).Foreground(tcell.ColorBlack)
		}
		return st.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	}
	return st
}
