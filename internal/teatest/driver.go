// Package teatest drives a bubbletea model synchronously in tests.
//
// Messages go straight to Update and any returned Cmd is run inline, so a
// test sees the model exactly as a user would after each key press without
// starting a tea.Program or its goroutines.
package teatest

import (
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 64

// cmdTimeout skips Cmds that block on timers, such as cursor blinks.
const cmdTimeout = 10 * time.Millisecond

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Driver feeds messages to a tea.Model and keeps the latest model value.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quit is set once the model returns tea.Quit.
	Quit bool
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Send(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New creates a Driver, applies opts and runs the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.run(model.Init(), 0)
	return d
}

// Send dispatches msg through Update and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quit {
		return
	}
	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.run(cmd, 0)
}

// Key sends a named key such as "tab", "shift+tab", "enter" or "esc", or a
// single printable rune.
func (d *Driver) Key(name string) {
	d.T.Helper()
	d.Send(keyMsg(name))
}

// Keys sends each name in turn.
func (d *Driver) Keys(names ...string) {
	d.T.Helper()
	for _, n := range names {
		d.Key(n)
	}
}

// View returns the current render with ANSI styling removed.
func (d *Driver) View() string {
	return ansiPattern.ReplaceAllString(d.Model.View(), "")
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"ctrl+c":    tea.KeyCtrlC,
}

func keyMsg(name string) tea.KeyMsg {
	if t, ok := namedKeys[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.T.Logf("teatest: stopped after %d chained commands", maxDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.run(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quit = true
	default:
		next, nextCmd := d.Model.Update(msg)
		d.Model = next
		d.run(nextCmd, depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}
