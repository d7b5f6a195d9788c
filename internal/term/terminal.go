// Package term owns the terminal screen and translates tcell input
// events into the key model the shortcut registry consumes.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/lectern/internal/input/key"
)

// EventKind discriminates the events the application loop handles.
type EventKind int

// Event kinds.
const (
	EventNone EventKind = iota
	EventKey
	EventResize
	EventInterrupt
)

// Event is a terminal event reduced to what the application needs.
type Event struct {
	Kind   EventKind
	Key    key.Event
	Width  int
	Height int
}

// Terminal wraps a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal creates and initializes a real terminal screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: initializing screen: %w", err)
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a terminal backed by tcell's simulation
// screen. Used by tests.
func NewSimulation(width, height int) (*Terminal, tcell.SimulationScreen, error) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return nil, nil, fmt.Errorf("term: initializing simulation screen: %w", err)
	}
	screen.SetSize(width, height)
	return &Terminal{screen: screen}, screen, nil
}

// Fini restores the terminal. Safe to call on an already-finalized
// screen.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Size returns the current screen dimensions.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// Clear erases the screen buffer.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

// Show flushes the buffer to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// Interrupt wakes a goroutine blocked in PollEvent.
func (t *Terminal) Interrupt() {
	t.screen.PostEvent(tcell.NewEventInterrupt(nil)) //nolint:errcheck
}

// PollEvent blocks for the next event. Mouse and paste events are
// swallowed here; the personalization surface is keyboard-driven.
func (t *Terminal) PollEvent() Event {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if converted, ok := ConvertKey(ev); ok {
				return Event{Kind: EventKey, Key: converted}
			}

		case *tcell.EventResize:
			w, h := ev.Size()
			return Event{Kind: EventResize, Width: w, Height: h}

		case *tcell.EventInterrupt:
			return Event{Kind: EventInterrupt}

		case nil:
			// Screen finalized.
			return Event{Kind: EventNone}
		}
	}
}

// DrawText writes a string starting at (x, y), clipped to the screen.
func (t *Terminal) DrawText(x, y int, style tcell.Style, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	col := x
	for _, r := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// FillRow paints a full row with the style's background.
func (t *Terminal) FillRow(y int, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for x := 0; x < width; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

// StyleFromHex builds a style from "#rrggbb" colors. Empty strings
// keep the terminal default.
func StyleFromHex(fg, bg string) tcell.Style {
	style := tcell.StyleDefault
	if fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		style = style.Background(tcell.GetColor(bg))
	}
	return style
}

// ConvertKey translates a tcell key event into the registry's key
// model. Control-letter codes are unfolded back into a rune plus the
// ctrl modifier so "ctrl+s" patterns match regardless of how the
// terminal encodes the press. The second return is false for key codes
// the shortcut layer has no representation for.
func ConvertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMods(ev.Modifiers())

	// Enter, Tab, and Backspace share codes with ctrl+m, ctrl+i, and
	// ctrl+h; the named forms win, so the switch runs before the
	// control-letter unfold below.
	switch ev.Key() {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyInsert:
		return key.NewSpecialEvent(key.KeyInsert, mods), true
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods), true
	case tcell.KeyPgUp:
		return key.NewSpecialEvent(key.KeyPageUp, mods), true
	case tcell.KeyPgDn:
		return key.NewSpecialEvent(key.KeyPageDown, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	}

	switch k := ev.Key(); {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		r := rune('a' + (k - tcell.KeyCtrlA))
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return key.NewSpecialEvent(key.KeyF1+key.Key(k-tcell.KeyF1), mods), true
	}

	return key.Event{}, false
}

// convertMods translates tcell modifier bits.
func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(key.ModMeta)
	}
	return mods
}
