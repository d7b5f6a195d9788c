// Package action holds the closed catalog of named actions that
// shortcuts invoke. The dispatcher owns no key handling; it turns
// application collaborators into handler closures the shortcut
// registry can bind.
package action

import (
	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/shortcut"
	"github.com/dshills/lectern/internal/notify"
)

// Router navigates between application routes.
type Router interface {
	Navigate(route string)
}

// Focuser moves input focus to a named UI target.
type Focuser interface {
	Focus(target string)
}

// Timetable is the timetable view surface the dispatcher drives.
type Timetable interface {
	ToggleOrientation()
}

// Downloads opens the export/download menu.
type Downloads interface {
	OpenMenu()
}

// HelpView shows and hides the shortcut help overlay.
type HelpView interface {
	ToggleVisible()
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorHandler sets the callback for non-fatal action failures,
// such as an unknown theme id. The default discards them.
func WithErrorHandler(fn func(error)) Option {
	return func(d *Dispatcher) {
		d.onError = fn
	}
}

// Dispatcher builds handler closures over the application's shared
// collaborators. Handlers run synchronously on the key-event
// goroutine and never block.
type Dispatcher struct {
	cycler  *appearance.Cycler
	catalog *appearance.Catalog
	state   *appearance.State
	notes   *notify.Notifier
	onError func(error)
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cycler *appearance.Cycler, catalog *appearance.Catalog, state *appearance.State, notes *notify.Notifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cycler:  cycler,
		catalog: catalog,
		state:   state,
		notes:   notes,
		onError: func(error) {},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Navigate returns a handler that routes to the given route.
func (d *Dispatcher) Navigate(router Router, route string) shortcut.Handler {
	return func() {
		router.Navigate(route)
	}
}

// Focus returns a handler that focuses the named target.
func (d *Dispatcher) Focus(focuser Focuser, target string) shortcut.Handler {
	return func() {
		focuser.Focus(target)
	}
}

// ToggleOrientation returns a handler that flips the timetable between
// its horizontal and vertical layouts.
func (d *Dispatcher) ToggleOrientation(tt Timetable) shortcut.Handler {
	return func() {
		tt.ToggleOrientation()
	}
}

// OpenDownloadMenu returns a handler that opens the download menu.
func (d *Dispatcher) OpenDownloadMenu(dl Downloads) shortcut.Handler {
	return func() {
		dl.OpenMenu()
	}
}

// ToggleNightMode returns a handler that flips the rendering mode and
// announces the new state.
func (d *Dispatcher) ToggleNightMode() shortcut.Handler {
	return func() {
		d.cycler.ToggleMode()
		d.announceMode()
	}
}

// CycleTheme returns a handler that steps the theme in the given
// direction and announces the result.
func (d *Dispatcher) CycleTheme(dir appearance.Direction) shortcut.Handler {
	return func() {
		if _, err := d.cycler.Next(dir); err != nil {
			d.onError(err)
			return
		}
		d.announceTheme()
	}
}

// RandomTheme returns a handler that applies a random non-current
// theme and announces it.
func (d *Dispatcher) RandomTheme() shortcut.Handler {
	return func() {
		if _, err := d.cycler.Random(); err != nil {
			d.onError(err)
			return
		}
		d.announceTheme()
	}
}

// ShowHelp returns a handler that toggles the help overlay.
func (d *Dispatcher) ShowHelp(help HelpView) shortcut.Handler {
	return func() {
		help.ToggleVisible()
	}
}

// announceTheme publishes a notice naming the current theme. The name
// is read from the live state at notification time so rapid cycling
// never announces a stale theme.
func (d *Dispatcher) announceTheme() {
	snap := d.state.Snapshot()
	if th, ok := d.catalog.ByID(snap.Theme); ok {
		d.notes.Info("Theme: " + th.Name)
	}
}

// announceMode publishes a notice for the current rendering mode.
func (d *Dispatcher) announceMode() {
	if d.state.Snapshot().Mode == appearance.ModeSlate {
		d.notes.Info("Night mode on")
		return
	}
	d.notes.Info("Night mode off")
}
