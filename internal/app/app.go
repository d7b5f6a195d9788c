// Package app wires the personalization core to the terminal: it
// bootstraps preferences, installs the stock bindings, runs the key
// event loop, and tears everything down in order.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dshills/lectern/internal/action"
	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/shortcut"
	"github.com/dshills/lectern/internal/notify"
	"github.com/dshills/lectern/internal/prefs"
	"github.com/dshills/lectern/internal/script"
	"github.com/dshills/lectern/internal/term"
)

// Options are the command-line level settings.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Ephemeral keeps preferences in memory only.
	Ephemeral bool
}

// Application owns every long-lived component and the event loop.
type Application struct {
	cfg    Config
	logger *Logger

	store    prefs.Store
	catalog  *appearance.Catalog
	state    *appearance.State
	cycler   *appearance.Cycler
	registry *shortcut.Registry
	notes    *notify.Notifier
	view     *View
	engine   *script.Engine
	terminal *term.Terminal

	logFile *os.File

	quit         chan struct{}
	quitOnce     sync.Once
	shutdownOnce sync.Once
}

// New builds the application in dependency order: config, logging,
// catalog, preference store, appearance state, registry, bindings,
// then the optional user script.
func New(opts Options) (*Application, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	a := &Application{
		cfg:  cfg,
		view: NewView(),
		quit: make(chan struct{}),
	}

	if err := a.initLogging(opts); err != nil {
		return nil, err
	}
	if err := a.initCatalog(); err != nil {
		return nil, err
	}
	if err := a.initPrefs(opts); err != nil {
		return nil, err
	}

	a.initAppearance()
	a.initRegistry()

	if err := a.bootstrapPrefs(context.Background()); err != nil {
		a.logger.Warn("preference bootstrap: %v", err)
	}
	if err := a.installBindings(); err != nil {
		a.Shutdown()
		return nil, err
	}

	a.initScript()
	a.watchPrefs()

	return a, nil
}

// initLogging opens the log file. An empty log path disables logging.
func (a *Application) initLogging(opts Options) error {
	if a.cfg.LogPath == "" {
		a.logger = NullLogger
		return nil
	}

	f, err := os.OpenFile(a.cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("app: opening log file: %w", err)
	}
	a.logFile = f

	level := a.cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	a.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(level),
		Output: f,
		Prefix: "lectern",
	})
	return nil
}

// initCatalog loads the theme catalog, or the built-in one when no
// path is configured or the file is missing.
func (a *Application) initCatalog() error {
	if a.cfg.CatalogPath == "" {
		a.catalog = appearance.DefaultCatalog()
		return nil
	}

	catalog, err := appearance.LoadCatalog(a.cfg.CatalogPath)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("catalog %s missing, using built-in themes", a.cfg.CatalogPath)
		a.catalog = appearance.DefaultCatalog()
		return nil
	}
	if err != nil {
		return err
	}
	a.catalog = catalog
	return nil
}

// initPrefs opens the preference store.
func (a *Application) initPrefs(opts Options) error {
	if opts.Ephemeral {
		a.store = prefs.NewMemory()
		return nil
	}

	log := a.logger.WithComponent("prefs")
	store, err := prefs.OpenFile(a.cfg.PrefsPath, prefs.WithErrorHandler(func(err error) {
		log.Error("%v", err)
	}))
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

// initAppearance builds the shared state, cycler, and notifier.
func (a *Application) initAppearance() {
	a.state = appearance.NewState(a.catalog.At(0).ID, appearance.ModeDefault)
	a.cycler = appearance.NewCycler(a.catalog, a.state, a.store)

	a.notes = notify.NewNotifier()
	a.notes.Subscribe(a.view.ShowNotice)
}

// initRegistry builds the shortcut registry from config.
func (a *Application) initRegistry() {
	log := a.logger.WithComponent("shortcut")
	opts := []shortcut.Option{
		shortcut.WithPanicHandler(func(b shortcut.Binding, r any) {
			log.Error("handler for %q panicked: %v", b.Keys, r)
		}),
	}
	if w := a.cfg.ChordWindow(); w > 0 {
		opts = append(opts, shortcut.WithChordWindow(w))
	}
	if a.cfg.ResetOnMismatch {
		opts = append(opts, shortcut.WithResetOnMismatch(true))
	}
	a.registry = shortcut.NewRegistry(opts...)
}

// bootstrapPrefs installs stored theme, mode, and faculty into the
// session without writing them back.
func (a *Application) bootstrapPrefs(ctx context.Context) error {
	theme, _, err := a.store.Get(ctx, prefs.KeyTheme)
	if err != nil {
		return err
	}
	mode, _, err := a.store.Get(ctx, prefs.KeyMode)
	if err != nil {
		return err
	}
	if !a.catalog.Contains(appearance.ThemeID(theme)) && theme != "" {
		a.logger.Warn("stored theme %q not in catalog, falling back", theme)
	}
	snap := a.cycler.Bootstrap(appearance.ThemeID(theme), appearance.Mode(mode))
	a.logger.Info("appearance: theme=%s mode=%s", snap.Theme, snap.Mode)

	faculty, ok, err := a.store.Get(ctx, prefs.KeyFaculty)
	if err != nil {
		return err
	}
	if ok {
		a.view.SetFaculty(faculty)
	}
	return nil
}

// installBindings registers the stock binding set. The handle lives
// for the whole session; registry.Close releases it.
func (a *Application) installBindings() error {
	dispatcher := action.NewDispatcher(a.cycler, a.catalog, a.state, a.notes,
		action.WithErrorHandler(func(err error) {
			a.logger.Warn("action: %v", err)
		}))

	_, err := a.registry.Register(defaultBindings(dispatcher, a.view, a.requestQuit))
	if err != nil {
		return fmt.Errorf("app: installing default bindings: %w", err)
	}
	return nil
}

// initScript runs the optional user init script. Script failures are
// logged, never fatal.
func (a *Application) initScript() {
	path := a.cfg.ScriptPath
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	log := a.logger.WithComponent("script")
	a.engine = script.NewEngine(a.registry, a.cycler, a.notes,
		script.WithErrorHandler(func(err error) {
			log.Error("%v", err)
		}))
	if err := a.engine.LoadFile(path); err != nil {
		log.Error("loading %s: %v", path, err)
	}
}

// watchPrefs re-applies appearance when the preference file changes
// under us, so two open sessions converge.
func (a *Application) watchPrefs() {
	store, ok := a.store.(*prefs.FileStore)
	if !ok {
		return
	}
	err := store.Watch(func() {
		if err := a.bootstrapPrefs(context.Background()); err != nil {
			a.logger.Warn("re-reading preferences: %v", err)
		}
	})
	if err != nil {
		a.logger.Warn("preference watch unavailable: %v", err)
	}
}

// SetTerminal attaches the terminal the event loop reads from.
func (a *Application) SetTerminal(t *term.Terminal) {
	a.terminal = t
}

// requestQuit asks the event loop to exit. Safe to call from handlers
// and from signal goroutines.
func (a *Application) requestQuit() {
	a.quitOnce.Do(func() {
		close(a.quit)
		if a.terminal != nil {
			a.terminal.Interrupt()
		}
	})
}

// Run drives the event loop until quit or teardown. It returns
// ErrQuit on a user-requested exit.
func (a *Application) Run() error {
	if a.terminal == nil {
		return errors.New("app: no terminal attached")
	}

	// Redraws triggered off the event thread (preference watcher,
	// notice timers) come in as interrupts.
	sub := a.state.Subscribe(func(appearance.Snapshot) {
		a.terminal.Interrupt()
	})
	defer sub.Unsubscribe()

	a.render()
	for {
		ev := a.terminal.PollEvent()

		select {
		case <-a.quit:
			return ErrQuit
		default:
		}

		switch ev.Kind {
		case term.EventKey:
			a.registry.HandleKey(ev.Key)
		case term.EventNone:
			// Screen finalized underneath us.
			return nil
		}

		select {
		case <-a.quit:
			return ErrQuit
		default:
		}
		a.render()
	}
}

// render paints the current view.
func (a *Application) render() {
	a.view.Render(a.terminal, a.state.Snapshot(), a.catalog, a.registry)
}

// Shutdown tears the application down in reverse dependency order.
// Idempotent; safe on every exit path.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.requestQuit()

		if a.engine != nil {
			if err := a.engine.Close(); err != nil {
				a.logger.Error("closing script engine: %v", err)
			}
		}
		if a.registry != nil {
			a.registry.Close()
		}
		if a.store != nil {
			if err := a.store.Close(); err != nil {
				a.logger.Error("closing preference store: %v", err)
			}
		}
		if a.terminal != nil {
			a.terminal.Fini()
		}
		if a.logFile != nil {
			_ = a.logFile.Close()
		}
	})
}
