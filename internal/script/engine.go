// Package script runs the optional user init script in a sandboxed
// Lua state. The script can add shortcut bindings, set the theme, and
// publish notices through a small `lectern` module; it gets no file
// system, process, or network access.
package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/shortcut"
	"github.com/dshills/lectern/internal/notify"
)

// ErrEngineClosed is returned by script execution after Close.
var ErrEngineClosed = errors.New("script: engine closed")

// Option configures an Engine.
type Option func(*Engine)

// WithErrorHandler sets the callback for failures inside Lua-bound
// handlers, which run long after the script itself has loaded.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onError = fn
	}
}

// Engine owns one sandboxed Lua state.
//
// gopher-lua states are not goroutine-safe; the mutex serializes
// script loading against handler callbacks arriving from the
// key-event goroutine.
type Engine struct {
	mu       sync.Mutex
	state    *lua.LState
	registry *shortcut.Registry
	cycler   *appearance.Cycler
	notes    *notify.Notifier
	handles  []*shortcut.Handle
	closed   bool
	onError  func(error)
}

// NewEngine creates a sandboxed engine bound to the given registry,
// cycler, and notifier.
func NewEngine(registry *shortcut.Registry, cycler *appearance.Cycler, notes *notify.Notifier, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		cycler:   cycler,
		notes:    notes,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// No loading code from disk or strings inside the sandbox.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"bind":   e.luaBind,
		"theme":  e.luaTheme,
		"notify": e.luaNotify,
	})
	L.SetGlobal("lectern", mod)

	e.state = L
	return e
}

// LoadFile executes the script at path.
func (e *Engine) LoadFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.recovered(func() error {
		return e.state.DoFile(path)
	})
}

// LoadString executes code directly. Used by tests.
func (e *Engine) LoadString(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	return e.recovered(func() error {
		return e.state.DoString(code)
	})
}

// Close disposes every binding the script registered and releases the
// Lua state. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	for _, h := range e.handles {
		h.Dispose()
	}
	e.handles = nil
	e.state.Close()
	return nil
}

// recovered runs fn converting a Lua runtime panic into an error.
func (e *Engine) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: lua panic: %v", r)
		}
	}()
	return fn()
}

// luaBind implements lectern.bind(keys, section, description, fn).
func (e *Engine) luaBind(L *lua.LState) int {
	keys := L.CheckString(1)
	section := L.CheckString(2)
	description := L.CheckString(3)
	fn := L.CheckFunction(4)

	handle, err := e.registry.Register([]shortcut.Binding{{
		Keys:        keys,
		Section:     shortcut.Section(section),
		Description: description,
		Handler:     e.callback(fn),
	}})
	if err != nil {
		L.RaiseError("bind %q: %v", keys, err)
		return 0
	}

	e.handles = append(e.handles, handle)
	return 0
}

// luaTheme implements lectern.theme(id). Returns false for an unknown
// theme instead of raising, matching how unknown themes are treated
// everywhere else.
func (e *Engine) luaTheme(L *lua.LState) int {
	id := L.CheckString(1)

	if err := e.cycler.Apply(appearance.ThemeID(id)); err != nil {
		e.onError(err)
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LTrue)
	return 1
}

// luaNotify implements lectern.notify(message).
func (e *Engine) luaNotify(L *lua.LState) int {
	e.notes.Info(L.CheckString(1))
	return 0
}

// callback wraps a Lua function as a shortcut handler. The handler
// arrives on the key-event goroutine, so it takes the engine lock
// before touching the Lua state.
func (e *Engine) callback(fn *lua.LFunction) shortcut.Handler {
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		if e.closed {
			return
		}
		err := e.recovered(func() error {
			return e.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
		})
		if err != nil {
			e.onError(fmt.Errorf("script: handler: %w", err))
		}
	}
}
