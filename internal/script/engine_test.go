package script

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/input/key"
	"github.com/dshills/lectern/internal/input/shortcut"
	"github.com/dshills/lectern/internal/notify"
)

type nullPrefs struct{}

func (nullPrefs) Set(string, string) {}

func newEngine(t *testing.T) (*Engine, *shortcut.Registry, *appearance.State, *notify.Notifier) {
	t.Helper()

	catalog, err := appearance.NewCatalog([]appearance.Theme{
		{ID: "ocean", Name: "Ocean"},
		{ID: "ember", Name: "Ember"},
	})
	if err != nil {
		t.Fatalf("NewCatalog error: %v", err)
	}

	state := appearance.NewState("ocean", appearance.ModeDefault)
	cycler := appearance.NewCycler(catalog, state, nullPrefs{})
	registry := shortcut.NewRegistry()
	notes := notify.NewNotifier()

	engine := NewEngine(registry, cycler, notes)
	t.Cleanup(func() { engine.Close() })
	return engine, registry, state, notes
}

func TestBindRegistersWorkingHandler(t *testing.T) {
	engine, registry, _, notes := newEngine(t)

	var messages []string
	notes.Subscribe(func(n notify.Notice) { messages = append(messages, n.Message) })

	err := engine.LoadString(`
		lectern.bind("ctrl+g", "Navigation", "Greet", function()
			lectern.notify("hello from lua")
		end)
	`)
	if err != nil {
		t.Fatalf("LoadString error: %v", err)
	}

	if !registry.HandleKey(key.MustParse("ctrl+g")) {
		t.Fatal("bound key did not dispatch")
	}
	if len(messages) != 1 || messages[0] != "hello from lua" {
		t.Errorf("messages = %v", messages)
	}
}

func TestThemeAppliesAndRejectsUnknown(t *testing.T) {
	engine, _, state, _ := newEngine(t)

	err := engine.LoadString(`
		ok = lectern.theme("ember")
		bad = lectern.theme("neon")
	`)
	if err != nil {
		t.Fatalf("LoadString error: %v", err)
	}

	if got := state.Snapshot().Theme; got != "ember" {
		t.Errorf("theme = %q, want ember", got)
	}
	if engine.state.GetGlobal("ok") != lua.LTrue {
		t.Error("theme(ember) returned false")
	}
	if engine.state.GetGlobal("bad") != lua.LFalse {
		t.Error("theme(neon) returned true")
	}
}

func TestCloseDisposesBindings(t *testing.T) {
	engine, registry, _, notes := newEngine(t)

	calls := 0
	notes.Subscribe(func(notify.Notice) { calls++ })

	err := engine.LoadString(`
		lectern.bind("x", "Navigation", "X", function()
			lectern.notify("x")
		end)
	`)
	if err != nil {
		t.Fatalf("LoadString error: %v", err)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}

	if registry.HandleKey(key.MustParse("x")) {
		t.Error("disposed binding still dispatched")
	}
	if calls != 0 {
		t.Errorf("handler ran %d times after Close", calls)
	}

	if err := engine.LoadString("x = 1"); err != ErrEngineClosed {
		t.Errorf("LoadString after Close = %v, want ErrEngineClosed", err)
	}
}

func TestSandboxBlocksLoading(t *testing.T) {
	engine, _, _, _ := newEngine(t)

	for _, code := range []string{
		`dofile("/etc/passwd")`,
		`loadfile("x.lua")`,
		`load("return 1")`,
	} {
		if err := engine.LoadString(code); err == nil {
			t.Errorf("%s succeeded inside sandbox", code)
		}
	}
}

func TestScriptErrorSurfaces(t *testing.T) {
	engine, _, _, _ := newEngine(t)

	if err := engine.LoadString("this is not lua"); err == nil {
		t.Error("expected a parse error")
	}
}

func TestDuplicateBindRaises(t *testing.T) {
	engine, registry, _, _ := newEngine(t)

	if _, err := registry.Register([]shortcut.Binding{{
		Keys:        "ctrl+d",
		Section:     shortcut.SectionNavigation,
		Description: "Taken",
		Handler:     func() {},
	}}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	err := engine.LoadString(`
		lectern.bind("ctrl+d", "Navigation", "Dup", function() end)
	`)
	if err == nil {
		t.Error("expected duplicate binding to raise")
	}
}
