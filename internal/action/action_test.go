package action

import (
	"testing"

	"github.com/dshills/lectern/internal/appearance"
	"github.com/dshills/lectern/internal/notify"
)

type nullPrefs struct{}

func (nullPrefs) Set(string, string) {}

type recorder struct {
	routes  []string
	targets []string
	flips   int
	menus   int
	toggles int
}

func (r *recorder) Navigate(route string) { r.routes = append(r.routes, route) }
func (r *recorder) Focus(target string)   { r.targets = append(r.targets, target) }
func (r *recorder) ToggleOrientation()    { r.flips++ }
func (r *recorder) OpenMenu()             { r.menus++ }
func (r *recorder) ToggleVisible()        { r.toggles++ }

func newFixture(t *testing.T) (*Dispatcher, *appearance.State, *notify.Notifier) {
	t.Helper()

	catalog, err := appearance.NewCatalog([]appearance.Theme{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Beta"},
		{ID: "c", Name: "Gamma"},
	})
	if err != nil {
		t.Fatalf("NewCatalog error: %v", err)
	}

	state := appearance.NewState("a", appearance.ModeDefault)
	cycler := appearance.NewCycler(catalog, state, nullPrefs{})
	notes := notify.NewNotifier()
	return NewDispatcher(cycler, catalog, state, notes), state, notes
}

func TestNavigateAndFocus(t *testing.T) {
	d, _, _ := newFixture(t)
	rec := &recorder{}

	d.Navigate(rec, "/timetable")()
	d.Focus(rec, "search")()

	if len(rec.routes) != 1 || rec.routes[0] != "/timetable" {
		t.Errorf("routes = %v", rec.routes)
	}
	if len(rec.targets) != 1 || rec.targets[0] != "search" {
		t.Errorf("targets = %v", rec.targets)
	}
}

func TestUIHandlers(t *testing.T) {
	d, _, _ := newFixture(t)
	rec := &recorder{}

	d.ToggleOrientation(rec)()
	d.OpenDownloadMenu(rec)()
	d.ShowHelp(rec)()
	d.ShowHelp(rec)()

	if rec.flips != 1 || rec.menus != 1 || rec.toggles != 2 {
		t.Errorf("flips=%d menus=%d toggles=%d", rec.flips, rec.menus, rec.toggles)
	}
}

func TestCycleThemeAnnouncesNewTheme(t *testing.T) {
	d, state, notes := newFixture(t)

	var messages []string
	notes.Subscribe(func(n notify.Notice) {
		if !n.Overwritable {
			t.Error("theme notice must be overwritable")
		}
		messages = append(messages, n.Message)
	})

	d.CycleTheme(appearance.Forward)()

	if got := state.Snapshot().Theme; got != "b" {
		t.Errorf("theme = %q, want b", got)
	}
	if len(messages) != 1 || messages[0] != "Theme: Beta" {
		t.Errorf("messages = %v, want [Theme: Beta]", messages)
	}
}

func TestCycleThemeReadsLiveState(t *testing.T) {
	d, _, notes := newFixture(t)

	// The same closure invoked twice must announce two different
	// themes; the name comes from the state at notification time, not
	// from a value captured when the handler was built.
	cycle := d.CycleTheme(appearance.Forward)

	var messages []string
	notes.Subscribe(func(n notify.Notice) { messages = append(messages, n.Message) })

	cycle() // a → b, announce Beta
	cycle() // b → c, announce Gamma

	want := []string{"Theme: Beta", "Theme: Gamma"}
	if len(messages) != len(want) {
		t.Fatalf("messages = %v, want %v", messages, want)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("message[%d] = %q, want %q", i, messages[i], want[i])
		}
	}
}

func TestRandomThemeNeverAnnouncesCurrent(t *testing.T) {
	d, state, notes := newFixture(t)

	before := state.Snapshot().Theme
	var message string
	notes.Subscribe(func(n notify.Notice) { message = n.Message })

	d.RandomTheme()()

	after := state.Snapshot().Theme
	if after == before {
		t.Errorf("random theme stayed %q", after)
	}
	if message == "" || message == "Theme: Alpha" {
		t.Errorf("message = %q, want the new theme's name", message)
	}
}

func TestToggleNightMode(t *testing.T) {
	d, state, notes := newFixture(t)

	var messages []string
	notes.Subscribe(func(n notify.Notice) { messages = append(messages, n.Message) })

	d.ToggleNightMode()()
	if state.Snapshot().Mode != appearance.ModeSlate {
		t.Error("mode did not flip to slate")
	}

	d.ToggleNightMode()()
	if state.Snapshot().Mode != appearance.ModeDefault {
		t.Error("mode did not flip back")
	}

	want := []string{"Night mode on", "Night mode off"}
	if len(messages) != 2 || messages[0] != want[0] || messages[1] != want[1] {
		t.Errorf("messages = %v, want %v", messages, want)
	}
}
