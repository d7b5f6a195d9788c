package appearance

import (
	"errors"
	"sync"
	"testing"
)

// memPrefs records fire-and-forget writes for assertions.
type memPrefs struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemPrefs() *memPrefs {
	return &memPrefs{values: make(map[string]string)}
}

func (p *memPrefs) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

func (p *memPrefs) get(key string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[key]
}

func testCatalog(t *testing.T, ids ...string) *Catalog {
	t.Helper()
	themes := make([]Theme, 0, len(ids))
	for _, id := range ids {
		themes = append(themes, Theme{ID: ThemeID(id), Name: id})
	}
	c, err := NewCatalog(themes)
	if err != nil {
		t.Fatalf("NewCatalog error: %v", err)
	}
	return c
}

func TestNextWraparoundScenario(t *testing.T) {
	catalog := testCatalog(t, "A", "B", "C")
	state := NewState("B", ModeDefault)
	cycler := NewCycler(catalog, state, newMemPrefs())

	steps := []struct {
		dir  Direction
		want ThemeID
	}{
		{Forward, "C"},
		{Forward, "A"}, // wraparound
		{Backward, "C"},
	}

	for _, step := range steps {
		got, err := cycler.Next(step.dir)
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		if got != step.want {
			t.Errorf("Next = %q, want %q", got, step.want)
		}
		if state.Snapshot().Theme != step.want {
			t.Errorf("state.Theme = %q, want %q", state.Snapshot().Theme, step.want)
		}
	}
}

func TestNextForwardBackwardInverse(t *testing.T) {
	catalog := testCatalog(t, "A", "B", "C", "D")
	for i := 0; i < catalog.Len(); i++ {
		start := catalog.At(i).ID
		state := NewState(start, ModeDefault)
		cycler := NewCycler(catalog, state, newMemPrefs())

		if _, err := cycler.Next(Forward); err != nil {
			t.Fatalf("Next(Forward) error: %v", err)
		}
		if _, err := cycler.Next(Backward); err != nil {
			t.Fatalf("Next(Backward) error: %v", err)
		}
		if got := state.Snapshot().Theme; got != start {
			t.Errorf("start %q: forward then backward = %q, want %q", start, got, start)
		}
	}
}

func TestNextVisitsEveryThemeOnce(t *testing.T) {
	catalog := testCatalog(t, "A", "B", "C", "D", "E")
	state := NewState("C", ModeDefault)
	cycler := NewCycler(catalog, state, newMemPrefs())

	seen := make(map[ThemeID]int)
	for i := 0; i < catalog.Len(); i++ {
		id, err := cycler.Next(Forward)
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		seen[id]++
	}

	if len(seen) != catalog.Len() {
		t.Errorf("visited %d distinct themes, want %d", len(seen), catalog.Len())
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("theme %q visited %d times, want 1", id, count)
		}
	}
	if got := state.Snapshot().Theme; got != "C" {
		t.Errorf("full cycle ends at %q, want C", got)
	}
}

func TestRandomNeverReturnsCurrent(t *testing.T) {
	catalog := testCatalog(t, "A", "B", "C")
	state := NewState("A", ModeDefault)

	// Force the first pick to collide with the current theme; the
	// cycler must retry rather than return it.
	picks := []int{0, 2}
	cycler := NewCycler(catalog, state, newMemPrefs(), WithRandInt(func(n int) int {
		pick := picks[0]
		if len(picks) > 1 {
			picks = picks[1:]
		}
		return pick
	}))

	got, err := cycler.Random()
	if err != nil {
		t.Fatalf("Random error: %v", err)
	}
	if got != "C" {
		t.Errorf("Random = %q, want C", got)
	}

	// Property check with the real source.
	cycler = NewCycler(catalog, state, newMemPrefs())
	for i := 0; i < 100; i++ {
		current := state.Snapshot().Theme
		got, err := cycler.Random()
		if err != nil {
			t.Fatalf("Random error: %v", err)
		}
		if got == current {
			t.Fatalf("Random returned the current theme %q", current)
		}
	}
}

func TestRandomSingleThemeCatalog(t *testing.T) {
	catalog := testCatalog(t, "only")
	state := NewState("only", ModeDefault)
	cycler := NewCycler(catalog, state, newMemPrefs())

	got, err := cycler.Random()
	if err != nil {
		t.Fatalf("Random error: %v", err)
	}
	if got != "only" {
		t.Errorf("Random = %q, want only", got)
	}
}

func TestApplyPersistsAndNotifies(t *testing.T) {
	catalog := testCatalog(t, "A", "B")
	state := NewState("A", ModeDefault)
	prefs := newMemPrefs()
	cycler := NewCycler(catalog, state, prefs)

	var notified []Snapshot
	sub := state.Subscribe(func(snap Snapshot) {
		notified = append(notified, snap)
	})
	defer sub.Unsubscribe()

	if err := cycler.Apply("B"); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if got := prefs.get(PrefTheme); got != "B" {
		t.Errorf("persisted theme = %q, want B", got)
	}
	if len(notified) != 1 || notified[0].Theme != "B" {
		t.Errorf("notified = %+v, want one snapshot with theme B", notified)
	}
}

func TestApplyUnknownTheme(t *testing.T) {
	catalog := testCatalog(t, "A", "B")
	state := NewState("A", ModeDefault)
	prefs := newMemPrefs()
	cycler := NewCycler(catalog, state, prefs)

	err := cycler.Apply("nope")
	if !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("error = %v, want ErrUnknownTheme", err)
	}
	var unknown *UnknownThemeError
	if !errors.As(err, &unknown) || unknown.ID != "nope" {
		t.Errorf("UnknownThemeError.ID = %v, want nope", unknown)
	}

	if got := state.Snapshot().Theme; got != "A" {
		t.Errorf("state changed on unknown theme: %q, want A", got)
	}
	if got := prefs.get(PrefTheme); got != "" {
		t.Errorf("unknown theme persisted: %q", got)
	}
}

func TestToggleModeInvolution(t *testing.T) {
	catalog := testCatalog(t, "A")
	state := NewState("A", ModeDefault)
	prefs := newMemPrefs()
	cycler := NewCycler(catalog, state, prefs)

	if got := cycler.ToggleMode(); got != ModeSlate {
		t.Errorf("first toggle = %q, want slate", got)
	}
	if got := prefs.get(PrefMode); got != "slate" {
		t.Errorf("persisted mode = %q, want slate", got)
	}

	if got := cycler.ToggleMode(); got != ModeDefault {
		t.Errorf("second toggle = %q, want default", got)
	}
	if got := state.Snapshot().Mode; got != ModeDefault {
		t.Errorf("mode after double toggle = %q, want default", got)
	}
}

func TestBootstrapFallbacks(t *testing.T) {
	catalog := testCatalog(t, "A", "B")
	state := NewState("A", ModeDefault)
	prefs := newMemPrefs()
	cycler := NewCycler(catalog, state, prefs)

	tests := []struct {
		name      string
		theme     ThemeID
		mode      Mode
		wantTheme ThemeID
		wantMode  Mode
	}{
		{"stored values valid", "B", ModeSlate, "B", ModeSlate},
		{"unknown theme falls back to head", "gone", ModeSlate, "A", ModeSlate},
		{"invalid mode falls back to default", "B", Mode("neon"), "B", ModeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := cycler.Bootstrap(tt.theme, tt.mode)
			if snap.Theme != tt.wantTheme || snap.Mode != tt.wantMode {
				t.Errorf("Bootstrap = %+v, want {%s %s}", snap, tt.wantTheme, tt.wantMode)
			}
		})
	}

	// Bootstrap reflects stored values; it does not write them back.
	if len(prefs.values) != 0 {
		t.Errorf("Bootstrap persisted values: %v", prefs.values)
	}
}
