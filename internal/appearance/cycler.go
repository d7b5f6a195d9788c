package appearance

import (
	"math/rand"
)

// Preference keys written by the cycler.
const (
	PrefTheme = "appearance.theme"
	PrefMode  = "appearance.mode"
)

// Direction selects which catalog neighbor Next moves to.
type Direction int

const (
	// Forward advances to the next theme in catalog order.
	Forward Direction = iota

	// Backward moves to the previous theme.
	Backward
)

// delta returns the index step for the direction.
func (d Direction) delta() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Preferences is the subset of the preference store the cycler needs.
// Writes are fire-and-forget; the cycler never waits on persistence
// and never rolls back in-memory state on a persistence failure.
type Preferences interface {
	Set(key, value string)
}

// CyclerOption configures a Cycler.
type CyclerOption func(*Cycler)

// WithRandInt overrides the random source used by Random. The function
// must return a value in [0, n). Used by tests.
func WithRandInt(fn func(n int) int) CyclerOption {
	return func(c *Cycler) {
		c.randInt = fn
	}
}

// Cycler selects and applies themes and toggles the mode. It is the
// only component that mutates the shared appearance state.
type Cycler struct {
	catalog *Catalog
	state   *State
	prefs   Preferences
	randInt func(n int) int
}

// NewCycler creates a cycler over the given catalog and state.
func NewCycler(catalog *Catalog, state *State, prefs Preferences, opts ...CyclerOption) *Cycler {
	c := &Cycler{
		catalog: catalog,
		state:   state,
		prefs:   prefs,
		randInt: rand.Intn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Next advances from the current theme by one catalog position in the
// given direction, with wraparound, and applies the result.
func (c *Cycler) Next(dir Direction) (ThemeID, error) {
	current := c.state.Snapshot().Theme
	i := c.catalog.IndexOf(current)
	if i < 0 {
		// The invariant says the current theme is always a member;
		// recover from a violated invariant by restarting at the head.
		i = 0
	}

	n := c.catalog.Len()
	next := c.catalog.At((i + dir.delta() + n) % n).ID
	if err := c.Apply(next); err != nil {
		return "", err
	}
	return next, nil
}

// Random applies a theme selected uniformly among all catalog entries
// other than the current one. A single-entry catalog yields that entry.
func (c *Cycler) Random() (ThemeID, error) {
	current := c.state.Snapshot().Theme
	n := c.catalog.Len()

	pick := c.catalog.At(0).ID
	if n > 1 {
		for {
			pick = c.catalog.At(c.randInt(n)).ID
			if pick != current {
				break
			}
		}
	}

	if err := c.Apply(pick); err != nil {
		return "", err
	}
	return pick, nil
}

// Apply validates the theme id, updates the shared state, and persists
// the choice. On an unknown id the state is left unchanged and an
// UnknownThemeError is returned for the caller to log.
func (c *Cycler) Apply(id ThemeID) error {
	if !c.catalog.Contains(id) {
		return &UnknownThemeError{ID: id}
	}

	mode := c.state.Snapshot().Mode
	c.state.set(id, mode)
	c.prefs.Set(PrefTheme, string(id))
	return nil
}

// ToggleMode flips the mode between default and slate, persists it,
// and returns the new mode.
func (c *Cycler) ToggleMode() Mode {
	snap := c.state.Snapshot()
	mode := snap.Mode.Toggle()
	c.state.set(snap.Theme, mode)
	c.prefs.Set(PrefMode, string(mode))
	return mode
}

// Bootstrap installs preference-loaded values into the shared state
// without persisting them back. An unknown stored theme falls back to
// the catalog head; an invalid mode falls back to default. It returns
// the snapshot actually installed.
func (c *Cycler) Bootstrap(theme ThemeID, mode Mode) Snapshot {
	if !c.catalog.Contains(theme) {
		theme = c.catalog.At(0).ID
	}
	if !mode.IsValid() {
		mode = ModeDefault
	}
	c.state.set(theme, mode)
	return Snapshot{Theme: theme, Mode: mode}
}
