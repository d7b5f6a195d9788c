package appearance

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ThemeID identifies a theme in the catalog.
type ThemeID string

// Theme is one catalog entry. Entries are immutable after load.
type Theme struct {
	// ID is the stable identifier persisted in preferences.
	ID ThemeID `yaml:"id"`

	// Name is the display name shown in notifications.
	Name string `yaml:"name"`

	// Accent is the theme's accent color as a hex string ("#1b6ca8").
	Accent string `yaml:"accent"`
}

// Catalog is the fixed ordered list of themes loaded at startup.
type Catalog struct {
	themes []Theme
	index  map[ThemeID]int
}

// NewCatalog builds a catalog from an ordered theme list. It rejects
// empty catalogs, duplicate ids, blank ids or names, and accent values
// that are not valid hex colors.
func NewCatalog(themes []Theme) (*Catalog, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("appearance: catalog must contain at least one theme")
	}

	c := &Catalog{
		themes: make([]Theme, len(themes)),
		index:  make(map[ThemeID]int, len(themes)),
	}
	copy(c.themes, themes)

	for i, th := range c.themes {
		if th.ID == "" {
			return nil, fmt.Errorf("appearance: theme %d: empty id", i)
		}
		if th.Name == "" {
			return nil, fmt.Errorf("appearance: theme %q: empty name", th.ID)
		}
		if _, exists := c.index[th.ID]; exists {
			return nil, fmt.Errorf("appearance: duplicate theme id %q", th.ID)
		}
		if th.Accent != "" {
			if _, err := colorful.Hex(th.Accent); err != nil {
				return nil, fmt.Errorf("appearance: theme %q: accent %q: %w", th.ID, th.Accent, err)
			}
		}
		c.index[th.ID] = i
	}

	return c, nil
}

// catalogFile is the YAML structure for theme catalog files.
type catalogFile struct {
	Themes []Theme `yaml:"themes"`
}

// ParseCatalog parses a YAML theme catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("appearance: decoding catalog: %w", err)
	}
	return NewCatalog(file.Themes)
}

// LoadCatalog loads a theme catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("appearance: reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in theme list used when no catalog
// file is configured.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Theme{
		{ID: "ocean", Name: "Ocean", Accent: "#1b6ca8"},
		{ID: "forest", Name: "Forest", Accent: "#2e7d32"},
		{ID: "ember", Name: "Ember", Accent: "#c0392b"},
		{ID: "plum", Name: "Plum", Accent: "#6c3483"},
		{ID: "graphite", Name: "Graphite", Accent: "#566573"},
	})
	if err != nil {
		panic("appearance: invalid default catalog: " + err.Error())
	}
	return c
}

// Len returns the number of themes.
func (c *Catalog) Len() int { return len(c.themes) }

// Themes returns a copy of the ordered theme list.
func (c *Catalog) Themes() []Theme {
	out := make([]Theme, len(c.themes))
	copy(out, c.themes)
	return out
}

// At returns the theme at the given index.
func (c *Catalog) At(i int) Theme { return c.themes[i] }

// ByID returns the theme with the given id.
func (c *Catalog) ByID(id ThemeID) (Theme, bool) {
	i, ok := c.index[id]
	if !ok {
		return Theme{}, false
	}
	return c.themes[i], true
}

// IndexOf returns the position of a theme id, or -1 if absent.
func (c *Catalog) IndexOf(id ThemeID) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// Contains reports whether the id is a catalog member.
func (c *Catalog) Contains(id ThemeID) bool {
	_, ok := c.index[id]
	return ok
}
