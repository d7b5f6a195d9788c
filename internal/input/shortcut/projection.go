package shortcut

import (
	"strings"

	"github.com/dshills/lectern/internal/input/key"
)

// Group is one help listing section with its bindings.
type Group struct {
	Section  Section
	Bindings []Binding
}

// Project groups a binding snapshot by section for the help listing,
// preserving first-seen order of sections and of bindings within a
// section. It is a pure projection: the input is not mutated and the
// same snapshot always yields the same grouping.
func Project(bindings []Binding) []Group {
	index := make(map[Section]int)
	groups := make([]Group, 0)

	for _, b := range bindings {
		i, ok := index[b.Section]
		if !ok {
			i = len(groups)
			index[b.Section] = i
			groups = append(groups, Group{Section: b.Section})
		}
		groups[i].Bindings = append(groups[i].Bindings, b)
	}
	return groups
}

// FormatShortcut renders a binding's pattern as human text: a single
// pattern capitalizes its key name ("X", "Up", "Ctrl+S"), a chord shows
// its presses space-separated, and alternates join with " or "
// ("Up or Down"). Unparseable patterns fall back to the raw string.
func FormatShortcut(b Binding) string {
	if len(b.Alternates) > 0 {
		parts := make([]string, 0, len(b.Alternates))
		for _, alt := range b.Alternates {
			parts = append(parts, displayPattern(alt))
		}
		return strings.Join(parts, " or ")
	}
	return displayPattern(b.Keys)
}

func displayPattern(pattern string) string {
	chord, err := key.ParseChord(pattern)
	if err != nil {
		return pattern
	}
	return chord.Display()
}
