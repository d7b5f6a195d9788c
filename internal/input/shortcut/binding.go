package shortcut

import (
	"fmt"

	"github.com/dshills/lectern/internal/input/key"
)

// Section groups bindings for the help listing. The order sections
// first appear in a registration batch defines their display order.
type Section string

// Known sections. The set is open; views may introduce their own.
const (
	SectionNavigation Section = "Navigation"
	SectionAppearance Section = "Appearance"
	SectionTimetable  Section = "Timetable"
)

// Handler is the action invoked when a binding's pattern matches. It
// runs synchronously on the key-event thread and may itself register
// or dispose bindings.
type Handler func()

// Binding associates a key pattern with a display section, a human
// description, and a handler.
type Binding struct {
	// Keys is the key pattern: a single pattern ("t", "ctrl+s") or a
	// space-delimited chord ("up up down down left right left right b a").
	Keys string

	// Alternates lists alternative single-key patterns that all
	// trigger the handler and render as one help row joined with
	// " or " (e.g. "Up or Down"). When set, Keys is unused.
	Alternates []string

	// Section is the help listing group.
	Section Section

	// Description documents the binding for the help listing.
	Description string

	// Handler is invoked on a match.
	Handler Handler
}

// patterns returns the raw pattern strings this binding installs.
func (b Binding) patterns() []string {
	if len(b.Alternates) > 0 {
		return b.Alternates
	}
	return []string{b.Keys}
}

// compiled is one installed match entry derived from a binding pattern.
type compiled struct {
	// spec is the canonical pattern form used for duplicate detection.
	spec string

	// event is set for single-key patterns.
	event key.Event

	// chord is set for multi-key patterns; nil for single keys.
	chord key.Chord
}

// compile parses every pattern of a binding.
func compile(b Binding) ([]compiled, error) {
	raw := b.patterns()
	out := make([]compiled, 0, len(raw))
	for _, pattern := range raw {
		chord, err := key.ParseChord(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if chord.Len() == 1 {
			out = append(out, compiled{spec: chord.Spec(), event: chord[0]})
			continue
		}
		out = append(out, compiled{spec: chord.Spec(), chord: chord})
	}
	return out, nil
}
