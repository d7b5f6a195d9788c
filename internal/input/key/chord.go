package key

import (
	"strings"
)

// Chord is an ordered series of key events that must occur in order to
// trigger a handler, e.g. "g g" or the classic
// "up up down down left right left right b a".
type Chord []Event

// ParseChord parses a space-delimited chord pattern. A pattern without
// spaces yields a single-event chord.
func ParseChord(pattern string) (Chord, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	fields := strings.Fields(pattern)
	chord := make(Chord, 0, len(fields))
	for _, f := range fields {
		event, err := Parse(f)
		if err != nil {
			return nil, err
		}
		chord = append(chord, event)
	}
	return chord, nil
}

// MustParseChord parses a chord pattern and panics on error.
func MustParseChord(pattern string) Chord {
	chord, err := ParseChord(pattern)
	if err != nil {
		panic("invalid chord pattern: " + pattern + ": " + err.Error())
	}
	return chord
}

// Len returns the number of events in the chord.
func (c Chord) Len() int { return len(c) }

// Equals returns true if two chords are identical press for press.
func (c Chord) Equals(other Chord) bool {
	if len(c) != len(other) {
		return false
	}
	for i, e := range c {
		if !e.Equals(other[i]) {
			return false
		}
	}
	return true
}

// MatchesSuffix returns true if the chord equals the trailing events of
// the given buffer.
func (c Chord) MatchesSuffix(buffer []Event) bool {
	if len(c) == 0 || len(buffer) < len(c) {
		return false
	}
	return c.Equals(Chord(buffer[len(buffer)-len(c):]))
}

// HasPrefix returns true if the chord starts with the given events.
func (c Chord) HasPrefix(events []Event) bool {
	if len(events) > len(c) {
		return false
	}
	for i, e := range events {
		if !c[i].Equals(e) {
			return false
		}
	}
	return true
}

// Spec returns the canonical pattern form, events joined by spaces.
func (c Chord) Spec() string {
	parts := make([]string, len(c))
	for i, e := range c {
		parts[i] = e.Spec()
	}
	return strings.Join(parts, " ")
}

// Display returns the human-readable form, e.g.
// "Up Up Down Down Left Right Left Right B A".
func (c Chord) Display() string {
	parts := make([]string, len(c))
	for i, e := range c {
		parts[i] = e.Display()
	}
	return strings.Join(parts, " ")
}
