package key

import (
	"strings"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Time is when the event occurred. It is used to expire stale
	// entries from the chord buffer and is ignored by Equals.
	Time time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Time:      time.Now(),
	}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Time:      time.Now(),
	}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Time:      time.Now(),
	}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Equals returns true if two events represent the same key press with
// the same exact modifier set. Timestamps are not compared. For
// character events, runes are compared case-insensitively and Shift is
// ignored since the shifted character already encodes it.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key {
		return false
	}
	if e.IsRune() {
		if unicode.ToLower(e.Rune) != unicode.ToLower(other.Rune) {
			return false
		}
		return e.Modifiers.Without(ModShift) == other.Modifiers.Without(ModShift)
	}
	return e.Modifiers == other.Modifiers
}

// Spec returns the canonical lowercase pattern form of the event,
// e.g. "b", "ctrl+s", "up". It round-trips through Parse and is used
// as the identity for duplicate-binding detection.
func (e Event) Spec() string {
	var parts []string
	if e.Modifiers.HasCtrl() {
		parts = append(parts, "ctrl")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "alt")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "meta")
	}
	if e.Modifiers.HasShift() && !e.IsRune() {
		parts = append(parts, "shift")
	}

	switch {
	case e.IsRune():
		if e.Rune == ' ' {
			parts = append(parts, "space")
		} else {
			parts = append(parts, string(unicode.ToLower(e.Rune)))
		}
	default:
		parts = append(parts, e.Key.Name())
	}

	return strings.Join(parts, "+")
}

// Display returns a human-readable form of the event for the help
// listing: the key name with its first letter capitalized, prefixed by
// any modifier names, e.g. "B", "Up", "Ctrl+S".
func (e Event) Display() string {
	var parts []string
	if mods := e.Modifiers.Without(ModShift); !mods.IsEmpty() || (!e.IsRune() && e.Modifiers.HasShift()) {
		if e.IsRune() {
			parts = append(parts, mods.String())
		} else {
			parts = append(parts, e.Modifiers.String())
		}
	}

	switch {
	case e.IsRune():
		if e.Rune == ' ' {
			parts = append(parts, "Space")
		} else {
			parts = append(parts, strings.ToUpper(string(e.Rune)))
		}
	default:
		parts = append(parts, e.Key.String())
	}

	return strings.Join(parts, "+")
}

// String returns the display form.
func (e Event) String() string {
	return e.Display()
}
