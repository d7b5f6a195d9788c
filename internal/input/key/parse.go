package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptyPattern   = errors.New("empty key pattern")
	ErrInvalidPattern = errors.New("invalid key pattern")
)

// Parse parses a single key pattern into an Event.
//
// Supported formats:
//   - Single character: "a", "b", "1", "@"
//   - Special key names: "enter", "escape", "up", "pagedown", "f5"
//   - With modifiers: "ctrl+s", "alt+enter", "ctrl+shift+p"
//
// Names are case-insensitive; the canonical form is lowercase.
func Parse(pattern string) (Event, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return Event{}, ErrEmptyPattern
	}

	if !strings.Contains(pattern, "+") {
		return parseKey(pattern, ModNone)
	}

	parts := strings.Split(pattern, "+")

	// All but the last part are modifiers. A trailing "+" means the
	// key itself is the plus sign ("ctrl++").
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(modParts) > 0 {
		keyPart = "+"
		modParts = modParts[:len(modParts)-1]
	}

	var mods Modifier
	for _, p := range modParts {
		p = strings.TrimSpace(p)
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidPattern, p)
		}
		mods = mods.With(mod)
	}

	return parseKey(keyPart, mods)
}

// parseKey parses the key portion of a pattern with known modifiers.
func parseKey(part string, mods Modifier) (Event, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return Event{}, ErrInvalidPattern
	}

	if strings.EqualFold(part, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := FromName(part); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	if utf8.RuneCountInString(part) == 1 {
		r, _ := utf8.DecodeRuneInString(part)
		return NewRuneEvent(r, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidPattern, part)
}

// MustParse parses a key pattern and panics on error. Use only for
// known-valid patterns in initialization code.
func MustParse(pattern string) Event {
	event, err := Parse(pattern)
	if err != nil {
		panic("invalid key pattern: " + pattern + ": " + err.Error())
	}
	return event
}
