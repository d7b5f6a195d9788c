// Package key defines the keyboard event model: keys, modifiers,
// single key events, and multi-key chords. Patterns are lowercase
// strings ("b", "ctrl+s", "up up down down left right left right b a")
// matching the names delivered by the host key-event source.
package key
