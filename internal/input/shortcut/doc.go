// Package shortcut implements the global keyboard shortcut registry:
// a live table of key-pattern bindings serving both action dispatch and
// the grouped help listing. Bindings are registered in batches owned by
// a Handle; disposing a handle removes exactly that batch and no
// handler owned by it fires afterwards.
//
// Single-key patterns match on every keypress independent of chord
// state. Multi-key chords are matched against one shared rolling buffer
// of recent presses; a match fires the handler and clears the buffer,
// while non-matching presses slide the oldest entries out rather than
// resetting, so overlapping prefixes are not penalized.
package shortcut
