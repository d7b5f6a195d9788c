// Package appearance owns the theme catalog, the shared appearance
// state (current theme and mode), and the cycler that is the only
// component allowed to mutate that state. The catalog order is
// significant: it defines cyclic adjacency for next/previous.
package appearance
