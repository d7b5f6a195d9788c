package shortcut

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration failures.
var (
	// ErrRegistryClosed is returned when registering on a registry
	// that has been globally torn down.
	ErrRegistryClosed = errors.New("shortcut: registry closed")

	// ErrDuplicateBinding matches any DuplicateBindingError via
	// errors.Is.
	ErrDuplicateBinding = errors.New("shortcut: duplicate binding")
)

// DuplicateBindingError reports a registration that conflicts with a
// pattern already held by a still-active handle (or earlier in the
// same batch). The conflicting binding is not installed; the rest of
// the batch still registers.
type DuplicateBindingError struct {
	// Pattern is the canonical form of the conflicting pattern.
	Pattern string
}

// Error implements the error interface.
func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("shortcut: duplicate binding %q", e.Pattern)
}

// Is reports whether target is ErrDuplicateBinding.
func (e *DuplicateBindingError) Is(target error) bool {
	return target == ErrDuplicateBinding
}
