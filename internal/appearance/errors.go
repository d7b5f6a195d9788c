package appearance

import (
	"errors"
	"fmt"
)

// ErrUnknownTheme matches any UnknownThemeError via errors.Is.
var ErrUnknownTheme = errors.New("appearance: unknown theme")

// UnknownThemeError reports an apply or cycle request for a theme id
// absent from the catalog. The appearance state is left unchanged.
type UnknownThemeError struct {
	ID ThemeID
}

// Error implements the error interface.
func (e *UnknownThemeError) Error() string {
	return fmt.Sprintf("appearance: unknown theme %q", e.ID)
}

// Is reports whether target is ErrUnknownTheme.
func (e *UnknownThemeError) Is(target error) bool {
	return target == ErrUnknownTheme
}
