package font

import (
	"fmt"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/rotisserie/eris"
)

var (
	// ErrFontNotFound is returned when a preset key isn't registered.
	ErrFontNotFound = eris.New("font preset not found")

	// ErrCannotFindFont is returned when a marker asks for the default preset and no default
	// exists.
	ErrCannotFindFont = eris.New("font not specified and no default font set")

	// ErrDuplicateFont is returned when registering a key that is already registered.
	ErrDuplicateFont = eris.New("font preset already registered")

	// ErrInvalidPreset is returned when a preset fails validation.
	ErrInvalidPreset = eris.New("invalid font preset")
)

// FontError reports a failure to style a text entity.
type FontError struct {
	Entity ecs.EntityID
	Key    string
	Err    error
}

func (e *FontError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("unable to style text %d with the default font: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("unable to style text %d with font %q: %v", e.Entity, e.Key, e.Err)
}

func (e *FontError) Unwrap() error {
	return e.Err
}
