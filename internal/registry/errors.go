package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every ResolutionError.
var ErrNotFound = errors.New("export not found")

// ResolutionError reports an identifier that no catalog exports.
type ResolutionError struct {
	ID string
}

func (e *ResolutionError) Error() string {
	if e.ID == "" {
		return "resolve: empty identifier: " + ErrNotFound.Error()
	}
	return fmt.Sprintf("resolve %s: %v", e.ID, ErrNotFound)
}

func (e *ResolutionError) Unwrap() error {
	return ErrNotFound
}
