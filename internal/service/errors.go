// Package service provides business logic implementation for the application.
package service

import (
	"errors"
	"fmt"
)

// The routing pipelines fail closed with a specific error kind at the first
// broken link so callers can distinguish credit, access, configuration and
// provider failures.
var (
	ErrValidation            = errors.New("validation error")
	ErrAccessDenied          = errors.New("access denied")
	ErrInsufficientCredit    = errors.New("insufficient credit")
	ErrUnroutableDestination = errors.New("destination matches no chatroom")
	ErrNotFound              = errors.New("not found")
	ErrProviderFailure       = errors.New("provider failure")
	ErrProviderTimeout       = errors.New("provider timeout")
)

// IncompleteRoutingError names the first missing link in the ownership chain.
type IncompleteRoutingError struct {
	Link string
}

func (e *IncompleteRoutingError) Error() string {
	return fmt.Sprintf("incomplete routing: %s", e.Link)
}

// IsIncompleteRouting reports whether err is a chain-resolution failure.
func IsIncompleteRouting(err error) bool {
	var ire *IncompleteRoutingError
	return errors.As(err, &ire)
}
