package core

import (
	"errors"
)

// Sentinel errors for the remote API failure taxonomy. The discord client
// classifies REST failures onto these so the engine can decide skip policy
// without inspecting HTTP responses.
var (
	// ErrForbidden means the account lacks permission for the operation
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the referenced entity vanished between fetch and use
	ErrNotFound = errors.New("not found")
	// ErrMissingDependency means a mapping lookup for a required parent entity came up empty
	ErrMissingDependency = errors.New("missing dependency")
)

// IsForbiddenError checks if an error is a permission failure
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingDependencyError checks if an error is a missing mapping dependency
func IsMissingDependencyError(err error) bool {
	return errors.Is(err, ErrMissingDependency)
}
