// Package domain holds the sentinel errors shared by all services. Services
// wrap them as "detail: sentinel"; transports map them to status codes.
package domain

import "errors"

var (
	// ErrNotFound marks a lookup for an entity the registry does not know.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a request payload that failed domain validation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an operation that lost a race with another request.
	ErrConflict = errors.New("conflict: resource was modified by another request")

	// ErrUnavailable marks a dependency, such as the docker engine or the
	// catalog store, that is not reachable right now.
	ErrUnavailable = errors.New("unavailable")
)
