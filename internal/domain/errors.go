package domain

import "errors"

// Error taxonomy shared across the store, asset store, and service layers.
// The HTTP boundary maps these to status codes with errors.Is; anything
// that does not match one of them is an internal failure.
var (
	// ErrNotFound covers unknown item ids and missing stored assets.
	ErrNotFound = errors.New("not found")

	// ErrNameRequired is returned when a create request has no usable name.
	ErrNameRequired = errors.New("name is required")

	// ErrInvalidFilename is returned when an uploaded filename sanitizes to
	// nothing, or when a stored name would escape the upload root.
	ErrInvalidFilename = errors.New("invalid filename")
)
