package models

import "errors"

// Sentinel errors shared between the services, the stores and the HTTP layer.
// Callers wrap them with fmt.Errorf("...: %w", err) and the handlers dispatch
// on errors.Is.
var (
	// ErrValidation marks a request missing required fields.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks an operation against an unknown receipt id.
	ErrNotFound = errors.New("receipt not found")

	// ErrStoreUnavailable marks a record store that is closed or was never
	// configured.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrUpstream marks a failed call to the extraction model.
	ErrUpstream = errors.New("extraction service failed")
)
