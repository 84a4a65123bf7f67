package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown storage or bus backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Capture Errors.

	// ErrNoProjectContext indicates a capture could not be attributed to a project.
	// Callers treat it as a normal no-op (the user is not on a project page).
	ErrNoProjectContext = errors.New("no project context")

	// ErrCrossOrigin indicates a capture envelope came from a foreign origin.
	ErrCrossOrigin = errors.New("cross-origin capture rejected")

	// ErrUnknownMessage indicates a capture envelope carried an unexpected type tag.
	ErrUnknownMessage = errors.New("unknown capture message")

	// ErrInvalidPayload indicates a response body was not valid JSON.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrServiceClosed indicates the capture service has been shut down.
	ErrServiceClosed = errors.New("service closed")

	// Storage Errors.

	// ErrStorageUnavailable indicates the key-value store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
