package storage

import "errors"

// Errors shared by the run stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a batch repeats a key already stored for the run.
	// Run logs are append-only.
	ErrDuplicateKey = errors.New("duplicate key: run logs are append-only")

	// ErrInvalidInput is returned when a run id or record key is missing.
	ErrInvalidInput = errors.New("invalid input")
)
