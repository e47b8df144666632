package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStatusChanged means a conditional update lost a race with another writer.
	ErrStatusChanged = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("vehicle lock is held by another request")

	ErrLockTimeout = errors.New("timed out waiting for vehicle lock")
)
