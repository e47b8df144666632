package errors

import "errors"

var (
	ErrNotFound       = errors.New("notification not found")
	ErrInvalidID      = errors.New("invalid notification ID format")
	ErrDuplicateEvent = errors.New("notification for event already exists")
)
