package todo

import "errors"

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidInput is returned for unusable user input, such as an
	// empty task description.
	ErrInvalidInput = errors.New("invalid input")
)
