package domain

import "errors"

var (
	// ErrThreadNotFound is returned when a thread id does not exist.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrThreadExists is returned when creating a thread with an id
	// that is already taken.
	ErrThreadExists = errors.New("thread already exists")
)
