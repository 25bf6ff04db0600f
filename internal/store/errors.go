package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")
	// ErrStaleState is returned by compare-and-swap writes when the row no longer holds the expected state.
	ErrStaleState = errors.New("stale state")
)
