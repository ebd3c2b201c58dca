package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means the row changed since it was read: the revision no
	// longer matches or the status guard failed.
	ErrConflict = errors.New("record was modified concurrently")
)
