package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrHotelNotFound        = errors.New("hotel not found")
	ErrInvalidLink          = errors.New("guest link is invalid or has already been used")
	ErrNotConfirmed         = errors.New("booking is not confirmed")
	ErrInvalidTransition    = errors.New("status transition is not allowed")
	ErrConflict             = errors.New("booking was changed by someone else")
	ErrSubmissionInProgress = errors.New("a submission for this booking is already in progress")
)

// ValidationError carries one message per failing field, keyed by the json
// path of the field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UploadError reports which document of a guest submission could not be
// stored.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
