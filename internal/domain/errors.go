package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrConflict                = errors.New("conflict")
	ErrValidation              = errors.New("validation failed")
	ErrInvalidDate             = errors.New("invalid date")
	ErrMaximumCapacityExceeded = errors.New("guest quantity over room capacity")
	ErrGeocodingUnavailable    = errors.New("geocoding service unavailable")
)

// InvalidDateError names the offending field and its raw value. Reason is
// set when the text is well formed but still not a usable date.
type InvalidDateError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s date %q: %s", e.Field, e.Raw, e.Reason)
	}
	return fmt.Sprintf("invalid %s date %q: expected dd/MM/yyyy HH:mm:ss", e.Field, e.Raw)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// ValidationError lists per-field DTO problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
