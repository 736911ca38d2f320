package entity

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrHashing      = errors.New("password hashing failed")
	ErrConnectivity = errors.New("store unreachable")
	ErrNotFound     = errors.New("not found")
)

// ValidationError carries per-field messages for a rejected UserInput.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Kind names the error class for logs. Callers never expose it to clients.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, ErrHashing):
		return "hashing"
	case errors.Is(err, ErrConnectivity):
		return "connectivity"
	default:
		return "internal"
	}
}
