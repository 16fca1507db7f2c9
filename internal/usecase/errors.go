package usecase

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrConfiguration     = errors.New("assistant is not configured")
	ErrValidation        = errors.New("the given data was invalid")
	ErrStreamUnavailable = errors.New("assistant stream could not be opened")
)

// ValidationError carries per-field reasons keyed by field path, for example
// "messages.0.role".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
