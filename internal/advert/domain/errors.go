package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUpstreamFailure  = errors.New("upstream failure")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCacheMiss        = errors.New("cache miss")
)

// InvalidParameterError names the offending query parameter.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q (%q): %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

func NewInvalidParameter(field, value, reason string) error {
	return &InvalidParameterError{Field: field, Value: value, Reason: reason}
}

// UpstreamError marks a store failure while keeping the driver error reachable.
func UpstreamError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamFailure, err)
}
