// Package util provides utility functions and types for the route registry.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrNotFound.
//   - Structured error types for context-rich errors that carry
//     additional fields (e.g., RouteNotFoundError, ConfigError). Each type
//     implements Error(), Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// All custom error types must implement:
//
//	Error() string           – human-readable message
//	Unwrap() error           – if the type wraps another error
//	Is(target error) bool    – for errors.Is() compatibility
package util

import (
	"errors"
	"fmt"
)

// Common sentinel errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDefinition = errors.New("invalid route definition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConfigInvalid     = errors.New("invalid configuration")
)

// RouteNotFoundError reports that no route definition with the given id
// is stored.
type RouteNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("route definition not found: %s", e.ID)
}

// Is checks if the error matches the target.
func (e *RouteNotFoundError) Is(target error) bool {
	if target == ErrNotFound {
		return true
	}
	_, ok := target.(*RouteNotFoundError)
	return ok
}

// NewRouteNotFoundError creates a new RouteNotFoundError.
func NewRouteNotFoundError(id string) *RouteNotFoundError {
	return &RouteNotFoundError{ID: id}
}

// InvalidDefinitionError reports a route definition that cannot be stored.
type InvalidDefinitionError struct {
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *InvalidDefinitionError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid route definition %q: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("invalid route definition: %s", e.Reason)
}

// Is checks if the error matches the target.
func (e *InvalidDefinitionError) Is(target error) bool {
	if target == ErrInvalidDefinition {
		return true
	}
	_, ok := target.(*InvalidDefinitionError)
	return ok
}

// NewInvalidDefinitionError creates a new InvalidDefinitionError.
func NewInvalidDefinitionError(id, reason string) *InvalidDefinitionError {
	return &InvalidDefinitionError{ID: id, Reason: reason}
}

// ConfigError represents a configuration-related error.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error at %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok || errors.Is(e.Cause, target)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Fields  map[string]string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s (fields: %v)", e.Message, e.Fields)
}

// Is checks if the error matches the target.
func (e *ValidationError) Is(target error) bool {
	if target == ErrConfigInvalid {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string]string)}
}

// AddField adds a field error.
func (e *ValidationError) AddField(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsClientError returns true if the error was caused by the caller's input
// rather than by the service.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotFound) {
		return true
	}

	if errors.Is(err, ErrInvalidDefinition) {
		return true
	}

	return errors.Is(err, ErrInvalidInput)
}
