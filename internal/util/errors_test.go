package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("r1")

	assert.Equal(t, "route definition not found: r1", err.Error())
	assert.Equal(t, "r1", err.ID)
}

func TestRouteNotFoundError_Is(t *testing.T) {
	t.Parallel()

	err := NewRouteNotFoundError("r1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, &RouteNotFoundError{}))
	assert.False(t, errors.Is(err, ErrInvalidDefinition))

	wrapped := fmt.Errorf("delete: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var target *RouteNotFoundError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "r1", target.ID)
}

func TestInvalidDefinitionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		id             string
		reason         string
		expectedString string
	}{
		{
			name:           "without id",
			id:             "",
			reason:         "id must not be empty",
			expectedString: "invalid route definition: id must not be empty",
		},
		{
			name:           "with id",
			id:             "r1",
			reason:         "uri must not be empty",
			expectedString: `invalid route definition "r1": uri must not be empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewInvalidDefinitionError(tt.id, tt.reason)
			assert.Equal(t, tt.expectedString, err.Error())
			assert.True(t, errors.Is(err, ErrInvalidDefinition))
			assert.False(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		field          string
		message        string
		cause          error
		expectedString string
	}{
		{
			name:           "with field",
			field:          "spec.routes[0].uri",
			message:        "URI cannot be empty",
			expectedString: "config error at spec.routes[0].uri: URI cannot be empty",
		},
		{
			name:           "without field",
			message:        "invalid configuration",
			expectedString: "config error: invalid configuration",
		},
		{
			name:           "with cause",
			field:          "spec.admin.port",
			message:        "invalid port",
			cause:          errors.New("port out of range"),
			expectedString: "config error at spec.admin.port: invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err *ConfigError
			if tt.cause != nil {
				err = NewConfigErrorWithCause(tt.field, tt.message, tt.cause)
			} else {
				err = NewConfigError(tt.field, tt.message)
			}

			assert.Equal(t, tt.expectedString, err.Error())
			assert.Equal(t, tt.cause, err.Unwrap())
			assert.True(t, errors.Is(err, ErrConfigInvalid))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("configuration is invalid")
	assert.False(t, err.HasErrors())
	assert.Equal(t, "validation error: configuration is invalid", err.Error())

	err.AddField("spec.routes[0].id", "duplicate route id")
	assert.True(t, err.HasErrors())
	assert.Contains(t, err.Error(), "duplicate route id")
	assert.True(t, errors.Is(err, ErrConfigInvalid))
}

func TestValidationError_AddField_NilFields(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Message: "test"}
	err.AddField("field", "message")
	assert.Equal(t, "message", err.Fields["field"])
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, WrapError(nil, "context"))

	err := WrapError(NewRouteNotFoundError("r1"), "admin delete")
	assert.Equal(t, "admin delete: route definition not found: r1", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsClientError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "not found", err: NewRouteNotFoundError("r1"), expected: true},
		{name: "invalid definition", err: NewInvalidDefinitionError("", "empty id"), expected: true},
		{name: "invalid input", err: fmt.Errorf("bad body: %w", ErrInvalidInput), expected: true},
		{name: "other", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsClientError(tt.err))
		})
	}
}
