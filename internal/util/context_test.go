package util

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWithRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		requestID string
	}{
		{name: "uuid", requestID: "0b7d8c3e-5f0e-4c55-9a0a-3c1d2f1e9b11"},
		{name: "short", requestID: "req-1"},
		{name: "empty", requestID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := ContextWithRequestID(context.Background(), tt.requestID)
			assert.Equal(t, tt.requestID, RequestIDFromContext(ctx))
		})
	}
}

func TestRequestIDFromContext_NotSet(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestContextWithRouteID(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRouteID(context.Background(), "orders")
	assert.Equal(t, "orders", RouteIDFromContext(ctx))
	assert.Empty(t, RouteIDFromContext(context.Background()))
}

func TestContextChaining(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithRouteID(ctx, "orders")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "orders", RouteIDFromContext(ctx))
}
