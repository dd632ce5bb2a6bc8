package util

import (
	"context"
)

// Context keys.
type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyRouteID   ctxKey = "route_id"
)

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithRouteID adds the id of the route definition an administrative
// request operates on.
func ContextWithRouteID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRouteID, id)
}

// RouteIDFromContext extracts the route definition id from context.
func RouteIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRouteID).(string); ok {
		return v
	}
	return ""
}
