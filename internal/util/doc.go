// Package util provides utility functions and types shared by the
// route registry service.
//
// # Context Helpers
//
// Context utilities for request-scoped data:
//
//	ctx = util.ContextWithRequestID(ctx, "req-123")
//	requestID := util.RequestIDFromContext(ctx)
//
// # Error Types
//
// Structured error types for consistent error handling:
//
//   - RouteNotFoundError: a route id absent from the registry
//   - InvalidDefinitionError: a route definition the registry refuses
//   - ConfigError, ValidationError: configuration problems
//   - Common sentinel errors: ErrNotFound, ErrInvalidDefinition, etc.
//
// # Validation
//
// Input validation helpers for route URIs and ports:
//
//	err := util.ValidateRouteURI("lb://orders")
//	err := util.ValidatePort(8081)
package util
