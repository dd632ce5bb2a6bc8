// Package route defines the route definition value type stored by the
// registry and consumed by the routing engine.
//
// A Definition is plain data: an id, a target URI, ordered predicate and
// filter specifications and a numeric order. The registry treats every
// field except the id as opaque payload.
//
// Predicates and filters can be written in the shortcut form used by
// configuration files:
//
//	Path=/api/**,/v2/**
//	AddRequestHeader=X-Request-Foo, Bar
//
// and whole routes as "id=uri,Predicate1=...,Predicate2=...".
package route
