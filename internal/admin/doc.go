// Package admin exposes the route registry over HTTP.
//
// The admin API lets operators list, create, replace and delete route
// definitions at runtime and force the route table to refresh. It also
// serves health, readiness and Prometheus endpoints.
//
//	GET    /routes       list every definition
//	GET    /routes/:id   one definition
//	POST   /routes/:id   save a definition under id
//	DELETE /routes/:id   delete a definition
//	POST   /refresh      rebuild the route table
//	GET    /table        the route table as last published
//	GET    /table/:id    one route from the published table
//
// Every request passes through recovery, request id, tracing, logging,
// metrics and an optional token-bucket rate limit.
package admin
