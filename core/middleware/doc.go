// Package middleware contains HTTP middleware for the Fiber status API.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - Auth: Implements API key validation (X-API-Key) to protect the /sync endpoints.
//     Paths such as /health can be exempted.
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// These middleware components are registered globally in the start command.
package middleware
