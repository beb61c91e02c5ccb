// Package handler provides HTTP request handlers for the awareness API.
//
// This package contains handlers for all HTTP endpoints:
//
//   - session.go: start, progress, complete and status
//   - health.go: Health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call the progress service
//   - Format and return response
//   - Map domain errors to HTTP status codes
package handler
