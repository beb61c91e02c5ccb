// Package domain defines the core domain models for the awareness service.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Session: a player's walk through the experience
//   - Errors: domain error codes shared by the service and transport layers
package domain
