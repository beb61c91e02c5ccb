// Package main provides the entry point for awareness-server.
//
// The server hosts the security-awareness progress API:
//
//   - HTTP API for starting, advancing and completing a session
//   - Health, readiness and Prometheus metrics endpoints
//   - An idle-session sweeper running in the background
//
// Usage:
//
//	awareness-server serve [--config /path/to/config.yaml]
//	awareness-server version
//	awareness-server token inspect <token>
//	awareness-server token mint --session <id> --step <n>
//
// Configuration is read from the optional YAML file and from AWARENESS_*
// environment variables, with HMAC_SECRET, LOG_LEVEL and NODE_ENV honoured
// for older deployments.
package main
