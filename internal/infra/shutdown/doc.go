// Package shutdown coordinates graceful process termination.
//
// Components register named hooks with OnShutdown as they start; Wait blocks
// until SIGINT, SIGTERM or Trigger, then runs the hooks in reverse order
// under one deadline, so the HTTP server drains before the store closes.
package shutdown
