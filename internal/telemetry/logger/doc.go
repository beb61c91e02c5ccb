// Package logger provides structured logging for the awareness service.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, levels and the process-wide default
//   - context.go: request and trace ids carried on context.Context
//   - redact.go: masking of progress tokens and secret-looking keys
//
// Every record carries the service name and version given in Config. The
// level is held in a shared slog.LevelVar so SetLevel takes effect on all
// loggers immediately, which the config watcher uses for hot reload.
package logger
