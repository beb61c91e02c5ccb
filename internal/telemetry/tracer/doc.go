// Package tracer wires OpenTelemetry tracing for the awareness service.
//
// Tracing is opt-in: without an OTLP endpoint New returns a provider that
// leaves the global no-op tracer in place, and StartSpan costs next to
// nothing. With an endpoint, spans are batched to an OTLP/HTTP collector
// and W3C trace context is propagated on incoming requests.
package tracer
