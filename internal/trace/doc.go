// Package trace provides a tracing subsystem for the svelab elaborator.
//
// The trace package enables tracking of pipeline passes, definition and
// instance body elaboration, and other operations to help diagnose
// performance issues and hangs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	svelab elab --trace=- --trace-level=phase top.sv
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - NopTracer: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//   - RingTracer: Circular buffer for crash dumps
//   - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Definition-level events
//   - LevelDebug: Everything including instance bodies and cache hits
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePass: Pipeline passes (parse, elaborate, lint)
//   - ScopeDefinition: Per-definition processing
//   - ScopeInstance: Instance bodies and body cache lookups
//
// # Context Propagation
//
// Tracers are propagated through the compilation pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
