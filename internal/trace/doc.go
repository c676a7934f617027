// Package trace records span events for a generation run.
//
// Tracing is enabled from the command line:
//
//	debuggen gen --trace=- --trace-level=detail types.toml
//
// Levels select how fine-grained the emitted spans are:
//
//   - LevelPhase: the run itself and its passes (load, validate, render, emit)
//   - LevelDetail: adds one span per rendered record
//   - LevelDebug: everything
//
// The tracer travels with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "render", 0)
//	defer span.End("")
package trace
