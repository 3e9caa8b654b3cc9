// Package trace records spans and point events emitted while exactcalc
// evaluates scripts.
//
// Tracing is off by default. The CLI enables it with
//
//	exactcalc eval --trace=- --trace-level=detail script.dc
//
// # Tracers
//
//   - Nop: discards everything
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the most recent events in memory for dumping on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level admits every scope at or above its granularity:
//
//   - LevelPhase: ScopeDriver (CLI commands, batch runs)
//   - LevelDetail: plus ScopeScript (one evaluated program or macro)
//   - LevelDebug: plus ScopeCommand (every executed calculator command)
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeScript, name, 0)
//	defer span.End("")
package trace
