// Package llm provides a minimal client for OpenAI-compatible chat
// completion APIs.
//
// The planner only needs one synchronous completion per instruction, so the
// client supports exactly that: no streaming, no tool calls, no retries.
// Timeout policy lives here, not in the pipeline.
package llm
