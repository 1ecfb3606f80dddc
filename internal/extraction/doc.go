// Package extraction turns a dictated transcript into a structured,
// confidence-scored time-entry draft. It supports both pattern-based
// (regex/keyword) and LLM-based extraction, composed by a Coordinator
// that falls back from the remote strategy to the local one.
//
// Every result is best-effort: missing fields are represented as nil or
// low-confidence fields, and failures are accumulated on the result as
// error/warning strings rather than raised. The caller is expected to
// show per-field confidence to a human reviewer before anything is
// persisted.
package extraction
