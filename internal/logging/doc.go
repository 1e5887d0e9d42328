// Package logging builds the slog loggers used across the daemon and CLI.
//
// Two handler formats are supported: a human-oriented console handler that
// hoists the component attribute into the message prefix, and a JSON handler
// with normalized ts/level/msg keys. Standardized field keys (call_sid,
// stage, correlation_id) keep per-call log lines greppable across handlers.
package logging
