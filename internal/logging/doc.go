// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute keys used across the codebase so log output stays
// consistent and greppable, plus small constructors for the common attributes
// (operation, service, status, chat id, error).
package logging
