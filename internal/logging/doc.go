// Package logging wraps log/slog with Vigil's console and JSON handlers,
// typed attribute helpers, and log-file retention.
package logging
