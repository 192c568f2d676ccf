package application

import "log/slog"

// Module is the structured-log module attribute for this context.
const Module = "governance/governance-accounting"

// ResolveLogger guarantees a non-nil logger for application/worker code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
