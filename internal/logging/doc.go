// Package logging builds the slog loggers used throughout logbundle. It
// provides a console handler for interactive use, a JSON handler for
// machine consumption, and typed attribute helpers with standardized keys.
package logging
