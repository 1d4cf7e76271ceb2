// Package config loads, normalizes, and validates the TOML configuration
// that drives a collection run: the log root, the source map, staging and
// archive locations, retention limits, and log output settings.
package config
