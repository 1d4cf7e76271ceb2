// Package source scans the configured log subdirectories and selects the
// newest files from each, up to the per-source keep count.
package source
