package main

import "github.com/dustin/go-humanize"

// formatBytes renders a byte count in binary units (KiB, MiB, ...).
func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
