// Package retention prunes old bundles from the archive directory.
package retention

import (
	"log/slog"
	"os"
	"time"

	"logbundle/internal/archive"
	"logbundle/internal/logging"
)

// Limits controls which bundles Prune removes. A zero value disables the
// corresponding limit.
type Limits struct {
	Days       int
	MaxBundles int
}

// Result contains the outcome of a prune operation.
type Result struct {
	Removed []archive.Bundle
	Errors  []error
}

// Prune removes bundles older than Limits.Days and bundles beyond
// Limits.MaxBundles. Bundles must be ordered newest first, as archive.List
// returns them.
func Prune(bundles []archive.Bundle, limits Limits, logger *slog.Logger) Result {
	result := Result{}
	if limits.Days <= 0 && limits.MaxBundles <= 0 {
		return result
	}

	var cutoff time.Time
	if limits.Days > 0 {
		cutoff = time.Now().AddDate(0, 0, -limits.Days)
	}

	for i, bundle := range bundles {
		tooOld := limits.Days > 0 && bundle.ModTime.Before(cutoff)
		overCount := limits.MaxBundles > 0 && i >= limits.MaxBundles
		if !tooOld && !overCount {
			continue
		}

		if err := os.Remove(bundle.Path); err != nil {
			result.Errors = append(result.Errors, err)
			if logger != nil {
				logger.Warn("failed to remove bundle",
					logging.String("path", bundle.Path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "bundle_prune_failed"),
					logging.String(logging.FieldErrorHint, "check archive_dir permissions"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, bundle)
		if logger != nil {
			logger.Info("bundle pruned",
				logging.String("path", bundle.Path),
				logging.Bool("over_age", tooOld),
				logging.Bool("over_count", overCount),
				logging.String(logging.FieldEventType, "bundle_pruned"),
			)
		}
	}

	return result
}
