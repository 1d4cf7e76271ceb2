// Package collector runs one log collection end to end: select the newest
// files per source, stage verified copies, write the manifest, build the
// bundle, and record the run.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"logbundle/internal/archive"
	"logbundle/internal/config"
	"logbundle/internal/history"
	"logbundle/internal/logging"
	"logbundle/internal/manifest"
	"logbundle/internal/source"
	"logbundle/internal/staging"
)

// ErrRunInProgress is returned when another collection holds the run lock.
var ErrRunInProgress = errors.New("another collection run is in progress")

// staleRunAge is how long an abandoned staging run may linger before the
// next collection sweeps it away.
const staleRunAge = 24 * time.Hour

// Options controls a single collection run.
type Options struct {
	// DryRun computes and reports the selection without copying, archiving,
	// or recording anything.
	DryRun bool
	// KeepStaging leaves the staging tree in place after a successful
	// archive instead of removing it.
	KeepStaging bool
}

// Result describes a finished (or planned, for dry runs) collection.
type Result struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	DryRun     bool         `json:"dry_run"`
	Plan       *source.Plan `json:"plan"`

	StagedFiles  int    `json:"staged_files"`
	StagingDir   string `json:"staging_dir,omitempty"`
	ManifestPath string `json:"manifest_path,omitempty"`
	ArchivePath  string `json:"archive_path,omitempty"`
	ArchiveBytes int64  `json:"archive_bytes,omitempty"`
}

// Collect performs one collection run against the configured sources.
func Collect(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Result, error) {
	logger = logging.WithComponent(logger, "collector")

	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}
	runLogger := logger.With(logging.String(logging.FieldRunID, result.RunID))

	plan, err := buildPlan(cfg, runLogger)
	if err != nil {
		return nil, err
	}
	result.Plan = plan

	if opts.DryRun {
		result.FinishedAt = time.Now()
		runLogger.Info("dry run complete",
			logging.Int("files", plan.TotalFiles()),
			logging.Int64("bytes", plan.TotalBytes()),
			logging.String(logging.FieldEventType, "collect_dry_run"),
		)
		return result, nil
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	defer func() {
		_ = lock.Unlock()
	}()

	staging.CleanStale(cfg.Paths.StagingDir, staleRunAge, runLogger)

	if err := runCollection(ctx, cfg, runLogger, opts, result); err != nil {
		return nil, err
	}

	result.FinishedAt = time.Now()

	if err := recordRun(ctx, cfg, result); err != nil {
		// The bundle exists; a ledger failure should not fail the run.
		runLogger.Warn("failed to record run history",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_record_failed"),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
		)
	}

	runLogger.Info("collection complete",
		logging.Int("files", result.StagedFiles),
		logging.Int64("bytes", result.Plan.TotalBytes()),
		logging.String("archive", result.ArchivePath),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
		logging.String(logging.FieldEventType, "collect_complete"),
	)
	return result, nil
}

func buildPlan(cfg *config.Config, logger *slog.Logger) (*source.Plan, error) {
	sources := source.FromConfig(cfg)
	plan, err := source.BuildPlan(sources)
	if err != nil {
		return nil, err
	}
	for _, sel := range plan.Selections {
		if sel.Missing {
			logger.Warn("source directory missing",
				logging.String(logging.FieldSource, sel.Source.Name),
				logging.String("dir", sel.Source.Dir),
				logging.String(logging.FieldEventType, "source_missing"),
				logging.String(logging.FieldErrorHint, "check paths.log_root and the source dir"),
			)
			continue
		}
		logger.Debug("source selected",
			logging.String(logging.FieldSource, sel.Source.Name),
			logging.Int("files", len(sel.Files)),
			logging.Int("skipped", sel.Skipped),
		)
	}
	return plan, nil
}

func runCollection(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options, result *Result) error {
	run, err := staging.NewRun(cfg.Paths.StagingDir, result.RunID)
	if err != nil {
		return err
	}
	keepStaging := opts.KeepStaging || cfg.Archive.KeepStaging
	cleanup := func() {
		if !keepStaging {
			_ = run.Remove()
		}
	}

	entries := make([]manifest.Entry, 0, result.Plan.TotalFiles())
	for _, sel := range result.Plan.Selections {
		for _, f := range sel.Files {
			if err := ctx.Err(); err != nil {
				cleanup()
				return err
			}
			if err := run.StageFile(f); err != nil {
				cleanup()
				return err
			}
			entries = append(entries, manifest.Entry{Path: f.RelPath, Size: f.Size})
			result.StagedFiles++
		}
	}
	result.StagingDir = run.Root

	host, _ := os.Hostname()
	manifestPath, err := manifest.WriteFile(run.Root, &manifest.Manifest{
		Created: result.StartedAt,
		Host:    host,
		RunID:   result.RunID,
		Entries: entries,
	})
	if err != nil {
		cleanup()
		return err
	}
	result.ManifestPath = manifestPath

	archivePath := filepath.Join(cfg.Paths.ArchiveDir,
		archive.Name(cfg.Archive.NamePrefix, result.StartedAt, result.RunID))
	archiveBytes, err := archive.Build(archivePath, run.Root)
	if err != nil {
		cleanup()
		return err
	}
	result.ArchivePath = archivePath
	result.ArchiveBytes = archiveBytes

	if !keepStaging {
		if err := run.Remove(); err != nil {
			logger.Warn("failed to remove staging tree",
				logging.String("path", run.Root),
				logging.Error(err),
				logging.String(logging.FieldEventType, "staging_remove_failed"),
				logging.String(logging.FieldErrorHint, "remove the run directory manually"),
			)
		} else {
			result.StagingDir = ""
			result.ManifestPath = ""
		}
	}
	return nil
}

func recordRun(ctx context.Context, cfg *config.Config, result *Result) error {
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	return store.RecordRun(ctx, history.Run{
		RunID:        result.RunID,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
		FileCount:    result.StagedFiles,
		TotalBytes:   result.Plan.TotalBytes(),
		ArchivePath:  result.ArchivePath,
		ArchiveBytes: result.ArchiveBytes,
	})
}
