package collector

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"logbundle/internal/config"
	"logbundle/internal/history"
	"logbundle/internal/logging"
	"logbundle/internal/manifest"
	"logbundle/internal/testsupport"
)

func seedLogs(t *testing.T, cfg *config.Config) {
	t.Helper()
	now := time.Now().Truncate(time.Second)
	testsupport.WriteFileAt(t, filepath.Join(cfg.Paths.LogRoot, "daemon", "daemon-1.log"), 100, now.Add(-3*time.Hour))
	testsupport.WriteFileAt(t, filepath.Join(cfg.Paths.LogRoot, "daemon", "daemon-2.log"), 150, now.Add(-time.Hour))
	testsupport.WriteFileAt(t, filepath.Join(cfg.Paths.LogRoot, "items", "item-1.log"), 200, now.Add(-2*time.Hour))
	testsupport.WriteFileAt(t, filepath.Join(cfg.Paths.LogRoot, "items", "item-2.log"), 250, now.Add(-30*time.Minute))
	testsupport.WriteFileAt(t, filepath.Join(cfg.Paths.LogRoot, "items", "item-3.log"), 300, now.Add(-10*time.Minute))
}

func testConfig(t *testing.T) *config.Config {
	return testsupport.NewConfig(t, testsupport.WithSources(
		config.Source{Name: "daemon", Dir: "daemon", Keep: 1},
		config.Source{Name: "items", Dir: "items", Keep: 2},
		config.Source{Name: "crash", Dir: "crash", Keep: 5},
	))
}

func readBundle(t *testing.T, path string) map[string][]byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	tr := tar.NewReader(gz)

	entries := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("tar next: %v", err)
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("tar read: %v", err)
		}
		entries[hdr.Name] = body
	}
	return entries
}

func TestCollectProducesBundle(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)

	result, err := Collect(context.Background(), cfg, logging.NewNop(), Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if result.StagedFiles != 3 {
		t.Fatalf("StagedFiles = %d, want 3", result.StagedFiles)
	}
	if result.ArchivePath == "" || result.ArchiveBytes <= 0 {
		t.Fatalf("expected archive, got %+v", result)
	}

	entries := readBundle(t, result.ArchivePath)
	wantPaths := []string{
		manifest.FileName,
		"daemon/daemon-2.log",
		"items/item-2.log",
		"items/item-3.log",
	}
	if len(entries) != len(wantPaths) {
		t.Fatalf("bundle has %d entries, want %d: %v", len(entries), len(wantPaths), entries)
	}
	for _, path := range wantPaths {
		if _, ok := entries[path]; !ok {
			t.Fatalf("bundle missing %s", path)
		}
	}

	m, err := manifest.Read(strings.NewReader(string(entries[manifest.FileName])))
	if err != nil {
		t.Fatalf("read bundled manifest: %v", err)
	}
	if len(m.Entries) != 3 {
		t.Fatalf("manifest lists %d files, want 3", len(m.Entries))
	}
	if m.TotalBytes() != 700 {
		t.Fatalf("manifest bytes = %d, want 700", m.TotalBytes())
	}
	if m.RunID != result.RunID {
		t.Fatalf("manifest run %q != result run %q", m.RunID, result.RunID)
	}

	// Staging tree is removed after a successful archive.
	stagingEntries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range stagingEntries {
		if strings.HasPrefix(entry.Name(), "run-") {
			t.Fatalf("staging run left behind: %s", entry.Name())
		}
	}

	// Missing crash source is reported, not fatal.
	missing := result.Plan.MissingSources()
	if len(missing) != 1 || missing[0] != "crash" {
		t.Fatalf("MissingSources = %v, want [crash]", missing)
	}
}

func TestCollectRecordsHistory(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)

	result, err := Collect(context.Background(), cfg, logging.NewNop(), Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].RunID != result.RunID || runs[0].FileCount != 3 {
		t.Fatalf("unexpected recorded run: %+v", runs[0])
	}
}

func TestCollectDryRun(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)

	result, err := Collect(context.Background(), cfg, logging.NewNop(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !result.DryRun {
		t.Fatal("expected DryRun flag")
	}
	if result.Plan.TotalFiles() != 3 {
		t.Fatalf("plan files = %d, want 3", result.Plan.TotalFiles())
	}
	if result.ArchivePath != "" || result.StagedFiles != 0 {
		t.Fatalf("dry run must not stage or archive: %+v", result)
	}

	// Nothing is created and nothing is recorded.
	if _, err := os.Stat(cfg.Paths.ArchiveDir); !os.IsNotExist(err) {
		entries, _ := os.ReadDir(cfg.Paths.ArchiveDir)
		if len(entries) != 0 {
			t.Fatalf("dry run created archives: %v", entries)
		}
	}
	if _, err := os.Stat(cfg.HistoryDBPath()); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the history database")
	}
}

func TestCollectKeepStaging(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)

	result, err := Collect(context.Background(), cfg, logging.NewNop(), Options{KeepStaging: true})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if result.StagingDir == "" {
		t.Fatal("expected staging dir in result")
	}
	if _, err := os.Stat(filepath.Join(result.StagingDir, manifest.FileName)); err != nil {
		t.Fatalf("staged manifest missing: %v", err)
	}
}

func TestCollectWhileLocked(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: %v", err)
	}
	defer lock.Unlock()

	_, err = Collect(context.Background(), cfg, logging.NewNop(), Options{})
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestCollectCancelledContext(t *testing.T) {
	cfg := testConfig(t)
	seedLogs(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, cfg, logging.NewNop(), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
