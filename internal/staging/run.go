package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logbundle/internal/fileutil"
	"logbundle/internal/source"
)

// Run is the staging tree for one collection run. Selected files are copied
// under Root preserving their bundle-relative paths.
type Run struct {
	ID   string
	Root string
}

// NewRun creates the staging directory for a run underneath stagingDir.
func NewRun(stagingDir, runID string) (*Run, error) {
	root := filepath.Join(stagingDir, "run-"+runID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging run directory %q: %w", root, err)
	}
	return &Run{ID: runID, Root: root}, nil
}

// StageFile copies one selected file into the run tree with integrity
// verification, preserving its modification time.
func (r *Run) StageFile(f source.File) error {
	dst := filepath.Join(r.Root, filepath.FromSlash(f.RelPath))
	if rel, err := filepath.Rel(r.Root, dst); err != nil ||
		rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("stage %s: path escapes the staging run root", f.RelPath)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create staging subdirectory for %s: %w", f.RelPath, err)
	}
	if err := fileutil.CopyFileVerified(f.Path, dst); err != nil {
		return fmt.Errorf("stage %s: %w", f.RelPath, err)
	}
	// Best effort; archive timestamps fall back to copy time otherwise.
	_ = os.Chtimes(dst, f.ModTime, f.ModTime)
	return nil
}

// Remove deletes the run's staging tree.
func (r *Run) Remove() error {
	return os.RemoveAll(r.Root)
}
