package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Scan lists the regular files directly inside the source directory.
// Subdirectories are not descended into; each source names exactly one
// directory level.
func Scan(src Source) ([]File, bool, error) {
	entries, err := os.ReadDir(src.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("read source %s: %w", src.Name, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Entry disappeared between ReadDir and Info; skip it.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{
			Name:    entry.Name(),
			Path:    filepath.Join(src.Dir, entry.Name()),
			RelPath: path.Join(src.Rel, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, false, nil
}

// Select scans a source and keeps its newest files, up to Keep. Ties on
// modification time fall back to name order so the result is deterministic.
func Select(src Source) (Selection, error) {
	sel := Selection{Source: src}

	files, missing, err := Scan(src)
	if err != nil {
		return sel, err
	}
	if missing {
		sel.Missing = true
		return sel, nil
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})

	keep := src.Keep
	if keep > len(files) {
		keep = len(files)
	}
	if keep < 0 {
		keep = 0
	}
	sel.Files = files[:keep]
	sel.Skipped = len(files) - keep
	return sel, nil
}

// BuildPlan selects files for every source in order.
func BuildPlan(sources []Source) (*Plan, error) {
	plan := &Plan{Selections: make([]Selection, 0, len(sources))}
	for _, src := range sources {
		sel, err := Select(src)
		if err != nil {
			return nil, err
		}
		plan.Selections = append(plan.Selections, sel)
	}
	return plan, nil
}
