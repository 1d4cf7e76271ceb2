package archive

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Bundle describes one finished archive on disk.
type Bundle struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// List returns bundles matching the configured prefix in archiveDir, newest
// first. A missing archive directory yields an empty list.
func List(archiveDir, prefix string) ([]Bundle, error) {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	want := sanitizeToken(prefix) + "-"
	var bundles []Bundle
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, want) || !strings.HasSuffix(name, Suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		bundles = append(bundles, Bundle{
			Name:    name,
			Path:    filepath.Join(archiveDir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(bundles, func(i, j int) bool {
		if !bundles[i].ModTime.Equal(bundles[j].ModTime) {
			return bundles[i].ModTime.After(bundles[j].ModTime)
		}
		return bundles[i].Name > bundles[j].Name
	})
	return bundles, nil
}
