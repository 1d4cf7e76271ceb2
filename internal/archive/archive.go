// Package archive builds the compressed bundle from a staging tree and
// lists previously produced bundles.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Suffix is the bundle file extension.
const Suffix = ".tar.gz"

// Name builds a bundle file name from the prefix, run timestamp, and run ID.
// Only the first eight characters of the run ID are used; the timestamp
// already makes names unique per run.
func Name(prefix string, ts time.Time, runID string) string {
	short := runID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%s-%s%s", sanitizeToken(prefix), ts.UTC().Format("20060102-150405"), short, Suffix)
}

// Build writes a gzipped tarball of the staging tree to outPath. Entry names
// are slash-separated paths relative to stagingRoot. Only regular files are
// archived; an empty staging tree still produces a valid (empty) bundle.
// Returns the archive size in bytes.
func Build(outPath, stagingRoot string) (int64, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(stagingRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(stagingRoot, path)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write header %s: %w", hdr.Name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(tw, f); err != nil {
			f.Close()
			return fmt.Errorf("archive %s: %w", hdr.Name, err)
		}
		return f.Close()
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = gz.Close()
		_ = os.Remove(outPath)
		return 0, fmt.Errorf("build archive: %w", walkErr)
	}

	if err := tw.Close(); err != nil {
		_ = os.Remove(outPath)
		return 0, fmt.Errorf("finalize tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = os.Remove(outPath)
		return 0, fmt.Errorf("finalize gzip: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outPath)
		return 0, fmt.Errorf("close archive: %w", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat archive: %w", err)
	}
	return info.Size(), nil
}

// sanitizeToken lowercases the value and maps anything outside [a-z0-9-_]
// to an underscore, so configured prefixes cannot produce hostile names.
func sanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "logbundle"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "logbundle"
	}
	return out
}
