// Package manifest writes and reads the plain-text file listing included in
// every bundle: one path/size pair per line plus summary totals.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FileName is the manifest's name at the staging root (and inside the bundle).
const FileName = "manifest.txt"

// Entry records one collected file.
type Entry struct {
	Path string // bundle-relative, slash-separated
	Size int64
}

// Manifest describes the contents of a single collection run.
type Manifest struct {
	Created time.Time
	Host    string
	RunID   string
	Entries []Entry
}

// TotalBytes returns the combined size of all entries.
func (m *Manifest) TotalBytes() int64 {
	var total int64
	for _, e := range m.Entries {
		total += e.Size
	}
	return total
}

// Write renders the manifest. Entries are sorted by path; paths and sizes
// are tab-separated so paths containing spaces round-trip.
func Write(w io.Writer, m *Manifest) error {
	entries := make([]Entry, len(m.Entries))
	copy(entries, m.Entries)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# logbundle manifest")
	fmt.Fprintf(bw, "# created: %s\n", m.Created.UTC().Format(time.RFC3339))
	if m.Host != "" {
		fmt.Fprintf(bw, "# host: %s\n", m.Host)
	}
	if m.RunID != "" {
		fmt.Fprintf(bw, "# run: %s\n", m.RunID)
	}
	for _, e := range entries {
		fmt.Fprintf(bw, "%s\t%d\n", e.Path, e.Size)
	}
	fmt.Fprintf(bw, "# files: %d\n", len(entries))
	fmt.Fprintf(bw, "# bytes: %d\n", m.TotalBytes())
	return bw.Flush()
}

// WriteFile writes the manifest into dir and returns its path.
func WriteFile(dir string, m *Manifest) (string, error) {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create manifest: %w", err)
	}
	if err := Write(f, m); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close manifest: %w", err)
	}
	return path, nil
}

// Read parses a manifest and verifies its summary totals against the entry
// lines.
func Read(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	var (
		declaredFiles = -1
		declaredBytes = int64(-1)
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "created":
				if ts, err := time.Parse(time.RFC3339, value); err == nil {
					m.Created = ts
				}
			case "host":
				m.Host = value
			case "run":
				m.RunID = value
			case "files":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("manifest files trailer: %w", err)
				}
				declaredFiles = n
			case "bytes":
				n, err := strconv.ParseInt(value, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("manifest bytes trailer: %w", err)
				}
				declaredBytes = n
			}
			continue
		}

		path, sizeStr, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("manifest entry %q: missing size field", line)
		}
		size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %q: %w", line, err)
		}
		m.Entries = append(m.Entries, Entry{Path: path, Size: size})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	if declaredFiles >= 0 && declaredFiles != len(m.Entries) {
		return nil, fmt.Errorf("manifest totals mismatch: trailer lists %d files, found %d", declaredFiles, len(m.Entries))
	}
	if declaredBytes >= 0 && declaredBytes != m.TotalBytes() {
		return nil, fmt.Errorf("manifest totals mismatch: trailer lists %d bytes, found %d", declaredBytes, m.TotalBytes())
	}

	return m, nil
}
