package source

import (
	"path/filepath"
	"time"

	"logbundle/internal/config"
)

// Source describes one log subdirectory to collect from.
type Source struct {
	Name string `json:"name"`
	Dir  string `json:"dir"` // absolute directory to scan
	Rel  string `json:"rel"` // bundle-relative directory for staged copies
	Keep int    `json:"keep"`
}

// File is a log file chosen for collection.
type File struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`     // absolute source path
	RelPath string    `json:"rel_path"` // path inside the bundle, slash-separated
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Selection is the outcome of selecting files for one source.
type Selection struct {
	Source  Source `json:"source"`
	Files   []File `json:"files"`
	Skipped int    `json:"skipped"` // candidates beyond Keep
	Missing bool   `json:"missing"` // source directory does not exist
}

// Plan is the full selection across all configured sources.
type Plan struct {
	Selections []Selection `json:"selections"`
}

// TotalFiles returns the number of files selected across all sources.
func (p *Plan) TotalFiles() int {
	var n int
	for _, sel := range p.Selections {
		n += len(sel.Files)
	}
	return n
}

// TotalBytes returns the combined size of all selected files.
func (p *Plan) TotalBytes() int64 {
	var total int64
	for _, sel := range p.Selections {
		for _, f := range sel.Files {
			total += f.Size
		}
	}
	return total
}

// MissingSources lists the names of sources whose directory was absent.
func (p *Plan) MissingSources() []string {
	var names []string
	for _, sel := range p.Selections {
		if sel.Missing {
			names = append(names, sel.Source.Name)
		}
	}
	return names
}

// FromConfig resolves configured sources against the log root.
func FromConfig(cfg *config.Config) []Source {
	sources := make([]Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, Source{
			Name: s.Name,
			Dir:  filepath.Join(cfg.Paths.LogRoot, filepath.FromSlash(s.Dir)),
			Rel:  filepath.ToSlash(s.Dir),
			Keep: s.Keep,
		})
	}
	return sources
}
