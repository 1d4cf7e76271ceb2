package config

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateRetention(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LogRoot) == "" {
		return errors.New("paths.log_root must be set")
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir must be set")
	}
	if c.Paths.StagingDir == c.Paths.ArchiveDir {
		return errors.New("paths.staging_dir and paths.archive_dir must differ")
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one [[sources]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d].name must be set", i)
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("sources[%d].name %q is duplicated", i, src.Name)
		}
		seen[src.Name] = struct{}{}
		if src.Keep < 0 {
			return fmt.Errorf("sources[%d].keep must be >= 0", i)
		}
		if filepath.IsAbs(src.Dir) {
			return fmt.Errorf("sources[%d].dir must be relative to paths.log_root", i)
		}
		// Check the cleaned form; "x/../.." collapses to "..".
		cleaned := path.Clean(filepath.ToSlash(src.Dir))
		if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
			return fmt.Errorf("sources[%d].dir must not escape paths.log_root", i)
		}
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Retention.Days < 0 {
		return errors.New("retention.days must be >= 0")
	}
	if c.Retention.MaxBundles < 0 {
		return errors.New("retention.max_bundles must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
