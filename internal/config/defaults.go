package config

const (
	defaultLogRoot          = "~/.local/share/logbundle/logs"
	defaultStagingDir       = "~/.local/share/logbundle/staging"
	defaultArchiveDir       = "~/.local/share/logbundle/bundles"
	defaultStateDir         = "~/.local/share/logbundle/state"
	defaultArchivePrefix    = "logbundle"
	defaultRetentionDays    = 30
	defaultRetentionBundles = 20
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// defaultSources is the fixed subdirectory-to-keep-count map the tool ships
// with. A [[sources]] block in the config file replaces the whole set.
func defaultSources() []Source {
	return []Source{
		{Name: "daemon", Keep: 7},
		{Name: "items", Keep: 20},
		{Name: "debug", Keep: 10},
		{Name: "crash", Keep: 5},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogRoot:    defaultLogRoot,
			StagingDir: defaultStagingDir,
			ArchiveDir: defaultArchiveDir,
			StateDir:   defaultStateDir,
		},
		Sources: defaultSources(),
		Archive: Archive{
			NamePrefix: defaultArchivePrefix,
		},
		Retention: Retention{
			Days:       defaultRetentionDays,
			MaxBundles: defaultRetentionBundles,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
