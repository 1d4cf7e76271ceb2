package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"logbundle/internal/config"
	"logbundle/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithSources(
		config.Source{Name: "daemon", Dir: "daemon", Keep: 2},
		config.Source{Name: "items", Dir: "items", Keep: 2},
	))
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func (env *cliTestEnv) seedLogs(t *testing.T) {
	t.Helper()
	now := time.Now().Truncate(time.Second)
	testsupport.WriteFileAt(t, filepath.Join(env.cfg.Paths.LogRoot, "daemon", "daemon-old.log"), 50, now.Add(-2*time.Hour))
	testsupport.WriteFileAt(t, filepath.Join(env.cfg.Paths.LogRoot, "daemon", "daemon-new.log"), 60, now.Add(-time.Hour))
	testsupport.WriteFileAt(t, filepath.Join(env.cfg.Paths.LogRoot, "items", "item-1.log"), 70, now.Add(-time.Minute))
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\n")
	fmt.Fprintf(&b, "log_root = %q\n", cfg.Paths.LogRoot)
	fmt.Fprintf(&b, "staging_dir = %q\n", cfg.Paths.StagingDir)
	fmt.Fprintf(&b, "archive_dir = %q\n", cfg.Paths.ArchiveDir)
	fmt.Fprintf(&b, "state_dir = %q\n", cfg.Paths.StateDir)
	for _, src := range cfg.Sources {
		fmt.Fprintf(&b, "\n[[sources]]\nname = %q\ndir = %q\nkeep = %d\n", src.Name, src.Dir, src.Keep)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
