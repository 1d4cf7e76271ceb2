package main

import (
	"encoding/json"
	"strings"
	"testing"

	"logbundle/internal/archive"
)

func TestCollectCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedLogs(t)

	out, _, err := runCLI(t, env.configPath, "collect")
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	requireContains(t, out, "Collected 3 files")

	bundles, err := archive.List(env.cfg.Paths.ArchiveDir, env.cfg.Archive.NamePrefix)
	if err != nil {
		t.Fatalf("list bundles: %v", err)
	}
	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}

	out, _, err = runCLI(t, env.configPath, "bundles")
	if err != nil {
		t.Fatalf("bundles: %v", err)
	}
	requireContains(t, out, bundles[0].Name)

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "3")
}

func TestCollectCommandDryRunJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedLogs(t)

	out, _, err := runCLI(t, env.configPath, "collect", "--dry-run", "--json")
	if err != nil {
		t.Fatalf("collect --dry-run --json: %v", err)
	}

	var result struct {
		DryRun      bool   `json:"dry_run"`
		ArchivePath string `json:"archive_path"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal result: %v\noutput: %s", err, out)
	}
	if !result.DryRun {
		t.Fatal("expected dry_run=true")
	}
	if result.ArchivePath != "" {
		t.Fatalf("dry run should not produce an archive, got %q", result.ArchivePath)
	}

	bundles, err := archive.List(env.cfg.Paths.ArchiveDir, env.cfg.Archive.NamePrefix)
	if err != nil {
		t.Fatalf("list bundles: %v", err)
	}
	if len(bundles) != 0 {
		t.Fatalf("dry run created bundles: %v", bundles)
	}
}

func TestPlanCommandJSONUsesSnakeCaseKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedLogs(t)

	out, _, err := runCLI(t, env.configPath, "plan", "--json")
	if err != nil {
		t.Fatalf("plan --json: %v", err)
	}

	var plan struct {
		Selections []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Files []struct {
				RelPath string `json:"rel_path"`
			} `json:"files"`
		} `json:"selections"`
	}
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("unmarshal plan: %v\noutput: %s", err, out)
	}
	if len(plan.Selections) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(plan.Selections))
	}
	requireContains(t, out, `"rel_path"`)
	requireContains(t, out, `"selections"`)
	if strings.Contains(out, `"RelPath"`) || strings.Contains(out, `"Selections"`) {
		t.Fatalf("plan JSON leaked Go-cased keys: %s", out)
	}
}

func TestPlanCommandListsSelection(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedLogs(t)

	out, _, err := runCLI(t, env.configPath, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "daemon-new.log")
	requireContains(t, out, "item-1.log")
	requireContains(t, out, "3 files")
}
