package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ProjectsDir != "~/.claude/projects" {
		t.Errorf("projects_dir = %q", cfg.ProjectsDir)
	}
	if cfg.DaysBack != 7 {
		t.Errorf("days_back = %d, want 7", cfg.DaysBack)
	}
	if !cfg.Report.HTML {
		t.Error("html reports default on")
	}
	if cfg.Watch.DebounceSeconds != 5 {
		t.Errorf("debounce = %d, want 5", cfg.Watch.DebounceSeconds)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `projects_dir = "/data/projects"
days_back = 30

[report]
title = "Team Report"
html = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ProjectsDir != "/data/projects" {
		t.Errorf("projects_dir = %q", cfg.ProjectsDir)
	}
	if cfg.DaysBack != 30 {
		t.Errorf("days_back = %d", cfg.DaysBack)
	}
	if cfg.Report.Title != "Team Report" || cfg.Report.HTML {
		t.Errorf("report = %+v", cfg.Report)
	}
	// Unset fields keep their defaults.
	if cfg.Workers != 0 || cfg.Watch.DebounceSeconds != 5 {
		t.Errorf("defaults lost: workers=%d debounce=%d", cfg.Workers, cfg.Watch.DebounceSeconds)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DaysBack != 7 {
		t.Errorf("days_back = %d, want default", cfg.DaysBack)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("projects_dir = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid TOML must error")
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.HasPrefix(cfg.ProjectsDir, "~") {
		t.Errorf("projects_dir = %q, want expanded", cfg.ProjectsDir)
	}
	if strings.HasPrefix(cfg.OutputDir, "~") {
		t.Errorf("output_dir = %q, want expanded", cfg.OutputDir)
	}
}

func TestArtifactPaths(t *testing.T) {
	cfg := Config{OutputDir: "/tmp/out"}
	if cfg.AnalysisPath() != "/tmp/out/session_analysis.json" {
		t.Errorf("analysis path = %q", cfg.AnalysisPath())
	}
	if cfg.ReportPath() != "/tmp/out/aggregate_report.json" {
		t.Errorf("report path = %q", cfg.ReportPath())
	}
	if cfg.HTMLPath() != "/tmp/out/report.html" {
		t.Errorf("html path = %q", cfg.HTMLPath())
	}
}
