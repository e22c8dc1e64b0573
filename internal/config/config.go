// Package config loads sessionlens configuration from TOML, falling back to
// defaults when no config file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all sessionlens configuration.
type Config struct {
	ProjectsDir string `toml:"projects_dir"` // Claude Code transcript root
	OutputDir   string `toml:"output_dir"`   // analysis and report artifacts
	DaysBack    int    `toml:"days_back"`    // discovery cutoff, 0 = all
	Workers     int    `toml:"workers"`      // 0 = one per CPU

	Report  ReportConfig  `toml:"report"`
	Archive ArchiveConfig `toml:"archive"`
	Watch   WatchConfig   `toml:"watch"`
}

type ReportConfig struct {
	Title string `toml:"title"`
	HTML  bool   `toml:"html"`
}

type ArchiveConfig struct {
	Compress bool `toml:"compress"` // compress transcripts after analysis
}

type WatchConfig struct {
	DebounceSeconds int `toml:"debounce_seconds"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProjectsDir: "~/.claude/projects",
		OutputDir:   "~/.local/share/sessionlens",
		DaysBack:    7,
		Workers:     0,
		Report: ReportConfig{
			Title: "Claude Code Usage Analysis",
			HTML:  true,
		},
		Archive: ArchiveConfig{
			Compress: false,
		},
		Watch: WatchConfig{
			DebounceSeconds: 5,
		},
	}
}

// Load reads config from the standard paths, falling back to defaults.
// Pass an explicit path to bypass the search.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	if path != "" {
		paths = []string{path}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.ProjectsDir = expandHome(cfg.ProjectsDir)
	cfg.OutputDir = expandHome(cfg.OutputDir)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "sessionlens", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "sessionlens", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// AnalysisPath returns the default per-session analysis artifact path.
func (c Config) AnalysisPath() string {
	return filepath.Join(c.OutputDir, "session_analysis.json")
}

// ReportPath returns the default aggregate report artifact path.
func (c Config) ReportPath() string {
	return filepath.Join(c.OutputDir, "aggregate_report.json")
}

// HTMLPath returns the default HTML report artifact path.
func (c Config) HTMLPath() string {
	return filepath.Join(c.OutputDir, "report.html")
}
