package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the sessionlens config directory path.
// Uses $XDG_CONFIG_HOME/sessionlens if set, otherwise ~/.config/sessionlens.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sessionlens")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sessionlens")
}

// WriteDefault writes a default config.toml. Returns the config file path.
// Skips if config.toml already exists.
func WriteDefault(outputDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	content := fmt.Sprintf(`projects_dir = "~/.claude/projects"
output_dir = %q
days_back = 7
workers = 0

[report]
title = "Claude Code Usage Analysis"
html = true

[archive]
compress = false

[watch]
debounce_seconds = 5
`, CompressHome(outputDir))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces the $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
