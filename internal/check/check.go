// Package check verifies the sessionlens environment: config, transcript
// sources, output locations, and hook installation.
package check

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johns/sessionlens/internal/config"
	"github.com/johns/sessionlens/internal/discover"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "sessionlens check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("sessionlens check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// Run executes all checks against the loaded config.
func Run(cfg config.Config) Report {
	return Report{Results: []Result{
		CheckConfig(),
		CheckProjectsDir(cfg.ProjectsDir),
		CheckTranscripts(cfg.ProjectsDir),
		CheckOutputDir(cfg.OutputDir),
		CheckArtifacts(cfg),
		CheckHook(),
	}}
}

// CheckConfig reports the resolved config path. Always passes — broken TOML
// is caught when the config loads, before checks run.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	return Result{
		Name:   "config",
		Status: Pass,
		Detail: config.CompressHome(cfgPath),
	}
}

// CheckProjectsDir checks whether the transcript root exists.
func CheckProjectsDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "projects", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "projects", Status: Fail, Detail: path + " not found (is Claude Code installed?)"}
}

// CheckTranscripts reports how many transcripts discovery can see.
func CheckTranscripts(projectsDir string) Result {
	files, err := discover.Discover(projectsDir, discover.Options{})
	if err != nil {
		return Result{Name: "transcripts", Status: Fail, Detail: err.Error()}
	}
	if len(files) == 0 {
		return Result{Name: "transcripts", Status: Warn, Detail: "no transcripts found"}
	}
	return Result{Name: "transcripts", Status: Pass, Detail: fmt.Sprintf("%d transcripts", len(files))}
}

// CheckOutputDir checks that the output directory exists or can be created.
func CheckOutputDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "output", Status: Pass, Detail: config.CompressHome(path)}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Result{Name: "output", Status: Fail, Detail: fmt.Sprintf("cannot create %s: %v", path, err)}
	}
	return Result{Name: "output", Status: Pass, Detail: config.CompressHome(path) + " (created)"}
}

// CheckArtifacts reports whether an analysis artifact exists and parses.
func CheckArtifacts(cfg config.Config) Result {
	path := cfg.AnalysisPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Result{Name: "analysis", Status: Warn, Detail: "no analysis yet (run 'sessionlens analyze')"}
	}
	if err != nil {
		return Result{Name: "analysis", Status: Fail, Detail: err.Error()}
	}
	var results []json.RawMessage
	if err := json.Unmarshal(data, &results); err != nil {
		return Result{Name: "analysis", Status: Fail, Detail: fmt.Sprintf("%s is corrupt: %v", config.CompressHome(path), err)}
	}
	return Result{Name: "analysis", Status: Pass, Detail: fmt.Sprintf("%d sessions in %s", len(results), config.CompressHome(path))}
}

// CheckHook reports whether the SessionEnd hook is installed.
func CheckHook() Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: "cannot determine home directory"}
	}
	path := filepath.Join(home, ".claude", "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: "not installed (run 'sessionlens hook install')"}
	}
	if strings.Contains(string(data), "sessionlens hook") {
		return Result{Name: "hook", Status: Pass, Detail: "SessionEnd hook installed"}
	}
	return Result{Name: "hook", Status: Warn, Detail: "not installed (run 'sessionlens hook install')"}
}
