// Package hook integrates with Claude Code's hook mechanism: on SessionEnd
// it analyzes the finished session and folds it into the saved artifacts, so
// the analysis stays current without a scheduled run.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/johns/sessionlens/internal/aggregate"
	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/config"
	"github.com/johns/sessionlens/internal/discover"
	"github.com/johns/sessionlens/internal/session"
	"github.com/johns/sessionlens/internal/transcript"
)

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	CWD            string `json:"cwd"`
	Reason         string `json:"reason,omitempty"`
}

// Handle reads hook input from stdin and processes it.
func Handle(cfg config.Config, event string) error {
	input, err := readStdin()
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	// Event override for manual testing (e.g. --event SessionEnd)
	if event != "" {
		input.HookEventName = event
	}

	// Skip context clears
	if input.Reason == "clear" {
		return nil
	}

	switch input.HookEventName {
	case "SessionEnd", "":
		return handleSessionEnd(input, cfg)
	default:
		return fmt.Errorf("unknown hook event: %s", input.HookEventName)
	}
}

func readStdin() (*Input, error) {
	// Read all stdin with a timeout
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty stdin")
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}

	return &input, nil
}

func handleSessionEnd(input *Input, cfg config.Config) error {
	if input.TranscriptPath == "" {
		return fmt.Errorf("no transcript_path in hook input")
	}

	t, err := transcript.ParseFile(input.TranscriptPath)
	if err != nil {
		return fmt.Errorf("parse transcript: %w", err)
	}

	project := input.CWD
	if project == "" {
		project = discover.DecodeProjectName(filepath.Base(filepath.Dir(input.TranscriptPath)))
	}
	rec := session.FromTranscript(t, project)
	if rec.SessionID == "" {
		rec.SessionID = input.SessionID
	}
	rec.Metadata.FullProjectPath = project

	result := analyze.Analyze(rec)
	if err := upsertResult(cfg, result); err != nil {
		return fmt.Errorf("update artifacts: %w", err)
	}

	fmt.Fprintf(os.Stderr, "sessionlens: %s → %s (confidence %d)\n",
		discover.ShortProject(project), result.Task.Outcome, result.Completion.ConfidenceScore)
	return nil
}

// upsertResult merges one analysis into the saved artifacts, replacing any
// previous analysis of the same session.
func upsertResult(cfg config.Config, result analyze.Result) error {
	results, err := readResults(cfg.AnalysisPath())
	if err != nil {
		return err
	}

	replaced := false
	for i := range results {
		if results[i].SessionID == result.SessionID {
			results[i] = result
			replaced = true
			break
		}
	}
	if !replaced {
		results = append(results, result)
	}

	if err := writeJSON(cfg.AnalysisPath(), results); err != nil {
		return err
	}
	return writeJSON(cfg.ReportPath(), aggregate.Build(results))
}

func readResults(path string) ([]analyze.Result, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var results []analyze.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return results, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
