package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/config"
	"github.com/johns/sessionlens/internal/session"
)

const hookTranscript = `{"type":"user","uuid":"a","timestamp":"2026-03-02T09:00:00Z","sessionId":"hook-session","cwd":"/home/user/src/app","gitBranch":"main","message":{"role":"user","content":"fix the config loader bug"}}
{"type":"assistant","uuid":"b","timestamp":"2026-03-02T09:08:00Z","sessionId":"hook-session","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"loader.go"}}]}}
{"type":"user","uuid":"c","timestamp":"2026-03-02T09:10:00Z","sessionId":"hook-session","message":{"role":"user","content":"thanks, looks good"}}`

func writeHookTranscript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook-session.jsonl")
	if err := os.WriteFile(path, []byte(hookTranscript), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadResults(t *testing.T, path string) []analyze.Result {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifacts: %v", err)
	}
	var results []analyze.Result
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("parse artifacts: %v", err)
	}
	return results
}

func TestHandleSessionEnd(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}
	input := &Input{
		SessionID:      "hook-session",
		TranscriptPath: writeHookTranscript(t),
		HookEventName:  "SessionEnd",
		CWD:            "/home/user/src/app",
	}

	if err := handleSessionEnd(input, cfg); err != nil {
		t.Fatalf("handleSessionEnd: %v", err)
	}

	results := loadResults(t, cfg.AnalysisPath())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.SessionID != "hook-session" {
		t.Errorf("session id = %q", r.SessionID)
	}
	if r.Project != "/home/user/src/app" {
		t.Errorf("project = %q", r.Project)
	}
	if r.Task.TaskType != analyze.TaskBugFix {
		t.Errorf("task type = %q, want bug_fix", r.Task.TaskType)
	}

	// The aggregate artifact is rewritten alongside the analysis.
	if _, err := os.Stat(cfg.ReportPath()); err != nil {
		t.Error("aggregate report not written")
	}
}

func TestHandleSessionEnd_ProjectFromPath(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}

	dir := filepath.Join(t.TempDir(), "-home-user-src-app")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "hook-session.jsonl")
	if err := os.WriteFile(path, []byte(hookTranscript), 0o644); err != nil {
		t.Fatal(err)
	}

	input := &Input{TranscriptPath: path}
	if err := handleSessionEnd(input, cfg); err != nil {
		t.Fatalf("handleSessionEnd: %v", err)
	}

	results := loadResults(t, cfg.AnalysisPath())
	if results[0].Project != "/home/user/src/app" {
		t.Errorf("project = %q, want decoded directory name", results[0].Project)
	}
}

func TestHandleSessionEnd_NoTranscript(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}
	if err := handleSessionEnd(&Input{}, cfg); err == nil {
		t.Error("missing transcript_path must error")
	}
}

func TestUpsertResult_ReplacesBySessionID(t *testing.T) {
	cfg := config.Config{OutputDir: t.TempDir()}

	first := analyze.Result{SessionID: "s1", Project: "alpha",
		Metadata: session.Metadata{Duration: new(float64)},
		Statistics: session.Statistics{UserMessages: 1}}
	if err := upsertResult(cfg, first); err != nil {
		t.Fatal(err)
	}
	second := analyze.Result{SessionID: "s2", Project: "beta",
		Metadata: session.Metadata{Duration: new(float64)},
		Statistics: session.Statistics{UserMessages: 1}}
	if err := upsertResult(cfg, second); err != nil {
		t.Fatal(err)
	}

	// Re-analyzing s1 replaces it in place.
	updated := first
	updated.Project = "alpha-renamed"
	if err := upsertResult(cfg, updated); err != nil {
		t.Fatal(err)
	}

	results := loadResults(t, cfg.AnalysisPath())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].SessionID != "s1" || results[0].Project != "alpha-renamed" {
		t.Errorf("first result = %q/%q", results[0].SessionID, results[0].Project)
	}
	if results[1].SessionID != "s2" {
		t.Errorf("second result = %q", results[1].SessionID)
	}
}

func TestReadResults_Missing(t *testing.T) {
	results, err := readResults(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil || results != nil {
		t.Errorf("missing artifacts = %v/%v, want nil/nil", results, err)
	}
}
