package test

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// slBinary is the path to the compiled sessionlens binary, set by TestMain.
var slBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	tmpDir, err := os.MkdirTemp("", "sessionlens-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	slBinary = filepath.Join(tmpDir, "sessionlens")
	cmd := exec.Command("go", "build", "-o", slBinary, "./cmd/sessionlens")
	// Test working dir is test/, so go up one level to project root
	cmd.Dir = filepath.Join("..")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build sessionlens binary: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// --- Fixtures ---

const bugfixSessionID = "0190aaaa-bbbb-4ccc-8ddd-eeeeffff0001"
const lookupSessionID = "0190aaaa-bbbb-4ccc-8ddd-eeeeffff0002"
const hookSessionID = "0190aaaa-bbbb-4ccc-8ddd-eeeeffff0003"

// fixtureBugFix: a 25-minute bug fix in /home/dev/payments with an edit, a
// test run, and a successful commit. Should come out completed with high
// confidence.
const fixtureBugFix = `{"type":"user","uuid":"u1","timestamp":"2026-06-15T10:00:00Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","gitBranch":"fix/PAY-42-parser","message":{"role":"user","content":"Fix the crash in the payment parser"}}
{"type":"assistant","uuid":"a1","timestamp":"2026-06-15T10:05:00Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","gitBranch":"fix/PAY-42-parser","message":{"role":"assistant","content":[{"type":"text","text":"Looking at the parser now."},{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/home/dev/payments/internal/parse.go","old_string":"amt := p.Amount","new_string":"if p == nil { return nil }\namt := p.Amount"}},{"type":"tool_use","id":"t2","name":"Bash","input":{"command":"go test ./..."}}]}}
{"type":"user","uuid":"u1r","timestamp":"2026-06-15T10:05:30Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t2","content":"ok  payments/internal 0.4s"}]}}
{"type":"assistant","uuid":"a2","timestamp":"2026-06-15T10:15:00Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","gitBranch":"fix/PAY-42-parser","message":{"role":"assistant","content":[{"type":"text","text":"Tests pass, committing."},{"type":"tool_use","id":"t3","name":"Bash","input":{"command":"git commit -m 'guard nil amount in parser'"}}]}}
{"type":"user","uuid":"u2","timestamp":"2026-06-15T10:20:00Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","gitBranch":"fix/PAY-42-parser","message":{"role":"user","content":"Great, looks good"}}
{"type":"assistant","uuid":"a3","timestamp":"2026-06-15T10:25:00Z","sessionId":"` + bugfixSessionID + `","cwd":"/home/dev/payments","gitBranch":"fix/PAY-42-parser","message":{"role":"assistant","content":[{"type":"text","text":"Done. The parser now guards nil amounts."}]}}
`

// fixtureLookup: a one-minute read-only question in /home/dev/webapp.
// Should come out as a lookup with outcome lookup_complete.
const fixtureLookup = `{"type":"user","uuid":"u1","timestamp":"2026-07-10T09:00:00Z","sessionId":"` + lookupSessionID + `","cwd":"/home/dev/webapp","gitBranch":"main","message":{"role":"user","content":"find the retry wrapper for me"}}
{"type":"assistant","uuid":"a1","timestamp":"2026-07-10T09:00:30Z","sessionId":"` + lookupSessionID + `","cwd":"/home/dev/webapp","gitBranch":"main","message":{"role":"assistant","content":[{"type":"text","text":"Checking the client package."},{"type":"tool_use","id":"t1","name":"Read","input":{"file_path":"/home/dev/webapp/internal/client/retry.go"}}]}}
{"type":"user","uuid":"u1r","timestamp":"2026-07-10T09:00:40Z","sessionId":"` + lookupSessionID + `","cwd":"/home/dev/webapp","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"package client ..."}]}}
{"type":"assistant","uuid":"a2","timestamp":"2026-07-10T09:01:00Z","sessionId":"` + lookupSessionID + `","cwd":"/home/dev/webapp","gitBranch":"main","message":{"role":"assistant","content":[{"type":"text","text":"It lives in internal/client/retry.go."}]}}
`

// fixtureHookSession: a short fix delivered via the SessionEnd hook after
// the initial analyze run, exercising the artifact upsert path.
const fixtureHookSession = `{"type":"user","uuid":"u1","timestamp":"2026-06-16T12:00:00Z","sessionId":"` + hookSessionID + `","cwd":"/home/dev/payments","gitBranch":"main","message":{"role":"user","content":"fix the failing unit test in the scheduler"}}
{"type":"assistant","uuid":"a1","timestamp":"2026-06-16T12:05:00Z","sessionId":"` + hookSessionID + `","cwd":"/home/dev/payments","gitBranch":"main","message":{"role":"assistant","content":[{"type":"text","text":"The assertion is stale, updating it."},{"type":"tool_use","id":"t1","name":"Edit","input":{"file_path":"/home/dev/payments/internal/sched/sched_test.go","old_string":"want 3","new_string":"want 4"}}]}}
{"type":"user","uuid":"u2","timestamp":"2026-06-16T12:10:00Z","sessionId":"` + hookSessionID + `","cwd":"/home/dev/payments","gitBranch":"main","message":{"role":"user","content":"thanks"}}
{"type":"assistant","uuid":"a2","timestamp":"2026-06-16T12:12:00Z","sessionId":"` + hookSessionID + `","cwd":"/home/dev/payments","gitBranch":"main","message":{"role":"assistant","content":[{"type":"text","text":"Done, the scheduler test passes now."}]}}
`

// --- Helpers ---

func runSL(t *testing.T, env []string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(slBinary, args...)
	cmd.Env = env
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func mustRunSL(t *testing.T, env []string, args ...string) (stdout, stderr string) {
	t.Helper()
	stdout, stderr, err := runSL(t, env, args...)
	if err != nil {
		t.Fatalf("sessionlens %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout, stderr
}

func runSLWithStdin(t *testing.T, env []string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(slBinary, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func writeFixture(t *testing.T, dir, filename, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

func buildEnv(home, xdgConfigHome string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + xdgConfigHome,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: expected output to contain %q", msg, substr)
	}
}

func assertNotContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if strings.Contains(s, substr) {
		t.Errorf("%s: expected output to NOT contain %q", msg, substr)
	}
}

// readAnalysis decodes the per-session analysis artifact.
func readAnalysis(t *testing.T, outputDir string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outputDir, "session_analysis.json"))
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var results []map[string]any
	if err := json.Unmarshal(data, &results); err != nil {
		t.Fatalf("unmarshal analysis: %v", err)
	}
	return results
}

func findSession(t *testing.T, results []map[string]any, sessionID string) map[string]any {
	t.Helper()
	for _, r := range results {
		if r["session_id"] == sessionID {
			return r
		}
	}
	t.Fatalf("session %s not in analysis", sessionID)
	return nil
}

// --- Integration Test ---

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	// Isolated directories for everything the binary touches
	home := t.TempDir()
	xdgConfigHome := t.TempDir()
	projectsDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "out")
	fixtureDir := t.TempDir()

	env := buildEnv(home, xdgConfigHome)

	// Transcript layout mirrors ~/.claude/projects: one encoded directory
	// per project, UUID-named .jsonl files inside.
	writeFixture(t, filepath.Join(projectsDir, "-home-dev-payments"), bugfixSessionID+".jsonl", fixtureBugFix)
	writeFixture(t, filepath.Join(projectsDir, "-home-dev-webapp"), lookupSessionID+".jsonl", fixtureLookup)
	writeFixture(t, filepath.Join(projectsDir, "-home-dev-payments"), "agent-0190dead-beef-4abc-8def-000011112222.jsonl", fixtureLookup)
	writeFixture(t, filepath.Join(projectsDir, "-home-dev-payments"), "notes.txt", "not a transcript")

	hookTranscript := writeFixture(t, fixtureDir, hookSessionID+".jsonl", fixtureHookSession)

	cfgFile := writeFixture(t, t.TempDir(), "config.toml", fmt.Sprintf(`
projects_dir = %q
output_dir = %q
days_back = 0

[report]
title = "Integration Report"
html = false
`, projectsDir, outputDir))

	// 1. init writes a default config under XDG_CONFIG_HOME
	t.Run("init", func(t *testing.T) {
		_, stderr := mustRunSL(t, env, "init")
		assertContains(t, stderr, "wrote", "init stderr")

		cfgPath := filepath.Join(xdgConfigHome, "sessionlens", "config.toml")
		if !fileExists(cfgPath) {
			t.Fatal("config.toml not created")
		}
		assertContains(t, readFile(t, cfgPath), "projects_dir", "config content")
	})

	// 2. analyze scans the projects dir and writes the artifacts
	t.Run("analyze", func(t *testing.T) {
		stdout, stderr := mustRunSL(t, env, "analyze", "--config", cfgFile)

		assertContains(t, stderr, "wrote", "analyze stderr")
		assertContains(t, stdout, "OVERALL SUMMARY", "terminal report")
		assertContains(t, stdout, "bug_fix", "task type in report")

		if !fileExists(filepath.Join(outputDir, "session_analysis.json")) {
			t.Fatal("session_analysis.json not written")
		}
		if !fileExists(filepath.Join(outputDir, "aggregate_report.json")) {
			t.Fatal("aggregate_report.json not written")
		}

		// Agent sub-session and the stray .txt file are skipped.
		results := readAnalysis(t, outputDir)
		if len(results) != 2 {
			t.Fatalf("analysis results = %d, want 2", len(results))
		}

		bugfix := findSession(t, results, bugfixSessionID)
		task := bugfix["task_analysis"].(map[string]any)
		if task["task_type"] != "bug_fix" {
			t.Errorf("bugfix task_type = %v", task["task_type"])
		}
		if task["outcome"] != "completed" {
			t.Errorf("bugfix outcome = %v", task["outcome"])
		}
		if task["ticket"] != "PAY-42" {
			t.Errorf("bugfix ticket = %v", task["ticket"])
		}

		lookup := findSession(t, results, lookupSessionID)
		ltask := lookup["task_analysis"].(map[string]any)
		if ltask["outcome"] != "lookup_complete" {
			t.Errorf("lookup outcome = %v", ltask["outcome"])
		}
	})

	// 3. list shows analyzed sessions; --raw lists transcripts on disk
	t.Run("list", func(t *testing.T) {
		stdout, _ := mustRunSL(t, env, "list", "--config", cfgFile)
		assertContains(t, stdout, "2 analyzed sessions", "list header")
		assertContains(t, stdout, "Fix the crash in the payment parser", "list task line")
		assertContains(t, stdout, "payments", "list project name")

		projStdout, _ := mustRunSL(t, env, "list", "--config", cfgFile, "--project", "webapp")
		assertContains(t, projStdout, "find the retry wrapper", "filtered list")
		assertNotContains(t, projStdout, "payment parser", "filter excludes other project")

		rawStdout, _ := mustRunSL(t, env, "list", "--config", cfgFile, "--raw")
		assertContains(t, rawStdout, "2 transcripts", "raw list header")
		assertContains(t, rawStdout, bugfixSessionID, "raw list session id")
	})

	// 4. report renders the HTML page
	t.Run("report", func(t *testing.T) {
		htmlPath := filepath.Join(outputDir, "report.html")
		_, stderr := mustRunSL(t, env, "report", "--config", cfgFile)
		assertContains(t, stderr, "wrote", "report stderr")

		if !fileExists(htmlPath) {
			t.Fatal("report.html not written")
		}
		html := readFile(t, htmlPath)
		assertContains(t, html, "<title>Integration Report</title>", "report title")
		assertContains(t, html, "payments", "report project")
		assertContains(t, html, "lookup_complete", "report outcome")
	})

	// 5. export in each format
	t.Run("export", func(t *testing.T) {
		jsonlOut, _ := mustRunSL(t, env, "export", "--config", cfgFile, "--format", "jsonl")
		lines := strings.Split(strings.TrimSpace(jsonlOut), "\n")
		if len(lines) != 2 {
			t.Fatalf("jsonl lines = %d, want 2", len(lines))
		}
		for i, line := range lines {
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err != nil {
				t.Errorf("jsonl line %d not valid JSON: %v", i, err)
			}
		}

		mdOut, _ := mustRunSL(t, env, "export", "--config", cfgFile, "--format", "md")
		assertContains(t, mdOut, "# ", "markdown heading")
		assertContains(t, mdOut, "Fix the crash in the payment parser", "markdown task")

		yamlPath := filepath.Join(t.TempDir(), "out.yaml")
		_, stderr := mustRunSL(t, env, "export", "--config", cfgFile, "--format", "yaml", "--output", yamlPath)
		assertContains(t, stderr, "exported 2 sessions", "yaml export stderr")
		if !fileExists(yamlPath) {
			t.Fatal("yaml export not written")
		}

		_, _, err := runSL(t, env, "export", "--config", cfgFile, "--format", "xml")
		if err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	// 6. trends over the analyzed weeks
	t.Run("trends", func(t *testing.T) {
		stdout, _ := mustRunSL(t, env, "trends", "--config", cfgFile)
		assertContains(t, stdout, "Overview", "trends overview")
		assertContains(t, stdout, "2 weeks", "trends week count")

		projStdout, _ := mustRunSL(t, env, "trends", "--config", cfgFile, "--project", "payments")
		assertContains(t, projStdout, "payments", "trends project filter")
	})

	// 7. check passes once the artifacts exist
	t.Run("check", func(t *testing.T) {
		stdout, _ := mustRunSL(t, env, "check", "--config", cfgFile)
		assertContains(t, stdout, "passed", "check summary")
		assertNotContains(t, stdout, "FAIL", "no failed checks")
	})

	// 8. hook install / uninstall edits ~/.claude/settings.json
	t.Run("hook_install_uninstall", func(t *testing.T) {
		mustRunSL(t, env, "hook", "install")
		settingsPath := filepath.Join(home, ".claude", "settings.json")
		if !fileExists(settingsPath) {
			t.Fatal("settings.json not created")
		}
		settings := readFile(t, settingsPath)
		assertContains(t, settings, "SessionEnd", "hook event registered")
		assertContains(t, settings, "sessionlens hook", "hook command registered")

		mustRunSL(t, env, "hook", "uninstall")
		assertNotContains(t, readFile(t, settingsPath), "sessionlens hook", "hook removed")
	})

	// 9. SessionEnd hook folds a new session into the saved artifacts
	t.Run("hook_session_end", func(t *testing.T) {
		input, _ := json.Marshal(map[string]string{
			"session_id":      hookSessionID,
			"transcript_path": hookTranscript,
			"hook_event_name": "SessionEnd",
			"cwd":             "/home/dev/payments",
		})

		_, stderr, err := runSLWithStdin(t, env, string(input), "hook", "--config", cfgFile)
		if err != nil {
			t.Fatalf("hook failed: %v\nstderr: %s", err, stderr)
		}

		results := readAnalysis(t, outputDir)
		if len(results) != 3 {
			t.Fatalf("analysis results after hook = %d, want 3", len(results))
		}
		hooked := findSession(t, results, hookSessionID)
		if hooked["project"] != "/home/dev/payments" {
			t.Errorf("hook project = %v", hooked["project"])
		}

		// Re-firing the hook for the same session replaces, not appends.
		_, stderr, err = runSLWithStdin(t, env, string(input), "hook", "--config", cfgFile)
		if err != nil {
			t.Fatalf("second hook failed: %v\nstderr: %s", err, stderr)
		}
		if results := readAnalysis(t, outputDir); len(results) != 3 {
			t.Errorf("analysis results after rerun = %d, want 3", len(results))
		}
	})

	// 10. version
	t.Run("version", func(t *testing.T) {
		stdout, _ := mustRunSL(t, env, "version")
		assertContains(t, stdout, "sessionlens v", "version output")
	})

	// 11. analyze --compress swaps transcripts for .zst archives
	t.Run("analyze_compress", func(t *testing.T) {
		_, stderr := mustRunSL(t, env, "analyze", "--config", cfgFile, "--quiet", "--compress")
		assertContains(t, stderr, "compressed 2 transcripts", "compress stderr")

		plain := filepath.Join(projectsDir, "-home-dev-payments", bugfixSessionID+".jsonl")
		if fileExists(plain) {
			t.Error("original transcript still present after compress")
		}
		if !fileExists(plain + ".zst") {
			t.Error("compressed transcript missing")
		}

		// Compressed transcripts still analyze.
		stdout, _ := mustRunSL(t, env, "analyze", "--config", cfgFile)
		assertContains(t, stdout, "Total sessions analyzed: 2", "reanalyze after compress")
	})
}
