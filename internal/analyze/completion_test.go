package analyze

import "testing"

func containsString(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}

func TestEvaluateCompletion_BugFixVerified(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType: TaskBugFix,
		HasEdits: true,
		Commands: []string{"go test ./..."},
	}, nil)
	if !c.Completed || c.Type != CompletionFull {
		t.Errorf("verified bug fix should complete, got %+v", c)
	}
	if !containsString(c.CriteriaMet, "has_verification") {
		t.Errorf("criteria met = %v, want has_verification", c.CriteriaMet)
	}
}

func TestEvaluateCompletion_BugFixCommitCountsAsVerification(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType: TaskBugFix,
		HasEdits: true,
		GitOps:   GitOps{HasCommit: true},
	}, nil)
	if !c.Completed {
		t.Error("commit should satisfy verification")
	}
}

func TestEvaluateCompletion_BugFixUnverified(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType: TaskBugFix,
		HasEdits: true,
	}, nil)
	if c.Completed {
		t.Error("edits without verification must not complete a bug fix")
	}
	if !containsString(c.CriteriaMissing, "has_verification (test or commit)") {
		t.Errorf("criteria missing = %v", c.CriteriaMissing)
	}
	// 1 met vs 1 missing: partial needs strictly more met than missing.
	if c.Type != CompletionNone {
		t.Errorf("type = %q, want not_completed", c.Type)
	}
}

func TestEvaluateCompletion_Feature(t *testing.T) {
	// One touched file is enough for a feature, unlike a refactor.
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskFeature,
		HasEdits:     true,
		FilesTouched: 1,
	}, nil)
	if !c.Completed {
		t.Errorf("feature with edits and one file should complete, got %+v", c)
	}
}

func TestEvaluateCompletion_RefactorSingleFile(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskRefactor,
		HasEdits:     true,
		FilesTouched: 1,
	}, nil)
	if c.Completed {
		t.Error("single-file refactor must not complete")
	}
	if !containsString(c.CriteriaMissing, "multiple_files_touched (>1)") {
		t.Errorf("criteria missing = %v", c.CriteriaMissing)
	}
}

func TestEvaluateCompletion_Debug(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskDebug,
		HasReads:     true,
		Duration:     6,
		UserMessages: 3,
	}, nil)
	if !c.Completed {
		t.Errorf("debug with reads, time and dialogue should complete, got %+v", c)
	}
}

func TestEvaluateCompletion_DebugTooShort(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskDebug,
		HasReads:     true,
		Duration:     5, // boundary: needs strictly more
		UserMessages: 3,
	}, nil)
	if c.Completed {
		t.Error("5 minutes exactly is not sufficient investigation time")
	}
	if !containsString(c.CriteriaMissing, "sufficient_investigation_time (>5 min)") {
		t.Errorf("criteria missing = %v", c.CriteriaMissing)
	}
}

func TestEvaluateCompletion_Testing(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType: TaskTesting,
		Commands: []string{"pytest tests/"},
	}, nil)
	if !c.Completed {
		t.Error("running the suite completes a testing session")
	}
}

func TestEvaluateCompletion_ConfigBashOnly(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:  TaskConfig,
		ToolsUsed: []string{"Bash"},
	}, nil)
	if !c.Completed {
		t.Error("config work via Bash alone should complete")
	}
}

func TestEvaluateCompletion_Exploration(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskExploration,
		HasReads:     true,
		UserMessages: 1,
	}, nil)
	if c.Completed {
		t.Error("exploration needs more than one user message")
	}
	if !containsString(c.CriteriaMissing, "user_interaction (>1 message)") {
		t.Errorf("criteria missing = %v", c.CriteriaMissing)
	}
}

func TestEvaluateCompletion_FallbackGitPath(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskGeneral,
		FilesTouched: 1,
		GitOps:       GitOps{HasPush: true},
	}, nil)
	if !c.Completed {
		t.Error("files plus push completes under the fallback rules")
	}
}

func TestEvaluateCompletion_FailureOverride(t *testing.T) {
	signals := []FailureSignal{{Kind: SignalUserFrustration, Severity: 2}}
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskFeature,
		HasEdits:     true,
		FilesTouched: 2,
	}, signals)
	if c.Completed {
		t.Error("severity-2 signal must override a nominal pass")
	}
	if !containsString(c.CriteriaMissing, "failure_signals_detected") {
		t.Errorf("criteria missing = %v", c.CriteriaMissing)
	}
	if c.FailureSeverity != 2 {
		t.Errorf("failure severity = %d, want 2", c.FailureSeverity)
	}
}

func TestEvaluateCompletion_LowSeverityNoOverride(t *testing.T) {
	signals := []FailureSignal{{Kind: SignalReadWithoutEdit, Severity: 1}}
	c := EvaluateCompletion(CompletionInput{
		TaskType:     TaskFeature,
		HasEdits:     true,
		FilesTouched: 2,
	}, signals)
	if !c.Completed {
		t.Error("severity-1 signals do not override completion")
	}
}

func TestEvaluateCompletion_NoneType(t *testing.T) {
	c := EvaluateCompletion(CompletionInput{TaskType: TaskFeature}, nil)
	if c.Type != CompletionNone {
		t.Errorf("type = %q, want not_completed when nothing was met", c.Type)
	}
}
