package analyze

import "testing"

func hasDelta(deltas []SignalDelta, name string, delta int) bool {
	for _, d := range deltas {
		if d.Name == name && d.Delta == delta {
			return true
		}
	}
	return false
}

func TestScoreConfidence_Base(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{}, nil, Completion{})
	if c.Score != confidenceBase {
		t.Errorf("score = %d, want base %d with no signals", c.Score, confidenceBase)
	}
	if c.Assessment != "medium" {
		t.Errorf("assessment = %q, want medium at 50", c.Assessment)
	}
}

func TestScoreConfidence_PositiveSignals(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{
		HasEdits:     true,
		GitOps:       GitOps{HasCommit: true},
		HasTestRun:   true,
		FilesTouched: 2,
	}, nil, Completion{})
	// 50 + 15 + 20 + 15 + 10 = 110, clamped.
	if c.Score != 100 {
		t.Errorf("score = %d, want clamp at 100", c.Score)
	}
	if c.Assessment != "high" {
		t.Errorf("assessment = %q, want high", c.Assessment)
	}
	if !hasDelta(c.Positive, "has_edits", 15) {
		t.Errorf("positive signals missing has_edits: %v", c.Positive)
	}
	if !hasDelta(c.Positive, "successful_commit", 20) {
		t.Errorf("positive signals missing successful_commit: %v", c.Positive)
	}
}

func TestScoreConfidence_FailedCommitNotSuccessful(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{
		GitOps: GitOps{HasCommit: true, HasFailedCommit: true},
	}, nil, Completion{})
	// No +20 for the commit; -15 for the failure. 50 - 15 = 35.
	if c.Score != 35 {
		t.Errorf("score = %d, want 35", c.Score)
	}
	if !hasDelta(c.Negative, "failed_commit", -15) {
		t.Errorf("negative signals = %v, want failed_commit -15", c.Negative)
	}
}

func TestScoreConfidence_MultipleFilesBonus(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{FilesTouched: 4}, nil, Completion{})
	// 50 + 10 (files) + 5 (more than 3).
	if c.Score != 65 {
		t.Errorf("score = %d, want 65", c.Score)
	}
}

func TestScoreConfidence_ErrorPenaltyCap(t *testing.T) {
	signals := []FailureSignal{
		{Kind: SignalErrorInCommands, Severity: 3},
		{Kind: SignalErrorInCommands, Severity: 3},
	}
	c := ScoreConfidence(ConfidenceInput{}, signals, Completion{})
	// Raw penalty 30 capped at 20: 50 - 20 = 30.
	if c.Score != 30 {
		t.Errorf("score = %d, want 30 with capped error penalty", c.Score)
	}
	if !hasDelta(c.Negative, "errors_detected", -20) {
		t.Errorf("negative signals = %v, want errors_detected -20", c.Negative)
	}
}

func TestScoreConfidence_ClampAtZero(t *testing.T) {
	signals := []FailureSignal{
		{Kind: SignalUserFrustration, Severity: 2},
		{Kind: SignalQuickAbandonment, Severity: 2},
		{Kind: SignalHighRetryRatio, Severity: 2},
		{Kind: SignalNoTangibleOutput, Severity: 1},
	}
	c := ScoreConfidence(ConfidenceInput{
		GitOps: GitOps{HasFailedCommit: true},
	}, signals, Completion{CriteriaMissing: []string{"has_edits"}})
	// 50 - 20 - 20 - 15 - 10 - 15 - 10 is well below zero.
	if c.Score != 0 {
		t.Errorf("score = %d, want clamp at 0", c.Score)
	}
	if c.Assessment != "low" {
		t.Errorf("assessment = %q, want low", c.Assessment)
	}
}

func TestScoreConfidence_ExplorationReads(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{
		TaskType: TaskExploration,
		HasReads: true,
		Duration: 4,
	}, nil, Completion{})
	// 50 + 5 (exploration_time >3) + 10 (reads without edits).
	if c.Score != 65 {
		t.Errorf("score = %d, want 65", c.Score)
	}
	if !hasDelta(c.Positive, "exploration_reads_ok", 10) {
		t.Errorf("positive signals = %v, want exploration_reads_ok", c.Positive)
	}
}

func TestScoreConfidence_DebugInvestigation(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{
		TaskType: TaskDebug,
		HasReads: true,
		Duration: 6,
	}, nil, Completion{})
	if !hasDelta(c.Positive, "debug_investigation", 10) {
		t.Errorf("positive signals = %v, want debug_investigation", c.Positive)
	}
}

func TestScoreConfidence_WorkTimeBonus(t *testing.T) {
	c := ScoreConfidence(ConfidenceInput{
		TaskType: TaskBugFix,
		Duration: 11,
	}, nil, Completion{})
	if !hasDelta(c.Positive, "sufficient_work_time", 5) {
		t.Errorf("positive signals = %v, want sufficient_work_time", c.Positive)
	}
}

func TestScoreConfidence_CriteriaTilt(t *testing.T) {
	met := Completion{CriteriaMet: []string{"a", "b"}, CriteriaMissing: []string{"c"}}
	c := ScoreConfidence(ConfidenceInput{}, nil, met)
	if c.Score != 60 {
		t.Errorf("score = %d, want 60 with criteria tilt up", c.Score)
	}

	missing := Completion{CriteriaMet: []string{"a"}, CriteriaMissing: []string{"b", "c"}}
	c = ScoreConfidence(ConfidenceInput{}, nil, missing)
	if c.Score != 40 {
		t.Errorf("score = %d, want 40 with criteria tilt down", c.Score)
	}
	if c.Assessment != "medium" {
		t.Errorf("assessment = %q, want medium at exactly 40", c.Assessment)
	}
}

func TestScoreConfidence_AssessmentBoundaries(t *testing.T) {
	// 50 + 15 (edits) + 5 (engagement) = 70 exactly.
	c := ScoreConfidence(ConfidenceInput{HasEdits: true, UserMessages: 3}, nil, Completion{})
	if c.Score != 70 || c.Assessment != "high" {
		t.Errorf("score/assessment = %d/%q, want 70/high", c.Score, c.Assessment)
	}
}
