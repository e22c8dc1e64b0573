package analyze

// ConfidenceInput carries the facts the confidence scorer weighs.
type ConfidenceInput struct {
	TaskType     TaskType
	HasEdits     bool
	HasReads     bool
	FilesTouched int
	GitOps       GitOps
	HasTestRun   bool
	Duration     float64 // minutes
	UserMessages int
}

// ScoreConfidence produces a 0-100 trust score for the completion call.
// The score starts at 50 and every observed signal adds or subtracts points;
// signals are not mutually exclusive, so several can fire for one session.
func ScoreConfidence(in ConfidenceInput, failureSignals []FailureSignal, completion Completion) Confidence {
	score := confidenceBase
	var positive, negative []SignalDelta

	add := func(name string, delta int) {
		score += delta
		positive = append(positive, SignalDelta{Name: name, Delta: delta})
	}
	sub := func(name string, delta int) {
		score -= delta
		negative = append(negative, SignalDelta{Name: name, Delta: -delta})
	}

	if in.HasEdits {
		add("has_edits", 15)
	}
	if in.GitOps.HasCommit && !in.GitOps.HasFailedCommit {
		add("successful_commit", 20)
	}
	if in.GitOps.HasPush {
		add("git_push", 10)
	}
	if in.HasTestRun {
		add("tests_ran", 15)
	}
	if in.FilesTouched > 0 {
		add("files_touched", 10)
		if in.FilesTouched > 3 {
			add("multiple_files", 5)
		}
	}
	if in.TaskType == TaskExploration && in.Duration > 3 {
		add("exploration_time", 5)
	} else if (in.TaskType == TaskBugFix || in.TaskType == TaskFeature || in.TaskType == TaskRefactor) && in.Duration > 10 {
		add("sufficient_work_time", 5)
	}
	if in.UserMessages > 2 {
		add("user_engagement", 5)
	}

	// Error penalty scales with how many error signals fired, capped at 20.
	errorPenalty := 0
	for _, s := range failureSignals {
		if s.Kind == SignalErrorInCommands {
			errorPenalty += s.Severity * 5
		}
	}
	if errorPenalty > 0 {
		if errorPenalty > 20 {
			errorPenalty = 20
		}
		sub("errors_detected", errorPenalty)
	}

	if in.GitOps.HasFailedCommit {
		sub("failed_commit", 15)
	}
	if hasSignal(failureSignals, SignalHighRetryRatio) {
		sub("high_retry_ratio", 15)
	}
	if hasSignal(failureSignals, SignalUserFrustration) {
		sub("user_frustration", 20)
	}
	if hasSignal(failureSignals, SignalQuickAbandonment) {
		sub("quick_abandonment", 20)
	}
	if hasSignal(failureSignals, SignalNoTangibleOutput) {
		sub("no_tangible_output", 10)
	}

	// Read-heavy sessions are fine for exploration and debug types.
	if in.TaskType == TaskExploration && in.HasReads && !in.HasEdits {
		add("exploration_reads_ok", 10)
	} else if in.TaskType == TaskDebug && in.HasReads && in.Duration > 5 {
		add("debug_investigation", 10)
	}

	if len(completion.CriteriaMet) > len(completion.CriteriaMissing) {
		add("criteria_met", 10)
	} else if len(completion.CriteriaMissing) > len(completion.CriteriaMet) {
		sub("criteria_missing", 10)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	assessment := "low"
	switch {
	case score >= 70:
		assessment = "high"
	case score >= 40:
		assessment = "medium"
	}

	return Confidence{
		Score:      score,
		Positive:   positive,
		Negative:   negative,
		Assessment: assessment,
	}
}
