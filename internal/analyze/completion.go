package analyze

// CompletionInput carries the facts the completion evaluator dispatches on.
type CompletionInput struct {
	TaskType     TaskType
	HasEdits     bool
	HasReads     bool
	FilesTouched int
	GitOps       GitOps
	Commands     []string
	ToolsUsed    []string
	Duration     float64 // minutes
	UserMessages int
}

// EvaluateCompletion decides whether a session's observable activity
// satisfies its task type's completion criteria.
//
// Each task type has its own rule set; types without a dedicated rule set
// (review, update, lookup, general) share the fallback heuristic. A nominal
// pass is always overridden when any failure signal of severity 2+ is
// present.
func EvaluateCompletion(in CompletionInput, failureSignals []FailureSignal) Completion {
	var met, missing []string
	var completed bool

	hasTestRun := anyCommandMatches(testPatterns, in.Commands)
	usedBash := containsAny(in.ToolsUsed, []string{"Bash"})

	switch in.TaskType {
	case TaskBugFix:
		// A fix needs code changes plus some verification that they took.
		if in.HasEdits {
			met = append(met, "has_edits")
		} else {
			missing = append(missing, "has_edits")
		}
		if hasTestRun || in.GitOps.HasCommit {
			met = append(met, "has_verification")
		} else {
			missing = append(missing, "has_verification (test or commit)")
		}
		completed = in.HasEdits && (hasTestRun || in.GitOps.HasCommit)

	case TaskFeature:
		if in.HasEdits {
			met = append(met, "has_edits")
		} else {
			missing = append(missing, "has_edits")
		}
		if in.FilesTouched > 0 {
			met = append(met, "files_touched")
		} else {
			missing = append(missing, "files_touched")
		}
		completed = in.HasEdits && in.FilesTouched > 0

	case TaskRefactor:
		// Refactoring that stayed inside one file rarely finished the job.
		if in.HasEdits {
			met = append(met, "has_edits")
		} else {
			missing = append(missing, "has_edits")
		}
		if in.FilesTouched > 1 {
			met = append(met, "multiple_files_touched")
		} else {
			missing = append(missing, "multiple_files_touched (>1)")
		}
		completed = in.HasEdits && in.FilesTouched > 1

	case TaskDebug:
		// Investigation can complete without edits; it needs reading time
		// and a real back-and-forth.
		if in.HasReads {
			met = append(met, "has_reads")
		}
		if in.Duration > 5 {
			met = append(met, "sufficient_investigation_time")
		} else {
			missing = append(missing, "sufficient_investigation_time (>5 min)")
		}
		completed = in.HasReads && in.Duration > 5 && in.UserMessages > 1

	case TaskTesting:
		if hasTestRun {
			met = append(met, "test_execution")
		} else {
			missing = append(missing, "test_execution")
		}
		if in.HasEdits {
			met = append(met, "has_edits")
		}
		completed = hasTestRun

	case TaskConfig:
		if in.HasEdits {
			met = append(met, "has_edits")
		}
		if usedBash {
			met = append(met, "bash_execution")
		}
		completed = in.HasEdits || usedBash

	case TaskExploration:
		if in.HasReads {
			met = append(met, "has_reads")
		} else {
			missing = append(missing, "has_reads")
		}
		if in.UserMessages > 1 {
			met = append(met, "user_interaction")
		} else {
			missing = append(missing, "user_interaction (>1 message)")
		}
		completed = in.HasReads && in.UserMessages > 1

	default:
		if in.HasEdits {
			met = append(met, "has_edits")
		}
		if in.FilesTouched > 0 {
			met = append(met, "files_touched")
		}
		if in.GitOps.HasCommit || in.GitOps.HasPush {
			met = append(met, "git_changes")
		}
		completed = in.HasEdits ||
			(in.FilesTouched > 0 && (in.GitOps.HasCommit || in.GitOps.HasPush))
	}

	if completed && HasHighSeverity(failureSignals) {
		completed = false
		missing = append(missing, "failure_signals_detected")
	}

	var ctype CompletionType
	switch {
	case completed:
		ctype = CompletionFull
	case len(met) > 0 && len(met) > len(missing):
		ctype = CompletionPartial
	default:
		ctype = CompletionNone
	}

	return Completion{
		Completed:       completed,
		Type:            ctype,
		CriteriaMet:     met,
		CriteriaMissing: missing,
		FailureSeverity: TotalSeverity(failureSignals),
	}
}
