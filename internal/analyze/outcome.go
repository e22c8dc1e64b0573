package analyze

// OutcomeInput carries everything the outcome resolver combines.
type OutcomeInput struct {
	PriorOutcome string // externally-supplied outcome, authoritative when set
	TaskType     TaskType
	SessionType  SessionType
	HasReads     bool
	UserMessages int
	Duration     float64 // minutes
	ToolCalls    int
	HasIssues    bool
}

// ResolveOutcome combines task type, completion evaluation, confidence, and
// failure signals into one outcome label.
//
// When the record carries a prior outcome, the two legacy values are remapped
// into the expanded taxonomy and everything else passes through unchanged.
// The legacy "had_issues" remap intentionally keys off the evaluator's
// completed flag rather than the confidence score; the two completion
// signals are reconciled here, not unified.
//
// The fresh-derivation path is a fixed-precedence ladder with
// first-match-wins semantics.
func ResolveOutcome(in OutcomeInput, completion Completion, confidence Confidence, failureSignals []FailureSignal) Outcome {
	hasFrustration := hasSignal(failureSignals, SignalUserFrustration)
	hasAbandonment := hasSignal(failureSignals, SignalQuickAbandonment)

	if in.PriorOutcome != "" {
		switch in.PriorOutcome {
		case "completed":
			if in.HasIssues {
				return OutcomeCompletedWithIssues
			}
			return OutcomeCompleted
		case "had_issues":
			if hasAbandonment || hasFrustration {
				return OutcomeAbandoned
			}
			if completion.Completed {
				return OutcomeCompletedWithIssues
			}
			return OutcomePartiallyCompleted
		default:
			return Outcome(in.PriorOutcome)
		}
	}

	switch {
	case confidence.Score >= CompletionConfidenceThreshold:
		if in.HasIssues {
			return OutcomeCompletedWithIssues
		}
		return OutcomeCompleted

	case in.TaskType == TaskExploration && in.HasReads && in.UserMessages > 1:
		return OutcomeExplorationComplete

	case (in.SessionType == SessionLookup || in.TaskType == TaskLookup) &&
		in.HasReads && in.UserMessages >= 1 && !hasFrustration:
		return OutcomeLookupComplete

	case hasAbandonment || hasFrustration:
		return OutcomeAbandoned

	case completion.Type == CompletionPartial:
		return OutcomePartiallyCompleted

	case hasSignal(failureSignals, SignalErrorInCommands) || hasSignal(failureSignals, SignalFailedGitCommit):
		// Long, busy sessions that still hit errors look externally blocked;
		// anything shorter reads as partial progress.
		if in.Duration > 10 && in.ToolCalls > 20 {
			return OutcomeBlocked
		}
		return OutcomePartiallyCompleted

	default:
		return OutcomeUnclear
	}
}

// LikelyCompleted is the boolean rollup used by aggregation: the confidence
// score cleared the threshold, or the session was a completed lookup or
// exploration.
func LikelyCompleted(confidence Confidence, outcome Outcome) bool {
	return confidence.Score >= CompletionConfidenceThreshold ||
		outcome == OutcomeLookupComplete ||
		outcome == OutcomeExplorationComplete
}
