package analyze

import (
	"strings"

	"github.com/johns/sessionlens/internal/session"
)

// TaskType is the coarse label of what kind of work a session represents.
type TaskType string

const (
	TaskBugFix      TaskType = "bug_fix"
	TaskTesting     TaskType = "testing"
	TaskConfig      TaskType = "config"
	TaskReview      TaskType = "review"
	TaskExploration TaskType = "exploration"
	TaskDebug       TaskType = "debug"
	TaskRefactor    TaskType = "refactor"
	TaskFeature     TaskType = "feature"
	TaskUpdate      TaskType = "update"
	TaskLookup      TaskType = "lookup"
	TaskGeneral     TaskType = "general"
)

// SessionType is the coarse activity-based work/lookup split, independent of
// the keyword-based task type.
type SessionType string

const (
	SessionWork   SessionType = "work"
	SessionLookup SessionType = "lookup"
)

// Outcome is the final graded verdict on a session.
type Outcome string

const (
	OutcomeCompleted           Outcome = "completed"
	OutcomeCompletedWithIssues Outcome = "completed_with_issues"
	OutcomePartiallyCompleted  Outcome = "partially_completed"
	OutcomeExplorationComplete Outcome = "exploration_complete"
	OutcomeLookupComplete      Outcome = "lookup_complete"
	OutcomeAbandoned           Outcome = "abandoned"
	OutcomeBlocked             Outcome = "blocked"
	OutcomeUnclear             Outcome = "unclear"
)

// GitOps summarizes the git activity observed in a session's commands.
type GitOps struct {
	HasCommit       bool     `json:"has_commit"`
	HasPush         bool     `json:"has_push"`
	HasAdd          bool     `json:"has_add"`
	ReadOnly        bool     `json:"read_only"`
	HasFailedCommit bool     `json:"has_failed_commit"`
	CommitCount     int      `json:"commit_count"`
	GitCommands     []string `json:"git_commands"`
}

// SignalKind identifies one of the fixed failure-signal variants.
type SignalKind int

const (
	SignalErrorInCommands SignalKind = iota
	SignalHighRetryRatio
	SignalQuickAbandonment
	SignalReadWithoutEdit
	SignalFailedGitCommit
	SignalUserFrustration
	SignalNoTangibleOutput
)

var signalNames = [...]string{
	"error_in_commands",
	"high_retry_ratio",
	"quick_abandonment",
	"read_without_edit",
	"failed_git_commit",
	"user_frustration",
	"no_tangible_output",
}

func (k SignalKind) String() string {
	if int(k) < len(signalNames) {
		return signalNames[k]
	}
	return "unknown"
}

// FailureSignal is a detected indicator that a session struggled, stalled,
// or was abandoned. Severity ranges 1 (weak) to 3 (strong).
type FailureSignal struct {
	Kind        SignalKind `json:"type"`
	Severity    int        `json:"severity"`
	Description string     `json:"description"`
	Evidence    []string   `json:"evidence,omitempty"`
}

// MarshalText emits the signal kind name for JSON output.
func (k SignalKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a signal kind name, for reloading saved analyses.
func (k *SignalKind) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range signalNames {
		if name == s {
			*k = SignalKind(i)
			return nil
		}
	}
	*k = SignalKind(-1)
	return nil
}

// CompletionType grades how fully a session met its type's criteria.
type CompletionType string

const (
	CompletionFull    CompletionType = "completed"
	CompletionPartial CompletionType = "partially_completed"
	CompletionNone    CompletionType = "not_completed"
)

// Completion is the output of the per-type completion evaluator.
type Completion struct {
	Completed       bool           `json:"completed"`
	Type            CompletionType `json:"completion_type"`
	CriteriaMet     []string       `json:"criteria_met"`
	CriteriaMissing []string       `json:"criteria_missing"`
	FailureSeverity int            `json:"failure_severity"`
}

// SignalDelta is one named score adjustment applied by the confidence scorer.
type SignalDelta struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

// Confidence is the graded trust level for the completion call.
type Confidence struct {
	Score      int           `json:"score"`
	Positive   []SignalDelta `json:"positive_signals"`
	Negative   []SignalDelta `json:"negative_signals"`
	Assessment string        `json:"assessment"` // "high", "medium", "low"
}

// Issue is a detected per-session problem that is weaker than a failure
// signal (it colors the outcome but never forces it).
type Issue struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
}

// Success is a detected indicator of tangible session output.
type Success struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence,omitempty"`
}

// TaskAnalysis holds the task-level verdicts for one session.
type TaskAnalysis struct {
	PrimaryTask     string   `json:"primary_task"`
	TaskType        TaskType `json:"task_type"`
	KeyTopics       []string `json:"key_topics"`
	LikelyCompleted bool     `json:"likely_completed"`
	Outcome         Outcome  `json:"outcome"`
	Ticket          string   `json:"ticket,omitempty"`
}

// CompletionAnalysis bundles everything the completion pipeline produced.
type CompletionAnalysis struct {
	ConfidenceScore      int             `json:"confidence_score"`
	ConfidenceAssessment string          `json:"confidence_assessment"`
	PositiveSignals      []SignalDelta   `json:"positive_signals"`
	NegativeSignals      []SignalDelta   `json:"negative_signals"`
	CompletionType       CompletionType  `json:"completion_type"`
	CriteriaMet          []string        `json:"criteria_met"`
	CriteriaMissing      []string        `json:"criteria_missing"`
	FailureSignals       []FailureSignal `json:"failure_signals"`
	GitOperations        GitOps          `json:"git_operations"`
}

// QualityAssessment holds the softer quality indicators.
type QualityAssessment struct {
	Successes         []Success `json:"successes"`
	Issues            []Issue   `json:"issues"`
	FilesTouchedCount int       `json:"files_touched_count"`
	ToolsDiversity    int       `json:"tools_diversity"`
}

// Efficiency holds per-session ratio metrics. Every ratio is 0 when its
// denominator is 0.
type Efficiency struct {
	ToolsPerFile      float64 `json:"tools_per_file"`
	ToolsPerMessage   float64 `json:"tools_per_message"`
	FilesPerHour      float64 `json:"files_per_hour"`
	MessagesPerMinute float64 `json:"messages_per_minute"`
}

// RawContext preserves a sample of the session's raw inputs for reports.
type RawContext struct {
	SamplePrompts  []string `json:"sample_prompts"`
	SampleCommands []string `json:"sample_commands"`
}

// Result is the full analysis output for one session.
type Result struct {
	SessionID  string             `json:"session_id"`
	Project    string             `json:"project"`
	Metadata   session.Metadata   `json:"metadata"`
	Statistics session.Statistics `json:"statistics"`

	SessionType SessionType        `json:"session_type"`
	Task        TaskAnalysis       `json:"task_analysis"`
	Completion  CompletionAnalysis `json:"completion_analysis"`
	Quality     QualityAssessment  `json:"quality_assessment"`
	Efficiency  Efficiency         `json:"efficiency_metrics"`
	Raw         RawContext         `json:"raw_context"`
}

func lower(s string) string { return strings.ToLower(s) }

func containsAny(haystack []string, needles []string) bool {
	for _, n := range needles {
		for _, h := range haystack {
			if h == n {
				return true
			}
		}
	}
	return false
}
