package session

// Record holds the immutable facts about one session, in the shape the
// analysis core consumes. Fields mirror the extracted-session JSON layout.
type Record struct {
	SessionID string `json:"session_id"`
	Project   string `json:"project"`

	Metadata   Metadata   `json:"metadata"`
	Statistics Statistics `json:"statistics"`
	Context    TaskContext `json:"task_context"`

	// Prior carries results of an earlier analysis pass. Non-empty fields
	// are authoritative and used verbatim instead of being re-derived.
	Prior Prior `json:"_original,omitempty"`
}

// Metadata holds per-session metadata.
type Metadata struct {
	Date      string   `json:"date,omitempty"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Duration  *float64 `json:"duration_minutes"` // minutes; nil when unknown
	GitBranch string   `json:"git_branch,omitempty"`
	Outcome   string   `json:"outcome,omitempty"` // authoritative override when set

	// FullProjectPath is the decoded project directory, used to locate the
	// transcript on disk when linking from reports.
	FullProjectPath string `json:"full_project_path,omitempty"`
}

// Statistics holds per-session activity counts.
type Statistics struct {
	UserMessages      int      `json:"user_messages"`
	AssistantMessages int      `json:"assistant_messages"`
	TotalTurns        int      `json:"total_turns,omitempty"`
	ToolCallCount     int      `json:"tool_call_count"`
	ToolsUsed         []string `json:"tools_used"`
}

// TaskContext holds the textual context of the session's task.
type TaskContext struct {
	InitialPrompts []string `json:"initial_prompts"`
	CommandsSample []string `json:"commands_sample"`
	FilesTouched   []string `json:"files_touched"`
}

// Prior holds externally-supplied analysis fields. Each non-empty field wins
// over recomputation.
type Prior struct {
	TaskType  string   `json:"task_type,omitempty"`
	KeyTopics []string `json:"key_topics,omitempty"`
	Successes []string `json:"successes,omitempty"`
	Issues    []string `json:"issues,omitempty"`
}

// DurationMinutes returns the session duration, treating unknown as 0.
func (r *Record) DurationMinutes() float64 {
	if r.Metadata.Duration == nil {
		return 0
	}
	return *r.Metadata.Duration
}

// IsValid reports whether a record has enough data to analyze: a known,
// non-negative duration and at least one user message.
func (r *Record) IsValid() bool {
	if r.Metadata.Duration == nil || *r.Metadata.Duration < 0 {
		return false
	}
	return r.Statistics.UserMessages > 0
}
