package transcript

import "time"

// Entry represents a single line in a Claude Code JSONL transcript.
type Entry struct {
	Type       string    `json:"type"`
	UUID       string    `json:"uuid"`
	ParentUUID string    `json:"parentUuid"`
	SessionID  string    `json:"sessionId"`
	Timestamp  time.Time `json:"timestamp"`
	CWD        string    `json:"cwd"`
	Version    string    `json:"version"`
	GitBranch  string    `json:"gitBranch"`

	Message   *Message `json:"message,omitempty"`
	RequestID string   `json:"requestId,omitempty"`

	// Present on summary entries.
	Summary string `json:"summary,omitempty"`

	// IsMeta marks system-injected messages (CLAUDE.md, context reminders)
	// that should not count as user prompts.
	IsMeta bool `json:"isMeta,omitempty"`
}

// Message is the inner message object on user/assistant entries.
type Message struct {
	Role    string      `json:"role"`
	Model   string      `json:"model,omitempty"`
	ID      string      `json:"id,omitempty"`
	Content interface{} `json:"content"` // string or []ContentBlock
}

// ContentBlock represents one block in a content array.
type ContentBlock struct {
	Type      string      `json:"type"`
	Text      string      `json:"text,omitempty"`
	ID        string      `json:"id,omitempty"`          // tool_use id
	Name      string      `json:"name,omitempty"`        // tool name
	Input     interface{} `json:"input,omitempty"`       // tool input
	ToolUseID string      `json:"tool_use_id,omitempty"` // tool_result
	Content   interface{} `json:"content,omitempty"`     // tool_result content
	IsError   bool        `json:"is_error,omitempty"`
}

// Stats holds everything extracted from a transcript that a session record
// needs: message counts, tool usage, touched files, commands, and prompts.
type Stats struct {
	SessionID string
	GitBranch string
	Version   string
	CWD       string
	StartTime time.Time
	EndTime   time.Time

	UserMessages      int
	AssistantMessages int
	ToolCallCount     int
	ToolsUsed         map[string]bool

	FilesTouched map[string]bool // Read/Edit/Write targets
	Commands     []string        // Bash commands, in execution order
	Prompts      []string        // user-authored prompt texts, in order

	SlashCommands []string // user-invoked /commands
	SkillsInvoked []string // Skill tool invocations
	AgentsSpawned []string // Task tool subagent types

	Summary string // transcript-provided summary, when present
}

// DurationMinutes derives the session length from the entry timestamps.
func (s Stats) DurationMinutes() float64 {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Minutes()
}

// Transcript holds the fully parsed result of a JSONL transcript.
type Transcript struct {
	Entries []Entry
	Stats   Stats
}
