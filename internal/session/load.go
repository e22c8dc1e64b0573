package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Format identifies the on-disk layout of a session data file.
type Format string

const (
	// FormatExtract is the native layout written by the analyze pipeline:
	// a list of records with metadata and statistics objects.
	FormatExtract Format = "extract"
	// FormatReport is a report artifact: report_metadata plus a sessions
	// list in the condensed report shape.
	FormatReport Format = "report_data"
	// FormatReportSessions is a bare list of report-shaped sessions.
	FormatReportSessions Format = "report_sessions"
	// FormatUnknown is returned for lists whose shape could not be
	// identified; records are decoded on a best-effort basis.
	FormatUnknown Format = "unknown"
)

// reportSession is the condensed per-session shape found in report artifacts.
type reportSession struct {
	SessionID       string   `json:"session_id"`
	Project         string   `json:"project"`
	FullProjectPath string   `json:"full_project_path"`
	Date            string   `json:"date"`
	DurationMinutes float64  `json:"duration_minutes"`
	GitBranch       string   `json:"git_branch"`
	Outcome         string   `json:"outcome"`
	TaskSummary     string   `json:"task_summary"`
	TaskType        string   `json:"task_type"`
	KeyTopics       []string `json:"key_topics"`
	Successes       []string `json:"successes"`
	Issues          []string `json:"issues"`

	Stats struct {
		UserMessages      int      `json:"user_messages"`
		AssistantMessages int      `json:"assistant_messages"`
		ToolCalls         int      `json:"tool_calls"`
		ToolsUsed         []string `json:"tools_used"`
		FilesTouched      int      `json:"files_touched"`
	} `json:"stats"`
}

// Load reads session records from a JSON file, detecting its format.
func Load(path string) ([]*Record, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("reading sessions: %w", err)
	}
	recs, format, err := Decode(data)
	if err != nil {
		return nil, format, fmt.Errorf("decoding %s: %w", path, err)
	}
	return recs, format, nil
}

// Decode parses session records from raw JSON, accepting the native extract
// layout, report artifacts, and bare lists of report sessions.
func Decode(data []byte) ([]*Record, Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, FormatUnknown, fmt.Errorf("empty input")
	}

	switch trimmed[0] {
	case '{':
		return decodeObject(trimmed)
	case '[':
		return decodeList(trimmed)
	default:
		return nil, FormatUnknown, fmt.Errorf("input is not a JSON object or array")
	}
}

func decodeObject(data []byte) ([]*Record, Format, error) {
	var probe struct {
		ReportMetadata json.RawMessage   `json:"report_metadata"`
		Sessions       []json.RawMessage `json:"sessions"`
		Metadata       json.RawMessage   `json:"metadata"`
		Statistics     json.RawMessage   `json:"statistics"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, FormatUnknown, err
	}

	if probe.ReportMetadata != nil && probe.Sessions != nil {
		recs := make([]*Record, 0, len(probe.Sessions))
		for i, raw := range probe.Sessions {
			var rs reportSession
			if err := json.Unmarshal(raw, &rs); err != nil {
				return nil, FormatReport, fmt.Errorf("session %d: %w", i, err)
			}
			recs = append(recs, rs.toRecord())
		}
		return recs, FormatReport, nil
	}

	// A single record in the native layout.
	if probe.Metadata != nil && probe.Statistics != nil {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, FormatExtract, err
		}
		return []*Record{&rec}, FormatExtract, nil
	}

	return nil, FormatUnknown, fmt.Errorf("unrecognized object layout")
}

func decodeList(data []byte) ([]*Record, Format, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, FormatUnknown, err
	}
	if len(items) == 0 {
		return nil, FormatExtract, nil
	}

	var probe struct {
		Metadata   json.RawMessage `json:"metadata"`
		Statistics json.RawMessage `json:"statistics"`
		Stats      json.RawMessage `json:"stats"`
		Outcome    json.RawMessage `json:"outcome"`
	}
	if err := json.Unmarshal(items[0], &probe); err != nil {
		return nil, FormatUnknown, fmt.Errorf("session 0: %w", err)
	}

	if probe.Stats != nil && probe.Outcome != nil && probe.Statistics == nil {
		recs := make([]*Record, 0, len(items))
		for i, raw := range items {
			var rs reportSession
			if err := json.Unmarshal(raw, &rs); err != nil {
				return nil, FormatReportSessions, fmt.Errorf("session %d: %w", i, err)
			}
			recs = append(recs, rs.toRecord())
		}
		return recs, FormatReportSessions, nil
	}

	format := FormatExtract
	if probe.Metadata == nil || probe.Statistics == nil {
		format = FormatUnknown
	}
	recs := make([]*Record, 0, len(items))
	for i, raw := range items {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, format, fmt.Errorf("session %d: %w", i, err)
		}
		recs = append(recs, &rec)
	}
	return recs, format, nil
}

// toRecord converts a report-shaped session into the native record layout.
// Report artifacts carry a final outcome and classification, so those are
// preserved as authoritative prior results.
func (rs *reportSession) toRecord() *Record {
	duration := rs.DurationMinutes

	var prompts []string
	if rs.TaskSummary != "" {
		prompts = []string{rs.TaskSummary}
	}

	// The report shape only keeps a count of touched files; synthesize
	// placeholders so the file-count heuristics still apply.
	files := make([]string, rs.Stats.FilesTouched)
	for i := range files {
		files[i] = "file"
	}

	return &Record{
		SessionID: orUnknown(rs.SessionID),
		Project:   orUnknown(rs.Project),
		Metadata: Metadata{
			Date:            orUnknown(rs.Date),
			Duration:        &duration,
			GitBranch:       rs.GitBranch,
			Outcome:         rs.Outcome,
			FullProjectPath: rs.FullProjectPath,
		},
		Statistics: Statistics{
			UserMessages:      rs.Stats.UserMessages,
			AssistantMessages: rs.Stats.AssistantMessages,
			TotalTurns:        rs.Stats.UserMessages + rs.Stats.AssistantMessages,
			ToolCallCount:     rs.Stats.ToolCalls,
			ToolsUsed:         rs.Stats.ToolsUsed,
		},
		Context: TaskContext{
			InitialPrompts: prompts,
			CommandsSample: []string{},
			FilesTouched:   files,
		},
		Prior: Prior{
			TaskType:  rs.TaskType,
			KeyTopics: rs.KeyTopics,
			Successes: rs.Successes,
			Issues:    rs.Issues,
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
