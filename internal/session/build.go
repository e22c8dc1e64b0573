package session

import (
	"math"
	"sort"

	"github.com/johns/sessionlens/internal/transcript"
)

// Sampling caps applied when condensing a transcript into a record. The
// classifiers only need a representative slice of each list.
const (
	maxPrompts      = 5
	maxPromptLen    = 500
	maxFilesTouched = 20
	maxCommands     = 10
)

// FromTranscript condenses parsed transcript stats into a session record.
func FromTranscript(t *transcript.Transcript, project string) *Record {
	s := t.Stats

	duration := round1(s.DurationMinutes())

	rec := &Record{
		SessionID: s.SessionID,
		Project:   project,
		Metadata: Metadata{
			GitBranch: s.GitBranch,
			Duration:  &duration,
		},
		Statistics: Statistics{
			UserMessages:      s.UserMessages,
			AssistantMessages: s.AssistantMessages,
			TotalTurns:        s.UserMessages + s.AssistantMessages,
			ToolCallCount:     s.ToolCallCount,
			ToolsUsed:         sortedKeys(s.ToolsUsed),
		},
		Context: TaskContext{
			InitialPrompts: samplePrompts(s.Prompts),
			CommandsSample: capList(s.Commands, maxCommands),
			FilesTouched:   capList(sortedKeys(s.FilesTouched), maxFilesTouched),
		},
	}

	if !s.StartTime.IsZero() {
		rec.Metadata.Date = s.StartTime.Format("2006-01-02")
		rec.Metadata.StartTime = s.StartTime.Format("2006-01-02T15:04:05Z07:00")
	}
	if !s.EndTime.IsZero() {
		rec.Metadata.EndTime = s.EndTime.Format("2006-01-02T15:04:05Z07:00")
	}

	return rec
}

func samplePrompts(prompts []string) []string {
	out := make([]string, 0, maxPrompts)
	for _, p := range capList(prompts, maxPrompts) {
		if len(p) > maxPromptLen {
			p = p[:maxPromptLen]
		}
		out = append(out, p)
	}
	return out
}

func capList(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
