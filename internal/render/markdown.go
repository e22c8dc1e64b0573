// Package render builds human-readable markdown from analysis results.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/johns/sessionlens/internal/analyze"
)

// SessionSummary renders one analyzed session as a markdown note with YAML
// frontmatter, suitable for dropping into an Obsidian vault or a wiki.
func SessionSummary(r *analyze.Result) string {
	var b strings.Builder

	// Frontmatter
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("session_id: \"%s\"\n", r.SessionID))
	b.WriteString(fmt.Sprintf("project: %s\n", r.Project))
	if r.Metadata.Date != "" {
		b.WriteString(fmt.Sprintf("date: %s\n", r.Metadata.Date))
	}
	if r.Metadata.GitBranch != "" {
		b.WriteString(fmt.Sprintf("branch: %s\n", r.Metadata.GitBranch))
	}
	if r.Metadata.Duration != nil {
		b.WriteString(fmt.Sprintf("duration_minutes: %.1f\n", *r.Metadata.Duration))
	}
	b.WriteString(fmt.Sprintf("task_type: %s\n", r.Task.TaskType))
	b.WriteString(fmt.Sprintf("session_type: %s\n", r.SessionType))
	b.WriteString(fmt.Sprintf("outcome: %s\n", r.Task.Outcome))
	b.WriteString(fmt.Sprintf("confidence: %d\n", r.Completion.ConfidenceScore))
	if r.Task.Ticket != "" {
		b.WriteString(fmt.Sprintf("ticket: %s\n", r.Task.Ticket))
	}
	if len(r.Task.KeyTopics) > 0 {
		b.WriteString(fmt.Sprintf("topics: [%s]\n", strings.Join(r.Task.KeyTopics, ", ")))
	}
	b.WriteString("---\n\n")

	// Title
	title := r.Task.PrimaryTask
	if title == "" {
		title = "Session " + shortID(r.SessionID)
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))

	// Verdict
	b.WriteString("## Verdict\n\n")
	b.WriteString(fmt.Sprintf("**%s** (%s confidence, score %d/100)\n\n",
		r.Task.Outcome, r.Completion.ConfidenceAssessment, r.Completion.ConfidenceScore))
	if len(r.Completion.CriteriaMet) > 0 {
		b.WriteString("Criteria met:\n")
		for _, c := range r.Completion.CriteriaMet {
			b.WriteString(fmt.Sprintf("- %s\n", c))
		}
		b.WriteString("\n")
	}
	if len(r.Completion.CriteriaMissing) > 0 {
		b.WriteString("Criteria missing:\n")
		for _, c := range r.Completion.CriteriaMissing {
			b.WriteString(fmt.Sprintf("- %s\n", c))
		}
		b.WriteString("\n")
	}

	// Score breakdown
	if len(r.Completion.PositiveSignals) > 0 || len(r.Completion.NegativeSignals) > 0 {
		b.WriteString("## Score Breakdown\n\n")
		b.WriteString("| Signal | Delta |\n")
		b.WriteString("|--------|-------|\n")
		for _, s := range r.Completion.PositiveSignals {
			b.WriteString(fmt.Sprintf("| %s | +%d |\n", s.Name, s.Delta))
		}
		for _, s := range r.Completion.NegativeSignals {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", s.Name, s.Delta))
		}
		b.WriteString("\n")
	}

	// Failure signals
	if len(r.Completion.FailureSignals) > 0 {
		b.WriteString("## Failure Signals\n\n")
		for _, fs := range r.Completion.FailureSignals {
			b.WriteString(fmt.Sprintf("- **%s** (severity %d): %s\n", fs.Kind, fs.Severity, fs.Description))
		}
		b.WriteString("\n")
	}

	// Activity
	b.WriteString("## Activity\n\n")
	b.WriteString(fmt.Sprintf("- Messages: %d user, %d assistant\n",
		r.Statistics.UserMessages, r.Statistics.AssistantMessages))
	b.WriteString(fmt.Sprintf("- Tool calls: %d across %d tools\n",
		r.Statistics.ToolCallCount, r.Quality.ToolsDiversity))
	b.WriteString(fmt.Sprintf("- Files touched: %d\n", r.Quality.FilesTouchedCount))
	git := r.Completion.GitOperations
	if len(git.GitCommands) > 0 {
		var flags []string
		if git.HasCommit {
			flags = append(flags, "commit")
		}
		if git.HasPush {
			flags = append(flags, "push")
		}
		if git.HasFailedCommit {
			flags = append(flags, "failed commit")
		}
		if git.ReadOnly {
			flags = append(flags, "read-only")
		}
		sort.Strings(flags)
		b.WriteString(fmt.Sprintf("- Git: %s\n", strings.Join(flags, ", ")))
	}
	b.WriteString("\n")

	// Successes and issues
	if len(r.Quality.Successes) > 0 {
		b.WriteString("## Successes\n\n")
		for _, s := range r.Quality.Successes {
			b.WriteString(fmt.Sprintf("- %s\n", s.Description))
		}
		b.WriteString("\n")
	}
	if len(r.Quality.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for _, issue := range r.Quality.Issues {
			b.WriteString(fmt.Sprintf("- %s\n", issue.Description))
		}
		b.WriteString("\n")
	}

	// Prompts
	if len(r.Raw.SamplePrompts) > 0 {
		b.WriteString("## Prompts\n\n")
		for _, p := range r.Raw.SamplePrompts {
			b.WriteString(fmt.Sprintf("> %s\n\n", strings.ReplaceAll(p, "\n", " ")))
		}
	}

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
