package analyze

import (
	"fmt"
	"strings"

	"github.com/johns/sessionlens/internal/session"
)

// DetectFailureSignals runs the seven independent failure checks over a
// session record. Each check appends at most one signal; the checks do not
// depend on each other, so the order of the returned list carries no meaning
// beyond readability.
func DetectFailureSignals(rec *session.Record) []FailureSignal {
	var signals []FailureSignal

	commands := rec.Context.CommandsSample
	prompts := rec.Context.InitialPrompts
	toolsUsed := rec.Statistics.ToolsUsed
	toolCalls := rec.Statistics.ToolCallCount
	userMsgs := rec.Statistics.UserMessages
	duration := rec.DurationMinutes()

	// 1. Error patterns in commands. Severity scales with how many commands
	// match, capped at 3.
	var errorCommands []string
	for _, cmd := range commands {
		if anyPatternMatches(errorPatterns, strings.ToLower(cmd)) {
			errorCommands = append(errorCommands, truncate(cmd, 100))
		}
	}
	if len(errorCommands) > 0 {
		severity := len(errorCommands)
		if severity > 3 {
			severity = 3
		}
		signals = append(signals, FailureSignal{
			Kind:        SignalErrorInCommands,
			Severity:    severity,
			Description: fmt.Sprintf("Error patterns found in %d command(s)", len(errorCommands)),
			Evidence:    head(errorCommands, 3),
		})
	}

	// 2. High tool-to-message ratio suggests repeated attempts.
	if userMsgs > 0 && toolCalls > 0 {
		ratio := float64(toolCalls) / float64(userMsgs)
		if ratio > retryRatioThreshold {
			signals = append(signals, FailureSignal{
				Kind:        SignalHighRetryRatio,
				Severity:    2,
				Description: fmt.Sprintf("High tool-to-message ratio (%.1f:1) suggests repeated attempts", ratio),
				Evidence:    []string{fmt.Sprintf("%d tool calls for %d user messages", toolCalls, userMsgs)},
			})
		}
	}

	// 3. Very short session with significant activity: started, gave up.
	if duration < abandonMaxDuration && toolCalls > abandonMinToolCalls {
		signals = append(signals, FailureSignal{
			Kind:        SignalQuickAbandonment,
			Severity:    2,
			Description: "Very short session with significant activity - possible early abandonment",
			Evidence:    []string{fmt.Sprintf("%d tool calls in %.1f minutes", toolCalls, duration)},
		})
	}

	// 4. Reads without edits: investigation that stalled.
	hasReads := containsAny(toolsUsed, readTools)
	hasEdits := containsAny(toolsUsed, editTools)
	if hasReads && !hasEdits && toolCalls > 10 {
		signals = append(signals, FailureSignal{
			Kind:        SignalReadWithoutEdit,
			Severity:    1,
			Description: "Multiple read operations without any edits - investigation may have stalled",
			Evidence:    []string{"Tools used: " + strings.Join(toolsUsed, ", ")},
		})
	}

	// 5. Failed git commit.
	gitOps := ClassifyGitOps(commands)
	if gitOps.HasFailedCommit {
		signals = append(signals, FailureSignal{
			Kind:        SignalFailedGitCommit,
			Severity:    2,
			Description: "Git commit appears to have failed",
			Evidence:    head(gitOps.GitCommands, 3),
		})
	}

	// 6. User frustration phrases in prompts.
	var frustrated []string
	for _, prompt := range prompts {
		if anyPatternMatches(frustrationPatterns, strings.ToLower(prompt)) {
			frustrated = append(frustrated, truncate(prompt, 50))
		}
	}
	if len(frustrated) > 0 {
		signals = append(signals, FailureSignal{
			Kind:        SignalUserFrustration,
			Severity:    2,
			Description: "User prompts contain frustration indicators",
			Evidence:    head(frustrated, 3),
		})
	}

	// 7. Significant session with nothing to show for it.
	if duration > 5 && !hasEdits && !gitOps.HasCommit && toolCalls > 10 {
		signals = append(signals, FailureSignal{
			Kind:        SignalNoTangibleOutput,
			Severity:    1,
			Description: "Significant session activity but no file changes or commits",
			Evidence:    []string{fmt.Sprintf("Duration: %.1fm, Tools: %d, No edits/commits", duration, toolCalls)},
		})
	}

	return signals
}

// TotalSeverity sums signal severities for an overall failure weight.
func TotalSeverity(signals []FailureSignal) int {
	total := 0
	for _, s := range signals {
		total += s.Severity
	}
	return total
}

// HasHighSeverity reports whether any signal has severity 2 or above.
func HasHighSeverity(signals []FailureSignal) bool {
	for _, s := range signals {
		if s.Severity >= 2 {
			return true
		}
	}
	return false
}

// hasSignal reports whether a signal of the given kind is present.
func hasSignal(signals []FailureSignal, kind SignalKind) bool {
	for _, s := range signals {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
