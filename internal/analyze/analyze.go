// Package analyze turns a session record into a task-type label, a completion
// verdict, a confidence score, and a final outcome, using layered rule-based
// heuristics over extracted signals.
//
// Every function here is a pure value computation: no I/O, no shared state
// across sessions, and bounded time in the size of the record. Malformed
// input never raises; missing counts read as zero and every ratio guards its
// denominator.
package analyze

import (
	"fmt"
	"strings"

	"github.com/johns/sessionlens/internal/session"
)

// Analyze runs the full per-session pipeline over one record.
func Analyze(rec *session.Record) Result {
	prompts := rec.Context.InitialPrompts
	commands := rec.Context.CommandsSample
	toolsUsed := rec.Statistics.ToolsUsed

	filesTouched := len(rec.Context.FilesTouched)
	hasEdits := containsAny(toolsUsed, editTools)
	hasReads := containsAny(toolsUsed, readTools)
	toolCalls := rec.Statistics.ToolCallCount
	userMsgs := rec.Statistics.UserMessages
	duration := rec.DurationMinutes()

	// Externally-supplied analysis fields win over recomputation.
	taskType := TaskType(rec.Prior.TaskType)
	if taskType == "" {
		taskType = ClassifyTaskType(prompts, commands, duration, toolCalls, hasEdits)
	}

	var issues []Issue
	if len(rec.Prior.Issues) > 0 {
		for _, i := range rec.Prior.Issues {
			issues = append(issues, Issue{Type: "reported_issue", Description: i})
		}
	} else {
		issues = DetectIssues(rec)
	}

	var successes []Success
	if len(rec.Prior.Successes) > 0 {
		for _, s := range rec.Prior.Successes {
			successes = append(successes, Success{Type: "reported_success", Description: s})
		}
	} else {
		successes = DetectSuccesses(rec)
	}

	topics := rec.Prior.KeyTopics
	if len(topics) == 0 {
		topics = ExtractKeyTopics(prompts)
	}

	gitOps := ClassifyGitOps(commands)
	failureSignals := DetectFailureSignals(rec)
	hasTestRun := anyCommandMatches(testPatterns, commands)

	completion := EvaluateCompletion(CompletionInput{
		TaskType:     taskType,
		HasEdits:     hasEdits,
		HasReads:     hasReads,
		FilesTouched: filesTouched,
		GitOps:       gitOps,
		Commands:     commands,
		ToolsUsed:    toolsUsed,
		Duration:     duration,
		UserMessages: userMsgs,
	}, failureSignals)

	confidence := ScoreConfidence(ConfidenceInput{
		TaskType:     taskType,
		HasEdits:     hasEdits,
		HasReads:     hasReads,
		FilesTouched: filesTouched,
		GitOps:       gitOps,
		HasTestRun:   hasTestRun,
		Duration:     duration,
		UserMessages: userMsgs,
	}, failureSignals, completion)

	sessionType := ClassifySessionType(duration, toolCalls, hasEdits, toolsUsed)

	outcome := ResolveOutcome(OutcomeInput{
		PriorOutcome: rec.Metadata.Outcome,
		TaskType:     taskType,
		SessionType:  sessionType,
		HasReads:     hasReads,
		UserMessages: userMsgs,
		Duration:     duration,
		ToolCalls:    toolCalls,
		HasIssues:    len(issues) > 0,
	}, completion, confidence, failureSignals)

	return Result{
		SessionID:   rec.SessionID,
		Project:     rec.Project,
		Metadata:    rec.Metadata,
		Statistics:  rec.Statistics,
		SessionType: sessionType,
		Task: TaskAnalysis{
			PrimaryTask:     primaryTask(prompts),
			TaskType:        taskType,
			KeyTopics:       topics,
			LikelyCompleted: LikelyCompleted(confidence, outcome),
			Outcome:         outcome,
			Ticket:          ExtractTicket(rec.Metadata.GitBranch),
		},
		Completion: CompletionAnalysis{
			ConfidenceScore:      confidence.Score,
			ConfidenceAssessment: confidence.Assessment,
			PositiveSignals:      confidence.Positive,
			NegativeSignals:      confidence.Negative,
			CompletionType:       completion.Type,
			CriteriaMet:          completion.CriteriaMet,
			CriteriaMissing:      completion.CriteriaMissing,
			FailureSignals:       failureSignals,
			GitOperations:        gitOps,
		},
		Quality: QualityAssessment{
			Successes:         successes,
			Issues:            issues,
			FilesTouchedCount: filesTouched,
			ToolsDiversity:    len(toolsUsed),
		},
		Efficiency: efficiency(toolCalls, userMsgs, filesTouched, duration),
		Raw: RawContext{
			SamplePrompts:  sampleStrings(prompts, 3, 200),
			SampleCommands: head(commands, 5),
		},
	}
}

// DetectIssues flags soft per-session problems: command errors, a high
// tool:message ratio, and rapid-fire interactions. The 10:1 ratio here is a
// lower tier than the 15:1 failure signal and stays separate.
func DetectIssues(rec *session.Record) []Issue {
	var issues []Issue

	for _, cmd := range rec.Context.CommandsSample {
		cmdLower := strings.ToLower(cmd)
		if strings.Contains(cmdLower, "error") || strings.Contains(cmdLower, "fail") {
			issues = append(issues, Issue{
				Type:        "command_error",
				Description: "Potential error in command execution",
				Evidence:    truncate(cmd, 100),
			})
		}
	}

	toolCalls := rec.Statistics.ToolCallCount
	userMsgs := rec.Statistics.UserMessages
	if userMsgs > 0 && float64(toolCalls)/float64(userMsgs) > issueRatioThreshold {
		issues = append(issues, Issue{
			Type:        "high_tool_usage",
			Description: "High tool calls per user message ratio - may indicate difficulty completing task",
			Evidence:    fmt.Sprintf("%d tool calls for %d user messages", toolCalls, userMsgs),
		})
	}

	duration := rec.DurationMinutes()
	totalTurns := rec.Statistics.TotalTurns
	if totalTurns == 0 {
		totalTurns = rec.Statistics.UserMessages + rec.Statistics.AssistantMessages
	}
	if duration < 5 && totalTurns > 20 {
		issues = append(issues, Issue{
			Type:        "rapid_interactions",
			Description: "Many interactions in short time - potential rapid-fire corrections",
			Evidence:    fmt.Sprintf("%d turns in %.1f minutes", totalTurns, duration),
		})
	}

	return issues
}

// DetectSuccesses flags indicators of tangible output.
func DetectSuccesses(rec *session.Record) []Success {
	var successes []Success

	if containsAny(rec.Statistics.ToolsUsed, editTools) && len(rec.Context.FilesTouched) > 0 {
		successes = append(successes, Success{
			Type:        "code_changes",
			Description: fmt.Sprintf("Successfully modified %d file(s)", len(rec.Context.FilesTouched)),
			Evidence:    head(rec.Context.FilesTouched, 5),
		})
	}

	var buildCommands []string
	for _, cmd := range rec.Context.CommandsSample {
		cmdLower := strings.ToLower(cmd)
		for _, kw := range []string{"build", "test", "npm", "yarn", "gradle"} {
			if strings.Contains(cmdLower, kw) {
				buildCommands = append(buildCommands, cmd)
				break
			}
		}
	}
	if len(buildCommands) > 0 {
		successes = append(successes, Success{
			Type:        "build_commands",
			Description: "Executed build/test commands",
			Evidence:    head(buildCommands, 3),
		})
	}

	var gitCommands []string
	for _, cmd := range rec.Context.CommandsSample {
		if strings.Contains(strings.ToLower(cmd), "git") {
			gitCommands = append(gitCommands, cmd)
		}
	}
	if len(gitCommands) > 0 {
		successes = append(successes, Success{
			Type:        "git_operations",
			Description: "Performed git operations",
			Evidence:    head(gitCommands, 3),
		})
	}

	return successes
}

// ExtractKeyTopics pulls known tech terms out of the prompts, capped at 10.
func ExtractKeyTopics(prompts []string) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, term := range techTerms {
		for _, p := range prompts {
			if strings.Contains(strings.ToLower(p), term) && !seen[term] {
				seen[term] = true
				topics = append(topics, term)
				break
			}
		}
		if len(topics) >= 10 {
			break
		}
	}
	return topics
}

// ExtractTicket pulls an issue-tracker ticket (e.g. JSO-3450) from a git
// branch name. Returns "" when the branch carries none.
func ExtractTicket(gitBranch string) string {
	if gitBranch == "" {
		return ""
	}
	m := ticketRe.FindString(gitBranch)
	return strings.ToUpper(m)
}

// primaryTask picks the first substantial prompt as the task description.
func primaryTask(prompts []string) string {
	for _, p := range prompts {
		if len(p) > 20 {
			clean := strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
			return truncate(clean, 300)
		}
	}
	return ""
}

func efficiency(toolCalls, userMsgs, filesTouched int, duration float64) Efficiency {
	var e Efficiency
	if filesTouched > 0 {
		e.ToolsPerFile = round2(float64(toolCalls) / float64(filesTouched))
	}
	if userMsgs > 0 {
		e.ToolsPerMessage = round2(float64(toolCalls) / float64(userMsgs))
	}
	if duration > 0 {
		e.FilesPerHour = round2(float64(filesTouched) / (duration / 60))
		e.MessagesPerMinute = round2(float64(userMsgs) / duration)
	}
	return e
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func sampleStrings(items []string, n, maxLen int) []string {
	out := make([]string, 0, n)
	for _, s := range head(items, n) {
		out = append(out, truncate(s, maxLen))
	}
	return out
}
