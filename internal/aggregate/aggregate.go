// Package aggregate folds per-session analysis results into a cross-session
// report: totals, rates, distributions, and per-project/task/date breakdowns.
package aggregate

import (
	"strings"

	"github.com/johns/sessionlens/internal/analyze"
)

// Summary holds the headline totals across all sessions.
type Summary struct {
	TotalSessions          int     `json:"total_sessions"`
	ValidSessions          int     `json:"valid_sessions"`
	InvalidSessions        int     `json:"invalid_sessions"`
	TotalDurationMinutes   float64 `json:"total_duration_minutes"`
	TotalUserMessages      int     `json:"total_user_messages"`
	TotalAssistantMessages int     `json:"total_assistant_messages"`
	TotalToolCalls         int     `json:"total_tool_calls"`
	TotalFilesTouched      int     `json:"total_files_touched"`
}

// ProjectStats accumulates per-project counters plus derived rates.
type ProjectStats struct {
	Sessions     int     `json:"sessions"`
	Duration     float64 `json:"duration"`
	ToolCalls    int     `json:"tool_calls"`
	Completed    int     `json:"completed"`
	WithIssues   int     `json:"with_issues"`
	FilesTouched int     `json:"files_touched"`

	CompletionRate float64 `json:"completion_rate"`
	IssueRate      float64 `json:"issue_rate"`
	AvgDuration    float64 `json:"avg_duration"`
}

// DateStats is the per-day slice of the time series.
type DateStats struct {
	Sessions  int     `json:"sessions"`
	Completed int     `json:"completed"`
	Duration  float64 `json:"duration"`
}

// TicketStats tracks sessions referencing one issue-tracker ticket.
type TicketStats struct {
	Sessions  int `json:"sessions"`
	Completed int `json:"completed"`
}

// SessionTypeStats accumulates work-vs-lookup totals and averages.
type SessionTypeStats struct {
	Count          int     `json:"count"`
	TotalDuration  float64 `json:"total_duration"`
	TotalToolCalls int     `json:"total_tool_calls"`
	Pct            float64 `json:"pct"`
	AvgDuration    float64 `json:"avg_duration"`
	AvgToolCalls   float64 `json:"avg_tool_calls"`
}

// Averages holds the per-session means and headline rates.
type Averages struct {
	AvgDurationMinutes      float64 `json:"avg_duration_minutes"`
	AvgUserMessages         float64 `json:"avg_user_messages"`
	AvgToolCalls            float64 `json:"avg_tool_calls"`
	AvgFilesTouched         float64 `json:"avg_files_touched"`
	CompletionRate          float64 `json:"completion_rate"`
	IssueRate               float64 `json:"issue_rate"`
	ExpandedCompletionRate  float64 `json:"expanded_completion_rate"`
}

// DurationDistribution describes the shape of the session-length spread.
type DurationDistribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"std_dev"`
}

// CountDistribution describes the spread of an integer-valued metric.
type CountDistribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// EfficiencyAverage is the central tendency of one efficiency ratio.
type EfficiencyAverage struct {
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// ConfidenceStats summarizes the distribution of completion confidence.
type ConfidenceStats struct {
	AvgScore    float64 `json:"avg_score"`
	MedianScore float64 `json:"median_score"`
	MinScore    int     `json:"min_score"`
	MaxScore    int     `json:"max_score"`
	HighCount   int     `json:"high_confidence_count"`
	MediumCount int     `json:"medium_confidence_count"`
	LowCount    int     `json:"low_confidence_count"`
}

// ActivityMetrics counts observable session activity. These are facts about
// what happened in the session, independent of the completion heuristics.
type ActivityMetrics struct {
	SessionsWithEdits      int     `json:"sessions_with_edits"`
	SessionsWithEditsPct   float64 `json:"sessions_with_edits_pct"`
	SessionsWithCommits    int     `json:"sessions_with_commits"`
	SessionsWithCommitsPct float64 `json:"sessions_with_commits_pct"`
	SessionsWithTests      int     `json:"sessions_with_tests"`
	SessionsWithTestsPct   float64 `json:"sessions_with_tests_pct"`
	ActivityRate           float64 `json:"activity_rate"`
}

// CompletionSignals breaks out the counts behind the completion rates.
type CompletionSignals struct {
	Positive map[string]int `json:"positive"`
	Negative map[string]int `json:"negative"`
}

// Report is the aggregate statistics artifact for one analysis run.
type Report struct {
	Summary Summary `json:"summary"`

	ByProject     map[string]*ProjectStats     `json:"by_project"`
	ByTaskType    map[string]int               `json:"by_task_type"`
	ByDate        map[string]*DateStats        `json:"by_date"`
	ByOutcome     map[string]int               `json:"by_outcome"`
	BySessionType map[string]*SessionTypeStats `json:"by_session_type"`

	ToolsUsage      map[string]int          `json:"tools_usage"`
	TopicsFrequency map[string]int          `json:"topics_frequency"`
	Tickets         map[string]*TicketStats `json:"tickets"`
	CommonIssues    map[string]int          `json:"common_issues"`
	CommonSuccesses map[string]int          `json:"common_successes"`

	SessionsWithIssues int `json:"sessions_with_issues"`
	SessionsCompleted  int `json:"sessions_completed"`

	Averages             *Averages                    `json:"averages,omitempty"`
	DurationDistribution *DurationDistribution        `json:"duration_distribution,omitempty"`
	DurationHistogram    map[string]int               `json:"duration_histogram,omitempty"`
	ToolCallsDist        *CountDistribution           `json:"tool_calls_distribution,omitempty"`
	FilesTouchedDist     *CountDistribution           `json:"files_touched_distribution,omitempty"`
	EfficiencyAverages   map[string]EfficiencyAverage `json:"efficiency_averages,omitempty"`
	CompletionConfidence *ConfidenceStats             `json:"completion_confidence,omitempty"`
	ActivityMetrics      *ActivityMetrics             `json:"activity_metrics,omitempty"`
	CompletionSignals    *CompletionSignals           `json:"completion_signals,omitempty"`
}

// successOutcomes counts toward the expanded completion rate: the session
// delivered what its type promised, issues or not.
var successOutcomes = []analyze.Outcome{
	analyze.OutcomeCompleted,
	analyze.OutcomeCompletedWithIssues,
	analyze.OutcomeExplorationComplete,
	analyze.OutcomeLookupComplete,
}

func isValid(r *analyze.Result) bool {
	if r.Metadata.Duration == nil || *r.Metadata.Duration < 0 {
		return false
	}
	return r.Statistics.UserMessages > 0
}

// Build folds analysis results into an aggregate report. Results without a
// known duration or any user messages count only toward the invalid total.
func Build(results []analyze.Result) *Report {
	rep := &Report{
		ByProject:  make(map[string]*ProjectStats),
		ByTaskType: make(map[string]int),
		ByDate:     make(map[string]*DateStats),
		ByOutcome:  make(map[string]int),
		BySessionType: map[string]*SessionTypeStats{
			string(analyze.SessionWork):   {},
			string(analyze.SessionLookup): {},
		},
		ToolsUsage:      make(map[string]int),
		TopicsFrequency: make(map[string]int),
		Tickets:         make(map[string]*TicketStats),
		CommonIssues:    make(map[string]int),
		CommonSuccesses: make(map[string]int),
	}
	rep.Summary.TotalSessions = len(results)

	var (
		durations        []float64
		toolCallsList    []float64
		filesTouchedList []float64
		confidenceScores []float64
		efficiencies     = map[string][]float64{
			"tools_per_file":      nil,
			"tools_per_message":   nil,
			"files_per_hour":      nil,
			"messages_per_minute": nil,
		}
		sessionsWithEdits   int
		sessionsWithCommits int
		sessionsWithTests   int
	)

	for i := range results {
		r := &results[i]
		if !isValid(r) {
			continue
		}
		rep.Summary.ValidSessions++

		duration := 0.0
		if r.Metadata.Duration != nil {
			duration = *r.Metadata.Duration
		}
		toolCount := r.Statistics.ToolCallCount
		filesCount := r.Quality.FilesTouchedCount

		rep.Summary.TotalDurationMinutes += duration
		rep.Summary.TotalUserMessages += r.Statistics.UserMessages
		rep.Summary.TotalAssistantMessages += r.Statistics.AssistantMessages
		rep.Summary.TotalToolCalls += toolCount
		rep.Summary.TotalFilesTouched += filesCount

		if duration > 0 {
			durations = append(durations, duration)
		}
		if toolCount > 0 {
			toolCallsList = append(toolCallsList, float64(toolCount))
		}
		if filesCount > 0 {
			filesTouchedList = append(filesTouchedList, float64(filesCount))
		}

		collectEfficiency(efficiencies, r.Efficiency)

		proj := shortProject(r.Project)
		ps := rep.ByProject[proj]
		if ps == nil {
			ps = &ProjectStats{}
			rep.ByProject[proj] = ps
		}
		ps.Sessions++
		ps.Duration += duration
		ps.ToolCalls += toolCount
		ps.FilesTouched += filesCount

		if r.Task.LikelyCompleted {
			ps.Completed++
			rep.SessionsCompleted++
		}

		hasEdits := containsTool(r.Statistics.ToolsUsed, "Edit") ||
			containsTool(r.Statistics.ToolsUsed, "Write")
		if hasEdits {
			sessionsWithEdits++
		}

		st := rep.BySessionType[string(r.SessionType)]
		if st == nil {
			st = &SessionTypeStats{}
			rep.BySessionType[string(r.SessionType)] = st
		}
		st.Count++
		st.TotalDuration += duration
		st.TotalToolCalls += toolCount

		git := r.Completion.GitOperations
		if git.HasCommit && !git.HasFailedCommit {
			sessionsWithCommits++
		}
		if analyze.HasTestRun(r.Raw.SampleCommands) {
			sessionsWithTests++
		}

		if len(r.Quality.Issues) > 0 {
			ps.WithIssues++
			rep.SessionsWithIssues++
			for _, issue := range r.Quality.Issues {
				rep.CommonIssues[issue.Type]++
			}
		}
		for _, success := range r.Quality.Successes {
			rep.CommonSuccesses[success.Type]++
		}

		rep.ByTaskType[string(r.Task.TaskType)]++

		if date := r.Metadata.Date; date != "" && date != "unknown" {
			ds := rep.ByDate[date]
			if ds == nil {
				ds = &DateStats{}
				rep.ByDate[date] = ds
			}
			ds.Sessions++
			ds.Duration += duration
			if r.Task.LikelyCompleted {
				ds.Completed++
			}
		}

		outcome := string(r.Task.Outcome)
		if outcome == "" {
			outcome = "unknown"
		}
		rep.ByOutcome[outcome]++

		confidenceScores = append(confidenceScores, float64(r.Completion.ConfidenceScore))

		for _, tool := range r.Statistics.ToolsUsed {
			rep.ToolsUsage[tool]++
		}
		for _, topic := range r.Task.KeyTopics {
			rep.TopicsFrequency[topic]++
		}

		if ticket := r.Task.Ticket; ticket != "" {
			ts := rep.Tickets[ticket]
			if ts == nil {
				ts = &TicketStats{}
				rep.Tickets[ticket] = ts
			}
			ts.Sessions++
			if r.Task.LikelyCompleted {
				ts.Completed++
			}
		}
	}

	rep.Summary.InvalidSessions = rep.Summary.TotalSessions - rep.Summary.ValidSessions
	rep.Summary.TotalDurationMinutes = round1(rep.Summary.TotalDurationMinutes)

	for _, ps := range rep.ByProject {
		if ps.Sessions > 0 {
			ps.CompletionRate = round1(float64(ps.Completed) / float64(ps.Sessions) * 100)
			ps.IssueRate = round1(float64(ps.WithIssues) / float64(ps.Sessions) * 100)
			ps.AvgDuration = round1(ps.Duration / float64(ps.Sessions))
		}
		ps.Duration = round1(ps.Duration)
	}
	for _, ds := range rep.ByDate {
		ds.Duration = round1(ds.Duration)
	}

	n := rep.Summary.ValidSessions
	if n == 0 {
		return rep
	}
	nf := float64(n)

	successCount := 0
	for _, o := range successOutcomes {
		successCount += rep.ByOutcome[string(o)]
	}

	rep.Averages = &Averages{
		AvgDurationMinutes:     round1(rep.Summary.TotalDurationMinutes / nf),
		AvgUserMessages:        round1(float64(rep.Summary.TotalUserMessages) / nf),
		AvgToolCalls:           round1(float64(rep.Summary.TotalToolCalls) / nf),
		AvgFilesTouched:        round1(float64(rep.Summary.TotalFilesTouched) / nf),
		CompletionRate:         round1(float64(rep.SessionsCompleted) / nf * 100),
		IssueRate:              round1(float64(rep.SessionsWithIssues) / nf * 100),
		ExpandedCompletionRate: round1(float64(successCount) / nf * 100),
	}

	if len(durations) > 0 {
		rep.DurationDistribution = &DurationDistribution{
			Min:    round1(minOf(durations)),
			Max:    round1(maxOf(durations)),
			Median: round1(Median(durations)),
			P25:    round1(Percentile(durations, 25)),
			P75:    round1(Percentile(durations, 75)),
			P90:    round1(Percentile(durations, 90)),
			StdDev: round1(StdDev(durations)),
		}
		rep.DurationHistogram = DurationHistogram(durations)
	}
	if len(toolCallsList) > 0 {
		rep.ToolCallsDist = &CountDistribution{
			Min:    int(minOf(toolCallsList)),
			Max:    int(maxOf(toolCallsList)),
			Median: round1(Median(toolCallsList)),
			P90:    round1(Percentile(toolCallsList, 90)),
		}
	}
	if len(filesTouchedList) > 0 {
		rep.FilesTouchedDist = &CountDistribution{
			Min:    int(minOf(filesTouchedList)),
			Max:    int(maxOf(filesTouchedList)),
			Median: round1(Median(filesTouchedList)),
			P90:    round1(Percentile(filesTouchedList, 90)),
		}
	}

	rep.EfficiencyAverages = make(map[string]EfficiencyAverage)
	for key, values := range efficiencies {
		if len(values) > 0 {
			rep.EfficiencyAverages[key] = EfficiencyAverage{
				Avg:    round2(Mean(values)),
				Median: round2(Median(values)),
			}
		}
	}

	if len(confidenceScores) > 0 {
		cs := &ConfidenceStats{
			AvgScore:    round1(Mean(confidenceScores)),
			MedianScore: round1(Median(confidenceScores)),
			MinScore:    int(minOf(confidenceScores)),
			MaxScore:    int(maxOf(confidenceScores)),
		}
		for _, s := range confidenceScores {
			switch {
			case s >= 70:
				cs.HighCount++
			case s >= 40:
				cs.MediumCount++
			default:
				cs.LowCount++
			}
		}
		rep.CompletionConfidence = cs
	}

	// Activity rate discounts the overlap between edits and commits so a
	// session showing both is not counted twice.
	overlap := float64(minInt(sessionsWithEdits, sessionsWithCommits)) * 0.5
	rep.ActivityMetrics = &ActivityMetrics{
		SessionsWithEdits:      sessionsWithEdits,
		SessionsWithEditsPct:   round1(float64(sessionsWithEdits) / nf * 100),
		SessionsWithCommits:    sessionsWithCommits,
		SessionsWithCommitsPct: round1(float64(sessionsWithCommits) / nf * 100),
		SessionsWithTests:      sessionsWithTests,
		SessionsWithTestsPct:   round1(float64(sessionsWithTests) / nf * 100),
		ActivityRate:           round1((float64(sessionsWithEdits) + float64(sessionsWithCommits) - overlap) / nf * 100),
	}

	rep.CompletionSignals = &CompletionSignals{
		Positive: map[string]int{
			"has_edits":         sessionsWithEdits,
			"successful_commit": sessionsWithCommits,
			"tests_ran":         sessionsWithTests,
		},
		Negative: map[string]int{
			"sessions_with_issues": rep.SessionsWithIssues,
		},
	}

	for _, st := range rep.BySessionType {
		if st.Count > 0 {
			st.Pct = round1(float64(st.Count) / nf * 100)
			st.AvgDuration = round1(st.TotalDuration / float64(st.Count))
			st.AvgToolCalls = round1(float64(st.TotalToolCalls) / float64(st.Count))
		}
		st.TotalDuration = round1(st.TotalDuration)
	}

	return rep
}

func collectEfficiency(acc map[string][]float64, e analyze.Efficiency) {
	pairs := []struct {
		key string
		val float64
	}{
		{"tools_per_file", e.ToolsPerFile},
		{"tools_per_message", e.ToolsPerMessage},
		{"files_per_hour", e.FilesPerHour},
		{"messages_per_minute", e.MessagesPerMinute},
	}
	for _, p := range pairs {
		if p.val > 0 {
			acc[p.key] = append(acc[p.key], p.val)
		}
	}
}

func shortProject(project string) string {
	if project == "" {
		return "unknown"
	}
	if i := strings.LastIndex(project, "/"); i >= 0 {
		return project[i+1:]
	}
	return project
}

func containsTool(tools []string, name string) bool {
	for _, t := range tools {
		if t == name {
			return true
		}
	}
	return false
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
