package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// Format renders a report for the terminal, sectioned the same way the JSON
// artifact is.
func Format(rep *Report) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	fmt.Fprintln(&b, dimStyle.Render(rule))
	fmt.Fprintln(&b, bannerStyle.Render("SESSION ANALYSIS REPORT"))
	fmt.Fprintln(&b, dimStyle.Render(rule))

	s := rep.Summary
	section(&b, "OVERALL SUMMARY")
	line(&b, "Total sessions analyzed: %d", s.TotalSessions)
	line(&b, "Valid sessions: %d (%d filtered out)", s.ValidSessions, s.InvalidSessions)
	line(&b, "Total time: %.0f minutes (%.1f hours)", s.TotalDurationMinutes, s.TotalDurationMinutes/60)
	line(&b, "Total user messages: %d", s.TotalUserMessages)
	line(&b, "Total assistant messages: %d", s.TotalAssistantMessages)
	line(&b, "Total tool calls: %d", s.TotalToolCalls)
	line(&b, "Total files touched: %d", s.TotalFilesTouched)

	if avg := rep.Averages; avg != nil {
		section(&b, "AVERAGES PER SESSION")
		line(&b, "Avg duration: %v minutes", avg.AvgDurationMinutes)
		line(&b, "Avg user messages: %v", avg.AvgUserMessages)
		line(&b, "Avg tool calls: %v", avg.AvgToolCalls)
		line(&b, "Avg files touched: %v", avg.AvgFilesTouched)
		line(&b, "Completion rate: %v%%", avg.CompletionRate)
		line(&b, "Expanded completion rate: %v%%", avg.ExpandedCompletionRate)
		line(&b, "Sessions with issues: %v%%", avg.IssueRate)
	}

	if d := rep.DurationDistribution; d != nil {
		section(&b, "DURATION DISTRIBUTION")
		line(&b, "Min: %v min | Max: %v min", d.Min, d.Max)
		line(&b, "Median: %v min | Std Dev: %v min", d.Median, d.StdDev)
		line(&b, "P25: %v min | P75: %v min | P90: %v min", d.P25, d.P75, d.P90)
	}

	if len(rep.DurationHistogram) > 0 {
		section(&b, "DURATION HISTOGRAM")
		for _, bucket := range HistogramBuckets {
			line(&b, "%-8s %s", bucket, countStyle.Render(fmt.Sprintf("%d", rep.DurationHistogram[bucket])))
		}
	}

	if len(rep.ByOutcome) > 0 {
		section(&b, "BY OUTCOME")
		for _, kv := range sortedByCount(rep.ByOutcome) {
			line(&b, "%s: %d (%v%%)", kv.key, kv.count, pct(kv.count, s.ValidSessions))
		}
	}

	if len(rep.ByProject) > 0 {
		section(&b, "BY PROJECT")
		line(&b, "%-20s %8s %8s %6s %6s %8s", "Project", "Sessions", "Complete", "Rate", "Issues", "Avg Min")
		projects := make([]string, 0, len(rep.ByProject))
		for name := range rep.ByProject {
			projects = append(projects, name)
		}
		sort.Slice(projects, func(i, j int) bool {
			a, z := rep.ByProject[projects[i]], rep.ByProject[projects[j]]
			if a.Sessions != z.Sessions {
				return a.Sessions > z.Sessions
			}
			return projects[i] < projects[j]
		})
		for _, name := range projects {
			p := rep.ByProject[name]
			line(&b, "%-20s %8d %8d %5.1f%% %5.1f%% %8.1f",
				truncateName(name, 20), p.Sessions, p.Completed, p.CompletionRate, p.IssueRate, p.AvgDuration)
		}
	}

	if len(rep.ByTaskType) > 0 {
		section(&b, "BY TASK TYPE")
		for _, kv := range sortedByCount(rep.ByTaskType) {
			line(&b, "%s: %d (%v%%)", kv.key, kv.count, pct(kv.count, s.ValidSessions))
		}
	}

	if st := rep.BySessionType; len(st) > 0 {
		section(&b, "WORK VS LOOKUP")
		for _, name := range []string{"work", "lookup"} {
			data := st[name]
			if data == nil || data.Count == 0 {
				continue
			}
			line(&b, "%s: %d sessions (%v%%), avg %v min, avg %v tool calls",
				name, data.Count, data.Pct, data.AvgDuration, data.AvgToolCalls)
		}
	}

	if len(rep.ByDate) > 0 {
		section(&b, "TIME SERIES (BY DATE)")
		dates := make([]string, 0, len(rep.ByDate))
		for d := range rep.ByDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		if len(dates) > 10 {
			dates = dates[len(dates)-10:]
		}
		for _, d := range dates {
			data := rep.ByDate[d]
			line(&b, "%s: %d sessions, %d completed (%v%%)", d, data.Sessions, data.Completed, pct(data.Completed, data.Sessions))
		}
	}

	if len(rep.ToolsUsage) > 0 {
		section(&b, "TOP 10 TOOLS USED")
		for _, kv := range top(sortedByCount(rep.ToolsUsage), 10) {
			line(&b, "%s: %d", kv.key, kv.count)
		}
	}

	if len(rep.TopicsFrequency) > 0 {
		section(&b, "TOP TOPICS")
		for _, kv := range top(sortedByCount(rep.TopicsFrequency), 10) {
			line(&b, "%s: %d", kv.key, kv.count)
		}
	}

	if len(rep.Tickets) > 0 {
		section(&b, "TICKETS")
		tickets := make([]string, 0, len(rep.Tickets))
		for t := range rep.Tickets {
			tickets = append(tickets, t)
		}
		sort.Slice(tickets, func(i, j int) bool {
			a, z := rep.Tickets[tickets[i]], rep.Tickets[tickets[j]]
			if a.Sessions != z.Sessions {
				return a.Sessions > z.Sessions
			}
			return tickets[i] < tickets[j]
		})
		if len(tickets) > 10 {
			tickets = tickets[:10]
		}
		for _, t := range tickets {
			data := rep.Tickets[t]
			line(&b, "%s: %d sessions, %d completed (%v%%)", t, data.Sessions, data.Completed, pct(data.Completed, data.Sessions))
		}
	}

	if len(rep.EfficiencyAverages) > 0 {
		section(&b, "EFFICIENCY METRICS")
		keys := make([]string, 0, len(rep.EfficiencyAverages))
		for k := range rep.EfficiencyAverages {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := rep.EfficiencyAverages[k]
			line(&b, "%s: avg=%v, median=%v", k, v.Avg, v.Median)
		}
	}

	if cc := rep.CompletionConfidence; cc != nil {
		section(&b, "COMPLETION CONFIDENCE")
		line(&b, "Avg score: %v | Median: %v", cc.AvgScore, cc.MedianScore)
		line(&b, "Range: %d - %d", cc.MinScore, cc.MaxScore)
		line(&b, "High: %d | Medium: %d | Low: %d", cc.HighCount, cc.MediumCount, cc.LowCount)
	}

	if am := rep.ActivityMetrics; am != nil {
		section(&b, "ACTIVITY METRICS")
		line(&b, "Sessions with edits: %d (%v%%)", am.SessionsWithEdits, am.SessionsWithEditsPct)
		line(&b, "Sessions with commits: %d (%v%%)", am.SessionsWithCommits, am.SessionsWithCommitsPct)
		line(&b, "Sessions with tests: %d (%v%%)", am.SessionsWithTests, am.SessionsWithTestsPct)
		line(&b, "Activity rate: %v%%", am.ActivityRate)
	}

	if len(rep.CommonIssues) > 0 {
		section(&b, "COMMON ISSUES")
		for _, kv := range sortedByCount(rep.CommonIssues) {
			line(&b, "%s: %d occurrences", kv.key, kv.count)
		}
	}

	if len(rep.CommonSuccesses) > 0 {
		section(&b, "COMMON SUCCESSES")
		for _, kv := range sortedByCount(rep.CommonSuccesses) {
			line(&b, "%s: %d occurrences", kv.key, kv.count)
		}
	}

	fmt.Fprintln(&b, dimStyle.Render(rule))
	return b.String()
}

type keyCount struct {
	key   string
	count int
}

func sortedByCount(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func top(items []keyCount, n int) []keyCount {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n", sectionStyle.Render(title))
}

func line(b *strings.Builder, format string, args ...interface{}) {
	fmt.Fprintf(b, "   "+format+"\n", args...)
}
