package trends

import (
	"fmt"
	"strings"
)

// Format renders a Result as aligned terminal output.
func Format(r Result) string {
	if r.TotalSessions == 0 {
		if r.Project != "" {
			return fmt.Sprintf("sessionlens trends --project %s\n\n  No sessions found for project %q.\n", r.Project, r.Project)
		}
		return "sessionlens trends\n\n  No sessions found. Run `sessionlens analyze` first.\n"
	}

	var b strings.Builder

	if r.Project != "" {
		fmt.Fprintf(&b, "sessionlens trends --project %s\n", r.Project)
	} else {
		b.WriteString("sessionlens trends\n")
	}

	// Overview
	fmt.Fprintf(&b, "\nOverview (%d sessions, %d weeks)\n", r.TotalSessions, r.TotalWeeks)
	for _, m := range r.Metrics {
		arrow := directionArrow(m.Direction, m.DeltaPct)
		detail := ""
		if m.Direction != "stable" && m.DeltaPct != 0 {
			detail = fmt.Sprintf(" (%+.0f%%)", m.DeltaPct)
		}
		avgStr := formatMetricValue(m.Name, m.OverallAvg)
		fmt.Fprintf(&b, "  %-16s %8s avg  %s %s%s\n", m.Name, avgStr, arrow, m.Direction, detail)
	}

	// Per-metric week tables
	for _, m := range r.Metrics {
		if len(m.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", metricTitle(m.Name))
		fmt.Fprintf(&b, "  %-10s %8s %8s\n", "Week", "Value", "Avg")
		for _, p := range m.Points {
			valStr := formatMetricValue(m.Name, p.Value)
			avgStr := ""
			if p.RollingAvg > 0 {
				avgStr = formatMetricValue(m.Name, p.RollingAvg)
			}
			marker := ""
			if p.Anomaly {
				if p.RollingAvg > 0 && p.Value > p.RollingAvg {
					marker = "  ^ spike"
				} else {
					marker = "  v dip"
				}
			}
			fmt.Fprintf(&b, "  %-10s %8s %8s%s\n", p.WeekLabel, valStr, avgStr, marker)
		}
	}

	// Anomalies section
	var anomalies []string
	for _, m := range r.Metrics {
		for _, p := range m.Points {
			if p.Anomaly {
				kind := "spike"
				if p.RollingAvg > 0 && p.Value < p.RollingAvg {
					kind = "dip"
				}
				avgStr := formatMetricValue(m.Name, p.RollingAvg)
				valStr := formatMetricValue(m.Name, p.Value)
				anomalies = append(anomalies, fmt.Sprintf("  %-10s %-16s %s (avg %s)  %s",
					p.WeekLabel, m.Name, valStr, avgStr, kind))
			}
		}
	}
	if len(anomalies) > 0 {
		b.WriteString("\nAnomalies\n")
		for _, a := range anomalies {
			b.WriteString(a)
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func directionArrow(dir string, delta float64) string {
	switch dir {
	case "stable":
		return "→"
	default:
		if delta > 0 {
			return "↑"
		}
		return "↓"
	}
}

func metricTitle(name string) string {
	switch name {
	case "completion rate":
		return "Completion Rate (%)"
	case "confidence":
		return "Completion Confidence"
	case "duration":
		return "Duration (minutes)"
	case "issue rate":
		return "Issue Rate (%)"
	default:
		return name
	}
}

func formatMetricValue(metric string, val float64) string {
	switch metric {
	case "duration":
		return formatDuration(int(val + 0.5))
	case "completion rate", "issue rate":
		return fmt.Sprintf("%.0f%%", val)
	default:
		return fmt.Sprintf("%.0f", val)
	}
}

// formatDuration formats minutes as "Xh Ym".
func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
