// Package report renders analysis output as a standalone HTML page and
// writes the JSON artifacts that feed it.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"

	"github.com/johns/sessionlens/internal/aggregate"
	"github.com/johns/sessionlens/internal/analyze"
)

//go:embed report.tmpl
var templateFS embed.FS

var page = template.Must(template.ParseFS(templateFS, "report.tmpl"))

// maxSessionDetails caps the per-session list so reports over large
// histories stay a reasonable size.
const maxSessionDetails = 100

type barItem struct {
	Label string
	Count int
	Pct   float64
	Width float64
}

type projectRow struct {
	Name  string
	Stats *aggregate.ProjectStats
}

type dateRow struct {
	Date  string
	Stats *aggregate.DateStats
}

type sessionRow struct {
	Task       string
	Outcome    string
	Project    string
	Date       string
	Duration   float64
	ToolCalls  int
	Confidence int
	Ticket     string
}

type pageData struct {
	Title       string
	GeneratedAt string
	Report      *aggregate.Report
	TotalHours  float64

	Outcomes  []barItem
	TaskTypes []barItem
	Tools     []barItem
	Histogram []barItem

	Projects []projectRow
	Dates    []dateRow
	Sessions []sessionRow
}

// WriteHTML renders the report page to path.
func WriteHTML(path, title string, rep *aggregate.Report, results []analyze.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	data := buildPage(title, rep, results)
	if err := page.Execute(f, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func buildPage(title string, rep *aggregate.Report, results []analyze.Result) *pageData {
	d := &pageData{
		Title:       title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Report:      rep,
		TotalHours:  round1(rep.Summary.TotalDurationMinutes / 60),
	}

	valid := rep.Summary.ValidSessions
	d.Outcomes = bars(rep.ByOutcome, valid, 0)
	d.TaskTypes = bars(rep.ByTaskType, valid, 0)
	d.Tools = bars(rep.ToolsUsage, 0, 15)

	if len(rep.DurationHistogram) > 0 {
		max := 0
		for _, c := range rep.DurationHistogram {
			if c > max {
				max = c
			}
		}
		for _, label := range aggregate.HistogramBuckets {
			count := rep.DurationHistogram[label]
			d.Histogram = append(d.Histogram, barItem{
				Label: label,
				Count: count,
				Width: widthOf(count, max),
			})
		}
	}

	for name, ps := range rep.ByProject {
		d.Projects = append(d.Projects, projectRow{Name: name, Stats: ps})
	}
	sort.Slice(d.Projects, func(i, j int) bool {
		if d.Projects[i].Stats.Sessions != d.Projects[j].Stats.Sessions {
			return d.Projects[i].Stats.Sessions > d.Projects[j].Stats.Sessions
		}
		return d.Projects[i].Name < d.Projects[j].Name
	})

	for date, ds := range rep.ByDate {
		d.Dates = append(d.Dates, dateRow{Date: date, Stats: ds})
	}
	sort.Slice(d.Dates, func(i, j int) bool { return d.Dates[i].Date > d.Dates[j].Date })

	d.Sessions = sessionRows(results)
	return d
}

func sessionRows(results []analyze.Result) []sessionRow {
	rows := make([]sessionRow, 0, len(results))
	for i := range results {
		r := &results[i]
		task := r.Task.PrimaryTask
		if task == "" {
			task = "(no prompt captured)"
		}
		rows = append(rows, sessionRow{
			Task:       task,
			Outcome:    string(r.Task.Outcome),
			Project:    r.Project,
			Date:       r.Metadata.Date,
			Duration:   durationOf(r),
			ToolCalls:  r.Statistics.ToolCallCount,
			Confidence: r.Completion.ConfidenceScore,
			Ticket:     r.Task.Ticket,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date > rows[j].Date
		}
		return rows[i].Duration > rows[j].Duration
	})
	if len(rows) > maxSessionDetails {
		rows = rows[:maxSessionDetails]
	}
	return rows
}

// bars converts a count map to sorted chart rows. When total is nonzero the
// rows carry percentages; when limit is nonzero the list is truncated.
func bars(m map[string]int, total, limit int) []barItem {
	type kv struct {
		k string
		v int
	}
	items := make([]kv, 0, len(m))
	max := 0
	for k, v := range m {
		items = append(items, kv{k, v})
		if v > max {
			max = v
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].v != items[j].v {
			return items[i].v > items[j].v
		}
		return items[i].k < items[j].k
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]barItem, 0, len(items))
	for _, it := range items {
		bi := barItem{Label: it.k, Count: it.v, Width: widthOf(it.v, max)}
		if total > 0 {
			bi.Pct = round1(float64(it.v) / float64(total) * 100)
		}
		out = append(out, bi)
	}
	return out
}

func widthOf(count, max int) float64 {
	if max == 0 {
		return 0
	}
	return round1(float64(count) / float64(max) * 100)
}

func durationOf(r *analyze.Result) float64 {
	if r.Metadata.Duration == nil {
		return 0
	}
	return *r.Metadata.Duration
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
