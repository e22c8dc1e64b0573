package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/discover"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var (
	listProject string
	listDays    int
	listRaw     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List analyzed sessions with their outcomes",
	Long: `List sessions from the last analysis run, newest first, with outcome
and confidence. Use --raw to list discovered transcript files instead,
without requiring a prior analyze run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listRaw {
			return listTranscripts()
		}
		return listAnalyzed()
	},
}

func init() {
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Only list sessions whose project matches")
	listCmd.Flags().IntVar(&listDays, "days", 0, "How many days back to scan (with --raw)")
	listCmd.Flags().BoolVar(&listRaw, "raw", false, "List transcript files on disk instead of analyses")
	rootCmd.AddCommand(listCmd)
}

func listAnalyzed() error {
	results, err := loadResults(cfg.AnalysisPath())
	if err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Metadata.Date != results[j].Metadata.Date {
			return results[i].Metadata.Date > results[j].Metadata.Date
		}
		return results[i].SessionID < results[j].SessionID
	})

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d analyzed sessions", len(results))))
	fmt.Println()

	shown := 0
	for i := range results {
		r := &results[i]
		if listProject != "" && !matchProject(r.Project, listProject) {
			continue
		}
		shown++

		task := r.Task.PrimaryTask
		if task == "" {
			task = "(no prompt captured)"
		}
		if len(task) > 70 {
			task = task[:67] + "..."
		}

		fmt.Printf("%s %s\n", outcomeBadge(r.Task.Outcome), task)
		fmt.Printf("  %s %s %s\n",
			projectStyle.Render(discover.ShortProject(r.Project)),
			dateStyle.Render(fmt.Sprintf("%s · %.1fm · %d tools · confidence %d",
				r.Metadata.Date, durationMinutes(r), r.Statistics.ToolCallCount, r.Completion.ConfidenceScore)),
			idStyle.Render(r.SessionID))
	}

	if shown == 0 {
		fmt.Println(dateStyle.Render("no sessions matched"))
	}
	return nil
}

func listTranscripts() error {
	days := cfg.DaysBack
	if listDays > 0 {
		days = listDays
	}
	files, err := discover.Discover(cfg.ProjectsDir, discover.Options{
		DaysBack: days,
		Project:  listProject,
	})
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d transcripts under %s", len(files), cfg.ProjectsDir)))
	fmt.Println()
	for _, f := range files {
		fmt.Printf("%s %s %s\n",
			projectStyle.Render(discover.ShortProject(f.Project)),
			dateStyle.Render(f.ModTime.Format("2006-01-02 15:04")),
			idStyle.Render(f.SessionID))
	}
	return nil
}

func outcomeBadge(o analyze.Outcome) string {
	label := string(o)
	switch o {
	case analyze.OutcomeCompleted, analyze.OutcomeCompletedWithIssues,
		analyze.OutcomeExplorationComplete, analyze.OutcomeLookupComplete:
		return goodStyle.Render(label)
	case analyze.OutcomeAbandoned, analyze.OutcomeBlocked:
		return badStyle.Render(label)
	default:
		return warnStyle.Render(label)
	}
}

func matchProject(project, filter string) bool {
	return filter == "" ||
		containsFold(project, filter) ||
		containsFold(discover.ShortProject(project), filter)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func durationMinutes(r *analyze.Result) float64 {
	if r.Metadata.Duration == nil {
		return 0
	}
	return *r.Metadata.Duration
}
