package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/aggregate"
	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/archive"
	"github.com/johns/sessionlens/internal/discover"
	"github.com/johns/sessionlens/internal/report"
)

var (
	analyzeInput    string
	analyzeProject  string
	analyzeDays     int
	analyzeWorkers  int
	analyzeQuiet    bool
	analyzeHTML     bool
	analyzeCompress bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze sessions and write the report artifacts",
	Long: `Scan the projects directory (or read a saved sessions file), classify
each session, grade its completion, and write the analysis and aggregate
report JSON to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeDays < 0 {
			return fmt.Errorf("--days must be >= 0")
		}
		days := cfg.DaysBack
		if cmd.Flags().Changed("days") {
			days = analyzeDays
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = analyzeWorkers
		}

		recs, err := collectRecords(cfg, analyzeInput, analyzeProject, days)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return fmt.Errorf("no sessions found")
		}

		results := analyzeRecords(cfg, recs)
		rep := aggregate.Build(results)

		if err := writeJSON(cfg.AnalysisPath(), results); err != nil {
			return err
		}
		if err := writeJSON(cfg.ReportPath(), rep); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s and %s\n", cfg.AnalysisPath(), cfg.ReportPath())

		if analyzeHTML || cfg.Report.HTML {
			if err := report.WriteHTML(cfg.HTMLPath(), cfg.Report.Title, rep, results); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", cfg.HTMLPath())
		}

		if analyzeCompress || cfg.Archive.Compress {
			if analyzeInput != "" {
				fmt.Fprintln(os.Stderr, "skipping compression: analyzing a saved file, not transcripts")
			} else if err := compressTranscripts(analyzeProject, days); err != nil {
				return err
			}
		}

		if !analyzeQuiet {
			fmt.Print(aggregate.Format(rep))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Analyze a saved sessions JSON file instead of scanning")
	analyzeCmd.Flags().StringVarP(&analyzeProject, "project", "p", "", "Only analyze sessions whose project matches")
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "How many days back to scan (overrides config)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Parallel analysis workers (overrides config)")
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "Skip the terminal report")
	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "Also generate the HTML report")
	analyzeCmd.Flags().BoolVar(&analyzeCompress, "compress", false, "Compress transcripts after analysis")
	rootCmd.AddCommand(analyzeCmd)
}

func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func compressTranscripts(project string, days int) error {
	files, err := discover.Discover(cfg.ProjectsDir, discover.Options{
		DaysBack: days,
		Project:  project,
	})
	if err != nil {
		return err
	}
	compressed := 0
	for _, f := range files {
		if strings.HasSuffix(f.Path, archive.Ext) {
			continue
		}
		if _, err := archive.Compress(f.Path); err != nil {
			fmt.Fprintf(os.Stderr, "compress %s: %v\n", f.Path, err)
			continue
		}
		compressed++
	}
	fmt.Fprintf(os.Stderr, "compressed %d transcripts\n", compressed)
	return nil
}

// loadResults reads a previously written analysis artifact.
func loadResults(path string) ([]analyze.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading analysis: %w (run 'sessionlens analyze' first)", err)
	}
	var results []analyze.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return results, nil
}
