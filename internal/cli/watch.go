package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/aggregate"
	"github.com/johns/sessionlens/internal/report"
	"github.com/johns/sessionlens/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze whenever transcripts change",
	Long: `Watch the projects directory and re-run the analysis after sessions go
quiet. Artifacts are rewritten on every pass, so reports stay current
while Claude Code is in use. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce := time.Duration(cfg.Watch.DebounceSeconds) * time.Second
		w, err := watch.New(cfg.ProjectsDir, watch.Options{Debounce: debounce})
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "watching %s\n", cfg.ProjectsDir)
		err = w.Run(ctx, func(paths []string) {
			fmt.Fprintf(os.Stderr, "%d transcripts changed, re-analyzing\n", len(paths))
			if err := reanalyze(); err != nil {
				fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func reanalyze() error {
	recs, err := collectRecords(cfg, "", "", cfg.DaysBack)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	results := analyzeRecords(cfg, recs)
	rep := aggregate.Build(results)

	if err := writeJSON(cfg.AnalysisPath(), results); err != nil {
		return err
	}
	if err := writeJSON(cfg.ReportPath(), rep); err != nil {
		return err
	}
	if cfg.Report.HTML {
		if err := report.WriteHTML(cfg.HTMLPath(), cfg.Report.Title, rep, results); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "updated artifacts for %d sessions\n", len(results))
	return nil
}
