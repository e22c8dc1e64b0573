package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/aggregate"
	"github.com/johns/sessionlens/internal/report"
)

var (
	reportOutput string
	reportTitle  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the HTML report from the last analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := loadResults(cfg.AnalysisPath())
		if err != nil {
			return err
		}
		rep := aggregate.Build(results)

		out := reportOutput
		if out == "" {
			out = cfg.HTMLPath()
		}
		title := reportTitle
		if title == "" {
			title = cfg.Report.Title
		}

		if err := report.WriteHTML(out, title, rep, results); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Report path (default from config)")
	reportCmd.Flags().StringVar(&reportTitle, "title", "", "Report title (default from config)")
	rootCmd.AddCommand(reportCmd)
}
