package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/trends"
)

var (
	trendsProject string
	trendsWeeks   int
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show week-over-week movement of the analysis metrics",
	Long: `Bucket the last analysis run into ISO weeks and show how completion
rate, confidence, duration, and issue rate are moving, with rolling
averages and anomaly markers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := loadResults(cfg.AnalysisPath())
		if err != nil {
			return err
		}
		result := trends.Compute(results, trendsProject, trendsWeeks)
		fmt.Print(trends.Format(result))
		return nil
	},
}

func init() {
	trendsCmd.Flags().StringVarP(&trendsProject, "project", "p", "", "Only include sessions for this project")
	trendsCmd.Flags().IntVar(&trendsWeeks, "weeks", 12, "How many weeks to display")
	rootCmd.AddCommand(trendsCmd)
}
