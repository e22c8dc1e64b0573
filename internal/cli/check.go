package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the sessionlens environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		report := check.Run(cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			return fmt.Errorf("checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
