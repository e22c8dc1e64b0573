// Package cli wires the sessionlens commands together.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/config"
)

var (
	cfgPath string
	cfg     config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sessionlens",
	Short: "Classify Claude Code sessions and grade their outcomes",
	Long: `sessionlens reads Claude Code transcript logs and derives, per session,
what kind of task it was, whether it finished, and how much to trust
that verdict.

Quick start:
  sessionlens analyze              # Scan ~/.claude/projects and print a report
  sessionlens list                 # List recent sessions
  sessionlens report               # Generate the HTML report
  sessionlens export --format md   # Export analyses as markdown

Configuration: ~/.config/sessionlens/config.toml (see 'sessionlens init')`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
}
