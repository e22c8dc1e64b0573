package cli

import (
	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/hook"
)

var hookEvent string

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a Claude Code SessionEnd hook (reads stdin)",
	Long: `Process a hook event from Claude Code. Reads the hook JSON from stdin,
analyzes the finished session, and folds it into the saved artifacts.

Install into ~/.claude/settings.json with 'sessionlens hook install'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hook.Handle(cfg, hookEvent)
	},
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the SessionEnd hook in Claude Code settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return hook.Install()
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the SessionEnd hook from Claude Code settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return hook.Uninstall()
	},
}

func init() {
	hookCmd.Flags().StringVar(&hookEvent, "event", "", "Override the hook event name")
	hookCmd.AddCommand(hookInstallCmd, hookUninstallCmd)
	rootCmd.AddCommand(hookCmd)
}
