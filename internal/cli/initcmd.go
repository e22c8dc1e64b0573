package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault(cfg.OutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
