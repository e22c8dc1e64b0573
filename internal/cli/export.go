package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johns/sessionlens/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analyses in another format",
	Long: `Export the last analysis run as json, jsonl, yaml, or markdown.
Writes to stdout unless --output is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		results, err := loadResults(cfg.AnalysisPath())
		if err != nil {
			return err
		}

		if exportOutput == "" {
			return exporter.Export(results, os.Stdout)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", exportOutput, err)
		}
		defer f.Close()

		if err := exporter.Export(results, f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %d sessions to %s\n", len(results), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json, jsonl, yaml, md")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
