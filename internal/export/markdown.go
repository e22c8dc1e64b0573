package export

import (
	"fmt"
	"io"

	"github.com/johns/sessionlens/internal/analyze"
	"github.com/johns/sessionlens/internal/render"
)

// MarkdownExporter exports results as a markdown document, one note per
// session separated by horizontal rules.
type MarkdownExporter struct{}

// Export writes the results to w as markdown.
func (e *MarkdownExporter) Export(results []analyze.Result, w io.Writer) error {
	for i := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, render.SessionSummary(&results[i])); err != nil {
			return fmt.Errorf("writing session %s: %w", results[i].SessionID, err)
		}
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
