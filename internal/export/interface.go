// Package export serializes analysis results to interchange formats.
package export

import (
	"fmt"
	"io"

	"github.com/johns/sessionlens/internal/analyze"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(results []analyze.Result, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, yaml, md)", format)
	}
}
