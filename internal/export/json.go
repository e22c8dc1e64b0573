package export

import (
	"encoding/json"
	"io"

	"github.com/johns/sessionlens/internal/analyze"
)

// JSONExporter exports results as one pretty-printed JSON array.
type JSONExporter struct{}

// Export writes the results to w as indented JSON.
func (e *JSONExporter) Export(results []analyze.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
