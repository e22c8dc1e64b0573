package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/johns/sessionlens/internal/analyze"
)

// JSONLExporter exports results in JSONL format (one session per line).
type JSONLExporter struct{}

// Export writes each result to w as a single JSON line.
func (e *JSONLExporter) Export(results []analyze.Result, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i := range results {
		if err := enc.Encode(&results[i]); err != nil {
			return fmt.Errorf("encoding session %s: %w", results[i].SessionID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format.
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
