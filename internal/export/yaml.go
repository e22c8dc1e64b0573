package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/johns/sessionlens/internal/analyze"
)

// YAMLExporter exports results in YAML format.
type YAMLExporter struct{}

// Export writes the results to w as a YAML document.
func (e *YAMLExporter) Export(results []analyze.Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(results)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
