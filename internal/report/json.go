package report

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONWriter outputs the report as JSON indented with two spaces.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) Writer {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write encodes report. HTML characters are left unescaped so policy
// values read exactly as the server sent them.
func (w *JSONWriter) Write(report *Report) (int, error) {
	data, err := Marshal(report)
	if err != nil {
		return 0, err
	}
	return w.output.Write(data)
}

// Marshal returns the JSON document written for report.
func Marshal(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
