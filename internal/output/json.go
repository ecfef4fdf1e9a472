package output

import (
	"encoding/json"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
)

// JSONFormatter outputs the report as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format marshals the report as indented JSON.
func (f *JSONFormatter) Format(report *audit.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
