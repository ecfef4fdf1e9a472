// Package output renders audit reports and fix plans for terminals,
// markdown documents, and machine consumers.
package output

import (
	"fmt"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
)

// Formatter formats an audit report into output bytes.
type Formatter interface {
	Format(report *audit.Report) ([]byte, error)
}

// ForFormat returns the formatter registered under the given name.
func ForFormat(name string) (Formatter, error) {
	switch name {
	case "json":
		return NewJSONFormatter(), nil
	case "markdown":
		return NewMarkdownFormatter(), nil
	case "terminal", "":
		return NewTerminalFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", name)
	}
}
