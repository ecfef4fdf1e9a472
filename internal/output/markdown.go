package output

import (
	"fmt"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
)

// MarkdownFormatter outputs the report as human-readable Markdown,
// suitable for dropping back into the vault itself.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the report as Markdown.
func (f *MarkdownFormatter) Format(report *audit.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Vault Audit\n\n")
	b.WriteString(fmt.Sprintf("- Documents: %d\n", report.DocumentCount))
	b.WriteString(fmt.Sprintf("- Links: %d total, %d unique\n",
		report.Connectivity.TotalLinks, report.Connectivity.UniqueLinks))
	b.WriteString(fmt.Sprintf("- Connectivity: %.0f%% (knowledge: %.0f%%)\n",
		report.Connectivity.ConnectivityScore*100, report.Connectivity.KnowledgeConnectivity*100))

	if len(report.MissingCore) > 0 {
		b.WriteString("\n## Missing core files\n\n")
		for _, f := range report.MissingCore {
			b.WriteString(fmt.Sprintf("- `%s`\n", f))
		}
	}

	if len(report.Connectivity.BrokenLinks) > 0 {
		b.WriteString("\n## Broken links\n\n")
		for _, bl := range report.Connectivity.BrokenLinks {
			b.WriteString(fmt.Sprintf("- `%s` -> `%s`\n", bl.Source, bl.Target))
		}
	}

	if len(report.Connectivity.KnowledgeOrphans) > 0 {
		b.WriteString("\n## Orphan documents\n\n")
		for _, p := range report.Connectivity.KnowledgeOrphans {
			b.WriteString(fmt.Sprintf("- `%s`\n", p))
		}
	}

	if len(report.Connectivity.PathStyleLinks) > 0 {
		b.WriteString("\n## Path-style links\n\n")
		for _, pl := range report.Connectivity.PathStyleLinks {
			b.WriteString(fmt.Sprintf("- `%s` -> `%s` (use `[[%s]]`)\n", pl.Source, pl.Target, pl.SuggestedName))
		}
	}

	writeQuality(&b, report)

	if len(report.Graph.Hubs) > 0 {
		b.WriteString("\n## Hubs\n\n")
		for i, h := range report.Graph.Hubs {
			b.WriteString(fmt.Sprintf("%d. `%s` (%d inbound)\n", i+1, h.Path, h.InDegree))
		}
	}
	b.WriteString(fmt.Sprintf("\n---\n*%d clusters, %d bridge documents*\n",
		len(report.Graph.Clusters), len(report.Graph.Bridges)))

	return []byte(b.String()), nil
}

func writeQuality(b *strings.Builder, report *audit.Report) {
	q := report.Quality
	if len(q.Stubs) == 0 && len(q.Oversized) == 0 && len(q.Stale) == 0 {
		return
	}
	b.WriteString("\n## Quality\n\n")
	for _, f := range q.Stubs {
		b.WriteString(fmt.Sprintf("- stub: `%s` (%d words)\n", f.Path, f.WordCount))
	}
	for _, f := range q.Oversized {
		b.WriteString(fmt.Sprintf("- oversized: `%s` (%d words)\n", f.Path, f.WordCount))
	}
	for _, f := range q.Stale {
		b.WriteString(fmt.Sprintf("- stale: `%s` (last modified %s)\n", f.Path, f.ModTime.Format("2006-01-02")))
	}
}
