package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
	"github.com/vaultdoctor/vaultdoctor/internal/graph"
)

// Style definitions for the terminal report.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#EEEEEE"})
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"})
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007700", Dark: "#55CC55"})
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"})
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#BB0000", Dark: "#FF5555"})
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)

// TerminalFormatter renders the report with color for interactive use.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a new TerminalFormatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// Format renders the report as styled terminal text.
func (f *TerminalFormatter) Format(report *audit.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Vault Audit"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %s, %d documents, %s", report.Root, report.DocumentCount, report.Duration.Round(1e6))))
	b.WriteString("\n\n")

	conn := report.Connectivity
	b.WriteString(sectionStyle.Render("Connectivity"))
	b.WriteString(fmt.Sprintf("\n  %d links (%d unique), score %s, knowledge %s\n",
		conn.TotalLinks, conn.UniqueLinks,
		scoreStyle(conn.ConnectivityScore).Render(fmt.Sprintf("%.0f%%", conn.ConnectivityScore*100)),
		scoreStyle(conn.KnowledgeConnectivity).Render(fmt.Sprintf("%.0f%%", conn.KnowledgeConnectivity*100))))

	if len(report.MissingCore) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Missing core files") + "\n")
		for _, p := range report.MissingCore {
			b.WriteString("  " + badStyle.Render(p) + "\n")
		}
	}

	if len(conn.BrokenLinks) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Broken links (%d)", len(conn.BrokenLinks))) + "\n")
		for _, bl := range conn.BrokenLinks {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", bl.Source, badStyle.Render(bl.Target)))
		}
	} else {
		b.WriteString("\n  " + okStyle.Render("no broken links") + "\n")
	}

	if len(conn.KnowledgeOrphans) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Orphans (%d knowledge, %d structural)",
			len(conn.KnowledgeOrphans), len(conn.StructuralOrphans))) + "\n")
		for _, p := range conn.KnowledgeOrphans {
			b.WriteString("  " + warnStyle.Render(p) + "\n")
		}
	}

	if len(conn.PathStyleLinks) > 0 {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Path-style links (%d)", len(conn.PathStyleLinks))) + "\n")
		for _, pl := range conn.PathStyleLinks {
			b.WriteString(fmt.Sprintf("  %s -> %s %s\n", pl.Source, pl.Target,
				dimStyle.Render("(use [["+pl.SuggestedName+"]])")))
		}
	}

	q := report.Quality
	if len(q.Stubs)+len(q.Oversized)+len(q.Stale) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Quality") + "\n")
		for _, fd := range q.Stubs {
			b.WriteString(fmt.Sprintf("  stub      %s %s\n", fd.Path, dimStyle.Render(fmt.Sprintf("(%d words)", fd.WordCount))))
		}
		for _, fd := range q.Oversized {
			b.WriteString(fmt.Sprintf("  oversized %s %s\n", fd.Path, dimStyle.Render(fmt.Sprintf("(%d words)", fd.WordCount))))
		}
		for _, fd := range q.Stale {
			b.WriteString(fmt.Sprintf("  stale     %s %s\n", fd.Path, dimStyle.Render("(last modified "+fd.ModTime.Format("2006-01-02")+")")))
		}
	}

	writeGraphSection(&b, report.Graph)

	return []byte(b.String()), nil
}

func writeGraphSection(b *strings.Builder, g *graph.Graph) {
	if len(g.Hubs) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Hubs") + "\n")
		for i, h := range g.Hubs {
			b.WriteString(fmt.Sprintf("  %2d. %s %s\n", i+1, h.Path, dimStyle.Render(fmt.Sprintf("(%d inbound)", h.InDegree))))
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("\n%d clusters, %d bridge documents\n",
		len(g.Clusters), len(g.Bridges))))
}

// scoreStyle maps a connectivity ratio to a severity color.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.8:
		return okStyle
	case score >= 0.5:
		return warnStyle
	default:
		return badStyle
	}
}
