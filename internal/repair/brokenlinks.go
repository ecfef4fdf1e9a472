package repair

import (
	"fmt"
	"path"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/links"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// planBrokenLinks proposes a rewrite for every unique broken target whose
// closest known document name clears the fuzzy threshold, and a stub
// document for every target that matches nothing. All rewrites sharing a
// source document end up in one change so the merge step chains them
// against that document's content.
func planBrokenLinks(docs []vault.Document, conn *analysis.ConnectivityReport, cfg PlannerConfig) []change {
	if conn == nil || len(conn.BrokenLinks) == 0 {
		return nil
	}

	names := make([]string, 0, len(docs))
	seenName := make(map[string]bool, len(docs))
	for _, d := range docs {
		n := d.Name()
		if !seenName[strings.ToLower(n)] {
			seenName[strings.ToLower(n)] = true
			names = append(names, n)
		}
	}

	// Match each unique raw target once, in finding order.
	type rewrite struct {
		newName string
		matched bool
	}
	matches := make(map[string]rewrite)
	var uniqueOrder []string
	for _, bl := range conn.BrokenLinks {
		if _, seen := matches[bl.Target]; seen {
			continue
		}
		t := links.ParseTarget(bl.Target)
		name, ok := FindBestMatch(strings.TrimSuffix(path.Base(t.File), ".md"), names, cfg.FuzzyThreshold)
		matches[bl.Target] = rewrite{newName: name, matched: ok}
		uniqueOrder = append(uniqueOrder, bl.Target)
	}

	var changes []change

	// Rewrites, grouped by source document in finding order.
	type pending struct {
		source   string
		rewrites []string // raw targets, in per-document link order
	}
	var perSource []pending
	sourceIndex := make(map[string]int)
	for _, bl := range conn.BrokenLinks {
		if !matches[bl.Target].matched {
			continue
		}
		i, ok := sourceIndex[bl.Source]
		if !ok {
			perSource = append(perSource, pending{source: bl.Source})
			i = len(perSource) - 1
			sourceIndex[bl.Source] = i
		}
		perSource[i].rewrites = append(perSource[i].rewrites, bl.Target)
	}

	for _, p := range perSource {
		targets := p.rewrites
		var descs []string
		done := make(map[string]bool)
		for _, raw := range targets {
			if done[raw] {
				continue
			}
			done[raw] = true
			descs = append(descs, describeRewrite(raw, rewrittenTarget(raw, matches[raw].newName)))
		}
		changes = append(changes, change{
			category:    CategoryLinks,
			path:        p.source,
			description: strings.Join(descs, ", "),
			transform: func(content string) string {
				for _, raw := range targets {
					content = rewriteLink(content, raw, rewrittenTarget(raw, matches[raw].newName))
				}
				return content
			},
		})
	}

	// Stubs for targets nothing matched.
	for _, raw := range uniqueOrder {
		if matches[raw].matched {
			continue
		}
		t := links.ParseTarget(raw)
		if t.File == "" {
			continue // malformed self-style target, nothing to create
		}
		stubPath := t.File
		if !strings.HasSuffix(strings.ToLower(stubPath), ".md") {
			stubPath += ".md"
		}
		title := strings.TrimSuffix(path.Base(stubPath), ".md")
		changes = append(changes, change{
			category:    CategoryLinks,
			path:        stubPath,
			description: fmt.Sprintf("create stub document for unresolved target %q", raw),
			create:      true,
			content:     fmt.Sprintf("# %s\n\nReferenced elsewhere in the vault but not yet written.\n", title),
		})
	}

	return changes
}

// rewrittenTarget swaps the file part of a raw target for newName while
// preserving any section suffix.
func rewrittenTarget(raw, newName string) string {
	t := links.ParseTarget(raw)
	if t.Section != "" {
		return newName + "#" + t.Section
	}
	return newName
}

// rewriteLink replaces every [[raw]] and [[raw|alias]] span in content
// with the new target, preserving pipe-alias syntax. Everything outside
// the rewritten spans is left byte-identical.
func rewriteLink(content, raw, newTarget string) string {
	content = strings.ReplaceAll(content, "[["+raw+"]]", "[["+newTarget+"]]")
	content = strings.ReplaceAll(content, "[["+raw+"|", "[["+newTarget+"|")
	return content
}
