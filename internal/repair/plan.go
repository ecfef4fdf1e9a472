// Package repair proposes remediation actions for a vault's structural
// findings: fuzzy-matched link rewrites, stub documents for unmatchable
// targets, inbound links for orphans, and outbound links for isolated
// documents. The planner only describes intended changes; applying them
// is a separate step.
package repair

import (
	"fmt"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// Category groups fix actions by the sub-strategy that produced them.
type Category string

const (
	CategoryLinks    Category = "links"
	CategoryOrphans  Category = "orphans"
	CategoryIsolated Category = "isolated"
)

// FixAction is one concrete proposed change: either rewriting an existing
// document (Original -> Proposed) or creating a new one (Create with
// Proposed content).
type FixAction struct {
	Category    Category `json:"category"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Original    string   `json:"-"`
	Proposed    string   `json:"-"`
	Create      bool     `json:"create,omitempty"`
}

// Summary counts the actions in a plan, derived strictly from the final
// merged action list.
type Summary struct {
	Total     int `json:"total"`
	Links     int `json:"links"`
	Orphans   int `json:"orphans"`
	Isolated  int `json:"isolated"`
	Creations int `json:"creations"`
}

// FixPlan is a deduplicated, merged set of proposed actions.
type FixPlan struct {
	Actions []FixAction `json:"actions"`
	Summary Summary     `json:"summary"`
}

// PlannerConfig tunes the repair heuristics.
type PlannerConfig struct {
	FuzzyThreshold float64 // max normalized edit distance for link rewrites
	MinOrphanWords int     // content gate for orphan and isolated repair
	MaxOrphanLinks int     // inbound links proposed per orphan
}

// DefaultPlannerConfig returns the standard thresholds.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		FuzzyThreshold: 0.4,
		MinOrphanWords: 10,
		MaxOrphanLinks: 2,
	}
}

// change is a strategy's intermediate output. Edits carry a content
// transformation instead of a final string so overlapping changes to the
// same file can be chained during the merge.
type change struct {
	category    Category
	path        string
	description string
	create      bool
	content     string                    // creations only
	transform   func(content string) string // edits only
}

// Plan runs the three repair sub-strategies over the findings and merges
// their proposals into one coherent plan. An empty category runs all
// strategies; otherwise only the named one. Content gating does not
// consume an analysis.QualityReport: cfg.MinOrphanWords carries the same
// word-count threshold, so a document a quality pass would flag as a stub
// is never proposed as a link target. No-op proposals are dropped, and
// multiple edits to the same document collapse into a single action.
func Plan(docs []vault.Document, conn *analysis.ConnectivityReport, category Category, cfg PlannerConfig) *FixPlan {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 0.4
	}
	if cfg.MaxOrphanLinks <= 0 {
		cfg.MaxOrphanLinks = 2
	}

	var changes []change
	if category == "" || category == CategoryLinks {
		changes = append(changes, planBrokenLinks(docs, conn, cfg)...)
	}
	if category == "" || category == CategoryOrphans {
		changes = append(changes, planOrphans(docs, conn, cfg)...)
	}
	if category == "" || category == CategoryIsolated {
		changes = append(changes, planIsolated(docs, conn, cfg)...)
	}

	return merge(docs, changes)
}

// merge deduplicates changes into the final plan: creations stay separate
// (first one per path wins), while edits to the same document fold into
// one action, threading the evolving content through each transformation
// in generation order. Actions whose proposal equals the original content
// are dropped.
func merge(docs []vault.Document, changes []change) *FixPlan {
	contentByPath := make(map[string]string, len(docs))
	for _, d := range docs {
		contentByPath[d.Path] = d.Content
	}

	plan := &FixPlan{}
	seenCreation := make(map[string]bool)
	editIndex := make(map[string]int) // path -> index into plan.Actions

	for _, ch := range changes {
		if ch.create {
			if seenCreation[ch.path] {
				continue
			}
			seenCreation[ch.path] = true
			plan.Actions = append(plan.Actions, FixAction{
				Category:    ch.category,
				Path:        ch.path,
				Description: ch.description,
				Proposed:    ch.content,
				Create:      true,
			})
			continue
		}

		if i, ok := editIndex[ch.path]; ok {
			a := &plan.Actions[i]
			a.Proposed = ch.transform(a.Proposed)
			a.Description += "; " + ch.description
			continue
		}

		original := contentByPath[ch.path]
		plan.Actions = append(plan.Actions, FixAction{
			Category:    ch.category,
			Path:        ch.path,
			Description: ch.description,
			Original:    original,
			Proposed:    ch.transform(original),
		})
		editIndex[ch.path] = len(plan.Actions) - 1
	}

	// Drop no-ops after all chaining is done.
	kept := plan.Actions[:0]
	for _, a := range plan.Actions {
		if !a.Create && a.Proposed == a.Original {
			continue
		}
		kept = append(kept, a)
	}
	plan.Actions = kept

	for _, a := range plan.Actions {
		plan.Summary.Total++
		if a.Create {
			plan.Summary.Creations++
		}
		switch a.Category {
		case CategoryLinks:
			plan.Summary.Links++
		case CategoryOrphans:
			plan.Summary.Orphans++
		case CategoryIsolated:
			plan.Summary.Isolated++
		}
	}
	return plan
}

// describeRewrite renders a human-readable rewrite description.
func describeRewrite(from, to string) string {
	return fmt.Sprintf("rewrite [[%s]] to [[%s]]", from, to)
}

// nonTrivial reports whether a document has enough content to be worth
// linking.
func nonTrivial(d vault.Document, minWords int) bool {
	if minWords <= 0 {
		minWords = 10
	}
	return d.WordCount >= minWords && strings.TrimSpace(d.Body) != ""
}
