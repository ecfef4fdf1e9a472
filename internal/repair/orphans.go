package repair

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// Score weights for orphan candidate ranking. A direct name hit alone
// clears the acceptance threshold, a normalized hit alone does too, pure
// keyword overlap never does.
const (
	scoreDirectName     = 5.0
	scoreNormalizedName = 3.0
	scoreKeywordWeight  = 2.0
	scoreThreshold      = 2.0
)

// seeAlsoHeadingRe matches a "See also", "Related", or "Notes" heading of
// any level on its own line.
var seeAlsoHeadingRe = regexp.MustCompile(`(?mi)^#{1,6}\s+(see also|related|notes)\s*$`)

// anyHeadingRe matches any markdown heading line.
var anyHeadingRe = regexp.MustCompile(`(?m)^#{1,6}\s`)

// planOrphans proposes inbound links for orphan documents: for each orphan
// with non-trivial content, structural or not, the best-scoring non-orphan
// documents get a reference to the orphan inserted into an existing "See
// also", "Related", or "Notes" section, or a fresh "See also" section.
func planOrphans(docs []vault.Document, conn *analysis.ConnectivityReport, cfg PlannerConfig) []change {
	if conn == nil || len(conn.OrphanFiles) == 0 {
		return nil
	}

	byPath := make(map[string]vault.Document, len(docs))
	for _, d := range docs {
		byPath[d.Path] = d
	}
	orphanSet := make(map[string]bool, len(conn.OrphanFiles))
	for _, p := range conn.OrphanFiles {
		orphanSet[p] = true
	}

	candidateKeywords := make(map[string]map[string]bool)

	var changes []change
	for _, orphanPath := range conn.OrphanFiles {
		orphan, ok := byPath[orphanPath]
		if !ok || !nonTrivial(orphan, cfg.MinOrphanWords) {
			continue
		}

		name := orphan.Name()
		normName := normalizeLoose(strings.ReplaceAll(name, "-", " "))
		orphanKeywords := ExtractKeywords(orphan.Body)

		type scored struct {
			doc   vault.Document
			score float64
		}
		var ranked []scored
		for _, cand := range docs {
			if cand.Path == orphanPath || orphanSet[cand.Path] {
				continue
			}

			score := 0.0
			lowerContent := strings.ToLower(cand.Content)
			if strings.Contains(lowerContent, strings.ToLower(name)) {
				score += scoreDirectName
			} else if normName != "" && strings.Contains(normalizeLoose(strings.ReplaceAll(lowerContent, "-", " ")), normName) {
				score += scoreNormalizedName
			}

			kw, cached := candidateKeywords[cand.Path]
			if !cached {
				kw = ExtractKeywords(cand.Body)
				candidateKeywords[cand.Path] = kw
			}
			score += keywordOverlap(orphanKeywords, kw) * scoreKeywordWeight

			if score > scoreThreshold {
				ranked = append(ranked, scored{doc: cand, score: score})
			}
		}

		// Stable sort by score descending; scan order breaks ties.
		for i := 1; i < len(ranked); i++ {
			for j := i; j > 0 && ranked[j].score > ranked[j-1].score; j-- {
				ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
			}
		}
		if len(ranked) > cfg.MaxOrphanLinks {
			ranked = ranked[:cfg.MaxOrphanLinks]
		}

		for _, r := range ranked {
			linkName := name
			changes = append(changes, change{
				category:    CategoryOrphans,
				path:        r.doc.Path,
				description: fmt.Sprintf("link orphan %q from %q", orphanPath, r.doc.Path),
				transform: func(content string) string {
					return insertReference(content, linkName)
				},
			})
		}
	}
	return changes
}

// insertReference adds "- [[name]]" to content: inside an existing See
// also/Related/Notes section when one exists, otherwise in a new "See
// also" section appended at the end. Content already linking to name is
// returned unchanged.
func insertReference(content, name string) string {
	if strings.Contains(strings.ToLower(content), strings.ToLower("[["+name)) {
		return content
	}
	entry := "- [[" + name + "]]\n"

	loc := seeAlsoHeadingRe.FindStringIndex(content)
	if loc == nil {
		out := content
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		return out + "\n## See also\n\n" + entry
	}

	// Insert at the end of the matched section: just before the next
	// heading, or at end of content.
	sectionStart := loc[1]
	rest := content[sectionStart:]
	insertAt := len(content)
	if next := anyHeadingRe.FindStringIndex(rest); next != nil {
		insertAt = sectionStart + next[0]
	}

	head := content[:insertAt]
	tail := content[insertAt:]
	if head != "" && !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	return head + entry + tail
}
