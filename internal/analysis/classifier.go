// Package analysis aggregates per-link resolution results into vault-wide
// connectivity and quality findings. Every function is total over its
// input: malformed links degrade to findings, never errors.
package analysis

import (
	"path"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/links"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// BrokenLink records one unresolved outbound reference.
type BrokenLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// PathStyleLink records a directory-qualified reference and the plain name
// that could replace it. Reported even when resolution succeeds; it is a
// style finding, not an error.
type PathStyleLink struct {
	Source        string `json:"source"`
	Target        string `json:"target"`
	SuggestedName string `json:"suggested_name"`
}

// ConnectivityReport is the aggregate link-health view of one vault scan.
type ConnectivityReport struct {
	TotalLinks            int             `json:"total_links"`
	UniqueLinks           int             `json:"unique_links"`
	BrokenLinks           []BrokenLink    `json:"broken_links"`
	OrphanFiles           []string        `json:"orphan_files"`
	StructuralOrphans     []string        `json:"structural_orphans"`
	KnowledgeOrphans      []string        `json:"knowledge_orphans"`
	PathStyleLinks        []PathStyleLink `json:"path_style_links"`
	ConnectivityScore     float64         `json:"connectivity_score"`
	KnowledgeConnectivity float64         `json:"knowledge_connectivity"`
}

// Classify resolves every outbound link of every document and aggregates
// the results: broken links in document-then-link order, orphan files with
// structural/knowledge sub-classification, path-style findings, and the
// two connectivity ratios. structuralDirs lists directory prefixes whose
// documents are expected to be sparse and self-contained.
func Classify(docs []vault.Document, idx *vault.Index, structuralDirs []string, probe links.Prober) *ConnectivityReport {
	report := &ConnectivityReport{}

	seenTargets := make(map[string]bool)
	seenPathStyle := make(map[string]bool)

	for _, doc := range docs {
		for _, raw := range doc.Links {
			report.TotalLinks++
			if key := strings.ToLower(raw); !seenTargets[key] {
				seenTargets[key] = true
				report.UniqueLinks++
			}

			res := links.Resolve(raw, idx, probe)
			if !res.Resolved {
				report.BrokenLinks = append(report.BrokenLinks, BrokenLink{
					Source: doc.Path,
					Target: raw,
				})
			}
			if res.PathStyle {
				key := doc.Path + "\x00" + raw
				if !seenPathStyle[key] {
					seenPathStyle[key] = true
					report.PathStyleLinks = append(report.PathStyleLinks, PathStyleLink{
						Source:        doc.Path,
						Target:        raw,
						SuggestedName: res.SuggestedName,
					})
				}
			}
		}
	}

	// Orphan detection works on raw targets: a link still "counts" as a
	// reference if its normalized text matches a real file's name, even
	// when the same link independently reports as broken. Intentional
	// dual bookkeeping; see DESIGN.md.
	linkedBy := linkedTargetSources(docs)

	for _, doc := range docs {
		if hasInbound(doc, linkedBy) {
			continue
		}
		report.OrphanFiles = append(report.OrphanFiles, doc.Path)
		if underAnyDir(doc.Path, structuralDirs) {
			report.StructuralOrphans = append(report.StructuralOrphans, doc.Path)
		} else {
			report.KnowledgeOrphans = append(report.KnowledgeOrphans, doc.Path)
		}
	}

	report.ConnectivityScore = ratio(len(docs)-len(report.OrphanFiles), len(docs))

	knowledgeTotal := 0
	for _, doc := range docs {
		if !underAnyDir(doc.Path, structuralDirs) {
			knowledgeTotal++
		}
	}
	report.KnowledgeConnectivity = ratio(knowledgeTotal-len(report.KnowledgeOrphans), knowledgeTotal)

	return report
}

// linkedTargetSources maps each normalized raw target to the set of source
// documents referencing it. Section suffixes are stripped; path-style
// targets additionally contribute their basename so a path reference still
// counts toward the named document.
func linkedTargetSources(docs []vault.Document) map[string]map[string]bool {
	linked := make(map[string]map[string]bool)
	add := func(target, source string) {
		if target == "" {
			return
		}
		if linked[target] == nil {
			linked[target] = make(map[string]bool)
		}
		linked[target][source] = true
	}

	for _, doc := range docs {
		for _, raw := range doc.Links {
			t := links.ParseTarget(raw)
			if t.File == "" {
				continue // self-reference, no external target
			}
			norm := links.NormalizeName(t.File)
			add(norm, doc.Path)
			if strings.Contains(norm, "/") {
				add(path.Base(norm), doc.Path)
			}
		}
	}
	return linked
}

// hasInbound reports whether any document other than doc itself links to
// doc's basename or extension-less relative path.
func hasInbound(doc vault.Document, linkedBy map[string]map[string]bool) bool {
	name := strings.ToLower(doc.Name())
	relNoExt := links.NormalizeName(doc.Path)

	for _, key := range []string{name, relNoExt} {
		for source := range linkedBy[key] {
			if source != doc.Path {
				return true
			}
		}
	}
	return false
}

// underAnyDir reports whether rel falls under any of the given directory
// prefixes.
func underAnyDir(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}

// ratio divides num by den as a float in [0,1]; a zero denominator yields
// 0, never NaN.
func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	if num < 0 {
		num = 0
	}
	return float64(num) / float64(den)
}
