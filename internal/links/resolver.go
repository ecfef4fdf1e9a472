// Package links parses and resolves wikilink targets against a scanned
// vault. Resolution is a pure function of the raw target text, the per-run
// document index, and an optional filesystem probe used only as a
// last-resort existence check.
package links

import (
	"path"
	"strings"

	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// Kind classifies how a target addresses its file part.
type Kind int

const (
	// KindPlain is a bare document name: [[Bob]].
	KindPlain Kind = iota
	// KindPath is a directory-qualified target: [[bank/opinions.md]].
	KindPath
	// KindSelf is a section reference into the current document: [[#Heading]].
	KindSelf
)

// Target is the decomposed form of a raw link target. One normalization
// function produces it so resolution order is a single dispatch over the
// variant instead of scattered string checks.
type Target struct {
	Raw     string
	File    string // file part, empty for self-references
	Section string // section part after the first #, verbatim
	Kind    Kind
}

// ParseTarget decomposes a raw link target. The split happens on the first
// # only; nested # characters in the section are preserved verbatim.
func ParseTarget(raw string) Target {
	t := Target{Raw: raw, File: raw}
	if i := strings.Index(raw, "#"); i >= 0 {
		t.File = raw[:i]
		t.Section = raw[i+1:]
	}
	switch {
	case t.File == "" && t.Section != "":
		t.Kind = KindSelf
	case strings.Contains(t.File, "/"):
		t.Kind = KindPath
	default:
		t.Kind = KindPlain
	}
	return t
}

// Prober checks whether a vault-relative path exists on disk. It is an
// optional collaborator: a nil Prober is treated as "not found", never as
// an error.
type Prober interface {
	Exists(rel string) bool
}

// Resolution is the outcome of resolving one link target.
type Resolution struct {
	Resolved      bool
	PathStyle     bool   // target was directory-qualified
	SuggestedName string // short name to suggest for path-style targets
}

// Resolve determines whether a raw link target refers to a known document.
// Matching is case-insensitive on the file part and proceeds in order:
// exact name match against known basenames and extension-less relative
// paths, then path-style fallback against full relative paths with and
// without a trailing extension, then the optional filesystem probe.
// Plain-name matching runs first so a short name never reports as
// path-style. The function is total: no match means Resolved is false.
func Resolve(raw string, idx *vault.Index, probe Prober) Resolution {
	t := ParseTarget(raw)

	if t.Kind == KindSelf {
		return Resolution{Resolved: true}
	}

	res := Resolution{}
	if t.Kind == KindPath {
		res.PathStyle = true
		res.SuggestedName = shortName(t.File)
	}

	name := strings.TrimSuffix(t.File, ".md")
	if idx.HasName(name) || idx.HasPathNoExt(name) {
		res.Resolved = true
		return res
	}

	if t.Kind == KindPath {
		if idx.HasExactPath(t.File) || idx.HasExactPath(t.File+".md") {
			res.Resolved = true
			return res
		}
	}

	if probe != nil {
		if probe.Exists(t.File) || probe.Exists(t.File+".md") {
			res.Resolved = true
			return res
		}
	}

	return res
}

// shortName returns the basename of a path-style target with the
// extension stripped, used as the suggested plain-name replacement.
func shortName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}

// NormalizeName lower-cases a target's file part and strips a trailing .md
// extension. It is the normalization shared by orphan detection and the
// repair planner's lookup tables.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSuffix(s, ".md"))
}
