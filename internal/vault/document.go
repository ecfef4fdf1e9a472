// Package vault models a scanned markdown vault: the immutable documents
// discovered by the scanner and the per-run lookup index the analysis
// stages resolve link targets against.
package vault

import (
	"path/filepath"
	"strings"
	"time"
)

// Document is the normalized representation of one scanned markdown file.
// Documents are created once per scan and never mutated; the relative path
// is the identity key (case-sensitive).
type Document struct {
	Path        string         // vault-relative, slash-separated
	Content     string         // raw file content, frontmatter included
	Body        string         // content with frontmatter stripped
	Frontmatter map[string]any // parsed YAML frontmatter, nil if absent
	WordCount   int            // words in Body
	Links       []string       // raw outbound targets, in document order
	ModTime     time.Time
}

// Name returns the document's basename with the extension stripped.
func (d Document) Name() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Index is a short-lived lookup value built once per analysis run. It is
// passed explicitly into the resolver and classifier; it is never cached
// across runs since the document set is immutable per invocation.
type Index struct {
	names      map[string]string // lower basename (ext stripped) -> first path
	pathsNoExt map[string]string // lower relpath (ext stripped) -> path
	pathsExact map[string]string // lower relpath (with ext) -> path
	order      []string          // document paths in scan order
}

// NewIndex builds the lookup index for a document set.
func NewIndex(docs []Document) *Index {
	idx := &Index{
		names:      make(map[string]string, len(docs)),
		pathsNoExt: make(map[string]string, len(docs)),
		pathsExact: make(map[string]string, len(docs)),
		order:      make([]string, 0, len(docs)),
	}
	for _, d := range docs {
		lowerName := strings.ToLower(d.Name())
		noExt := strings.TrimSuffix(d.Path, filepath.Ext(d.Path))
		if _, seen := idx.names[lowerName]; !seen {
			idx.names[lowerName] = d.Path
		}
		idx.pathsNoExt[strings.ToLower(noExt)] = d.Path
		idx.pathsExact[strings.ToLower(d.Path)] = d.Path
		idx.order = append(idx.order, d.Path)
	}
	return idx
}

// HasName reports whether a document with the given basename exists.
// The name is matched case-insensitively with any extension stripped.
func (idx *Index) HasName(name string) bool {
	_, ok := idx.names[strings.ToLower(name)]
	return ok
}

// HasPathNoExt reports whether a document exists at the given relative
// path, compared case-insensitively with extensions stripped.
func (idx *Index) HasPathNoExt(rel string) bool {
	_, ok := idx.pathsNoExt[strings.ToLower(rel)]
	return ok
}

// HasExactPath reports whether a document exists at the given relative
// path including extension, compared case-insensitively.
func (idx *Index) HasExactPath(rel string) bool {
	_, ok := idx.pathsExact[strings.ToLower(rel)]
	return ok
}

// PathForName returns the relative path of the first-seen document with
// the given basename, or "" if none exists.
func (idx *Index) PathForName(name string) string {
	return idx.names[strings.ToLower(name)]
}

// Paths returns all document paths in scan order.
func (idx *Index) Paths() []string {
	return idx.order
}
