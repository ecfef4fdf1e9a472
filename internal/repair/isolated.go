package repair

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// planIsolated proposes outbound links for documents that link to nothing:
// the body is scanned for mentions of other document names — in lower-case,
// dash-to-space, and camel-case-split forms — and the first mention of
// each distinct name becomes a wikilink. Original casing is preserved via
// an alias when it differs from the canonical name.
func planIsolated(docs []vault.Document, conn *analysis.ConnectivityReport, cfg PlannerConfig) []change {
	var changes []change
	for _, d := range docs {
		if len(d.Links) != 0 || !nonTrivial(d, cfg.MinOrphanWords) {
			continue
		}

		content := d.Content
		var linked []string
		for _, other := range docs {
			if other.Path == d.Path {
				continue
			}
			name := other.Name()
			if strings.EqualFold(name, d.Name()) {
				continue // never link a document to itself
			}
			updated, ok := linkFirstMention(content, name)
			if ok {
				content = updated
				linked = append(linked, name)
			}
		}
		if len(linked) == 0 {
			continue
		}

		names := linked
		changes = append(changes, change{
			category:    CategoryIsolated,
			path:        d.Path,
			description: fmt.Sprintf("link isolated document to [[%s]]", strings.Join(linked, "]], [[")),
			transform: func(content string) string {
				// Re-locate mentions against the incoming content so edits
				// from other strategies chained before this one survive.
				for _, name := range names {
					content, _ = linkFirstMention(content, name)
				}
				return content
			},
		})
	}
	return changes
}

// mentionForms returns the textual forms a document name may appear in:
// the name itself, a dash-to-space variant, and a camel-case-split
// variant. All matching is case-insensitive.
func mentionForms(name string) []string {
	forms := []string{name}
	if dashed := strings.ReplaceAll(name, "-", " "); dashed != name {
		forms = append(forms, dashed)
	}
	if split := splitCamelCase(name); split != name && split != strings.ToLower(name) {
		forms = append(forms, split)
	}
	return forms
}

// splitCamelCase inserts spaces at lower-to-upper transitions:
// "ModelConfig" becomes "Model Config".
func splitCamelCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// linkFirstMention converts the first unmasked mention of name (in any of
// its forms) into a wikilink, preserving the matched casing via an alias
// when it differs from the canonical name. Returns the updated content and
// whether a mention was converted.
func linkFirstMention(content, name string) (string, bool) {
	masked := maskExcludedSpans(content)
	for _, form := range mentionForms(name) {
		pos, end := findWordMention(content, masked, form)
		if pos < 0 {
			continue
		}
		matched := content[pos:end]
		var link string
		if matched == name {
			link = "[[" + name + "]]"
		} else {
			link = "[[" + name + "|" + matched + "]]"
		}
		return content[:pos] + link + content[end:], true
	}
	return content, false
}

// findWordMention returns the byte range of the first case-insensitive,
// word-bounded, unmasked occurrence of form in content, or (-1, -1).
// Matching folds rune by rune against the original bytes; lower-casing the
// whole content first would shift offsets for runes whose lowercase form
// has a different byte length.
func findWordMention(content string, masked []bool, form string) (int, int) {
	if form == "" {
		return -1, -1
	}
	for pos := 0; pos < len(content); pos++ {
		end, ok := foldMatch(content, pos, form)
		if !ok {
			continue
		}
		if isWordBoundary(content, pos-1) && isWordBoundary(content, end) && !spanMasked(masked, pos, end) {
			return pos, end
		}
	}
	return -1, -1
}

// foldMatch reports whether form matches content at byte offset pos under
// per-rune case folding, returning the offset just past the match.
func foldMatch(content string, pos int, form string) (int, bool) {
	i := pos
	for _, fr := range form {
		cr, size := utf8.DecodeRuneInString(content[i:])
		if cr == utf8.RuneError && size <= 1 {
			return 0, false
		}
		if unicode.ToLower(cr) != unicode.ToLower(fr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// isWordBoundary reports whether the byte at i is outside content or not a
// letter/digit.
func isWordBoundary(content string, i int) bool {
	if i < 0 || i >= len(content) {
		return true
	}
	c := rune(content[i])
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

// spanMasked reports whether any byte in [from, to) is masked.
func spanMasked(masked []bool, from, to int) bool {
	for i := from; i < to && i < len(masked); i++ {
		if masked[i] {
			return true
		}
	}
	return false
}

// maskExcludedSpans marks the byte ranges mention scanning must skip:
// frontmatter, fenced and inline code, wikilinks, and markdown link
// syntax.
func maskExcludedSpans(content string) []bool {
	masked := make([]bool, len(content))
	mark := func(from, to int) {
		for i := from; i < to && i < len(masked); i++ {
			masked[i] = true
		}
	}

	// Frontmatter block.
	if strings.HasPrefix(content, "---\n") {
		if end := strings.Index(content[4:], "\n---"); end >= 0 {
			mark(0, 4+end+4)
		}
	}

	// Fenced code blocks.
	from := 0
	for {
		open := strings.Index(content[from:], "```")
		if open < 0 {
			break
		}
		open += from
		closing := strings.Index(content[open+3:], "```")
		if closing < 0 {
			mark(open, len(content))
			break
		}
		mark(open, open+3+closing+3)
		from = open + 3 + closing + 3
	}

	// Inline code, wikilinks, and markdown links.
	markDelimited(content, masked, "`", "`")
	markDelimited(content, masked, "[[", "]]")
	markDelimited(content, masked, "](", ")")

	return masked
}

// markDelimited masks every opener..closer span in content.
func markDelimited(content string, masked []bool, opener, closer string) {
	from := 0
	for {
		start := strings.Index(content[from:], opener)
		if start < 0 {
			return
		}
		start += from
		end := strings.Index(content[start+len(opener):], closer)
		if end < 0 {
			return
		}
		end = start + len(opener) + end + len(closer)
		for i := start; i < end && i < len(masked); i++ {
			masked[i] = true
		}
		from = end
	}
}
