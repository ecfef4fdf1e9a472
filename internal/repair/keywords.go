package repair

import (
	"regexp"
	"strings"
)

// stopWords are common tokens that carry no linking signal.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"being": true, "between": true, "both": true, "could": true, "does": true,
	"each": true, "from": true, "have": true, "here": true, "into": true,
	"just": true, "like": true, "more": true, "most": true, "much": true,
	"only": true, "other": true, "over": true, "same": true, "should": true,
	"some": true, "such": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"this": true, "those": true, "through": true, "under": true, "very": true,
	"want": true, "well": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"would": true, "your": true,
}

var (
	headingMarkRe = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	linkSyntaxRe  = regexp.MustCompile(`\[\[[^\]]*\]\]|\[([^\]]*)\]\([^)]*\)`)
	nonWordRe     = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// ExtractKeywords pulls salient lower-cased tokens from a document body:
// heading markers, link syntax, and punctuation are stripped, then stop
// words and short tokens are dropped. The result is a set.
func ExtractKeywords(body string) map[string]bool {
	text := headingMarkRe.ReplaceAllString(body, "")
	text = linkSyntaxRe.ReplaceAllString(text, " $1 ")
	text = nonWordRe.ReplaceAllString(text, " ")

	keywords := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if len(tok) <= 3 || stopWords[tok] {
			continue
		}
		keywords[tok] = true
	}
	return keywords
}

// keywordOverlap returns the share of a's keywords also present in b,
// in [0,1].
func keywordOverlap(a, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	common := 0
	for k := range a {
		if b[k] {
			common++
		}
	}
	return float64(common) / float64(len(a))
}
