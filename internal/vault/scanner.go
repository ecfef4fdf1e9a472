package vault

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// skipDirs contains directory names always excluded from scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".obsidian":    true,
	".trash":       true,
	"node_modules": true,
}

// wikilinkRe matches [[Target]], [[Target|Alias]], [[Target#Section]] and
// combinations. The capture holds everything between the brackets.
var wikilinkRe = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// Scan walks the vault rooted at dir and returns one Document per markdown
// file, in walk order. Hidden directories, skipDirs entries, and any
// configured ignore prefixes are excluded. Unreadable files are skipped
// with a warning rather than failing the scan.
func Scan(dir string, ignoreDirs []string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("vault scanner: skipping path %q: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] || (strings.HasPrefix(d.Name(), ".") && path != dir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if underAny(rel, ignoreDirs) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("vault scanner: skipping unreadable file %q: %v", rel, err)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			log.Printf("vault scanner: skipping unstattable file %q: %v", rel, err)
			return nil
		}

		doc := ParseDocument(rel, string(content))
		doc.ModTime = info.ModTime()
		docs = append(docs, doc)
		return nil
	})
	return docs, err
}

// ParseDocument builds a Document from raw file content: frontmatter is
// split off, wikilink targets are extracted in order, and the body word
// count is computed.
func ParseDocument(rel, content string) Document {
	fm, body := splitFrontmatter(content)
	return Document{
		Path:        rel,
		Content:     content,
		Body:        body,
		Frontmatter: fm,
		WordCount:   len(strings.Fields(body)),
		Links:       ExtractLinks(content),
	}
}

// ExtractLinks returns every wikilink target in content, in order, exactly
// as written. An alias part after the first | is dropped; the target text
// itself is preserved verbatim.
func ExtractLinks(content string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		links = append(links, target)
	}
	return links
}

// splitFrontmatter separates a leading YAML frontmatter block from the
// body. Malformed YAML degrades to "no frontmatter" rather than an error;
// the body is still returned without the delimited block.
func splitFrontmatter(content string) (map[string]any, string) {
	const delimiter = "---"
	if !strings.HasPrefix(content, delimiter+"\n") {
		return nil, content
	}

	rest := content[len(delimiter)+1:]
	idx := strings.Index(rest, "\n"+delimiter)
	if idx < 0 {
		return nil, content
	}

	yamlBlock := rest[:idx]
	body := rest[idx+len(delimiter)+1:]
	body = strings.TrimLeft(body, "\n")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, body
	}
	return fm, body
}

// underAny reports whether rel falls under any of the given directory
// prefixes (slash-separated, compared segment-wise).
func underAny(rel string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p == "" {
			continue
		}
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
