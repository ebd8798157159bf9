package docfinder

import (
	"regexp"
	"strings"

	"github.com/agentdocs/docfinder/markdown"
)

const snippetMaxChars = 300

// A buffered paragraph is "complete" once it reaches this many characters.
const snippetTargetLen = 120

var (
	headingLinePattern = regexp.MustCompile(`^#{1,6}\s`)
	listLinePattern    = regexp.MustCompile(`^([-*+]\s|\d+[.)]\s)`)
	nonAlnumPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// makeSnippet extracts the first real paragraph of a page's content for
// display under a search result. If the page is missing or has no content
// yet, the fallback title is returned verbatim.
func makeSnippet(page *Page, fallback string, maxChars int) string {
	if page == nil || strings.TrimSpace(page.Content) == "" {
		return fallback
	}

	var lines []string
	for _, line := range strings.Split(markdown.StripCodeBlocks(page.Content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	// Drop leading headings and lines that just echo the title, so the
	// snippet is not the title twice.
	for len(lines) > 0 && (headingLinePattern.MatchString(lines[0]) || echoesTitle(lines[0], fallback)) {
		lines = lines[1:]
	}

	var buf []string
	var paragraph string
	for _, line := range lines {
		if headingLinePattern.MatchString(line) || listLinePattern.MatchString(line) {
			if len(buf) > 0 {
				break
			}
			continue
		}
		buf = append(buf, line)
		joined := strings.Join(buf, " ")
		if len(joined) >= snippetTargetLen || strings.HasSuffix(line, ".") {
			paragraph = joined
			break
		}
	}
	if paragraph == "" {
		if len(buf) == 0 {
			return fallback
		}
		paragraph = strings.Join(buf, " ")
	}

	paragraph = normalizeSpace(paragraph)
	if runes := []rune(paragraph); len(runes) > maxChars {
		paragraph = strings.TrimSpace(string(runes[:maxChars-3])) + "..."
	}
	return paragraph
}

// echoesTitle reports whether a content line is just the title again,
// ignoring case, punctuation, and Markdown heading markers.
func echoesTitle(line, title string) bool {
	l := foldForCompare(strings.TrimLeft(line, "# "))
	t := foldForCompare(title)
	if l == "" || t == "" {
		return false
	}
	return l == t || strings.HasPrefix(l, t)
}

func foldForCompare(s string) string {
	s = nonAlnumPattern.ReplaceAllString(strings.ToLower(s), " ")
	return normalizeSpace(s)
}
