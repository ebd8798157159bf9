package fetch

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankLinesPattern = regexp.MustCompile(`\n{3,}`)

// htmlToText converts an HTML document to plain text and extracts a
// best-effort title. Script and style subtrees are dropped entirely.
func htmlToText(body string) (title, content string) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// Tag-soup fallback: html.Parse almost never fails, but if it
		// does the raw body is better than nothing.
		return "", body
	}

	title = extractTitle(root)

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.P, atom.Div, atom.Br, atom.Li, atom.Tr,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				sb.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	content = sb.String()
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = blankLinesPattern.ReplaceAllString(content, "\n\n")
	return title, strings.TrimSpace(content)
}

// extractTitle tries, in order: <title>, the og:title meta tag, the first
// <h1>. Returns "" if none are present.
func extractTitle(root *html.Node) string {
	var titleTag, ogTitle, firstH1 string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if titleTag == "" {
					titleTag = strings.TrimSpace(textContent(n))
				}
			case atom.Meta:
				if ogTitle == "" && attrVal(n, "property") == "og:title" {
					ogTitle = strings.TrimSpace(attrVal(n, "content"))
				}
			case atom.H1:
				if firstH1 == "" {
					firstH1 = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	switch {
	case titleTag != "":
		return titleTag
	case ogTitle != "":
		return ogTitle
	default:
		return firstH1
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
