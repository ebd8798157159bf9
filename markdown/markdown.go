// Package markdown extracts the structural fields of a Markdown document
// (headings, link texts, code) that search scoring weights differently from
// body text.
package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fields holds the text of a document's Markdown structure, grouped by the
// kind of node it came from.
type Fields struct {
	Headings   []string // ATX/setext heading text, all levels
	LinkTexts  []string // the text part of [text](url) links
	CodeBlocks []string // fenced code block bodies
	CodeSpans  []string // inline code span text
}

var md = goldmark.New()

// Extract parses source as Markdown and collects heading, link, and code text.
func Extract(source []byte) Fields {
	root := md.Parser().Parse(text.NewReader(source))

	var f Fields
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			f.Headings = append(f.Headings, nodeText(n, source))
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			f.LinkTexts = append(f.LinkTexts, nodeText(n, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			f.CodeBlocks = append(f.CodeBlocks, linesText(n, source))
		case *ast.CodeSpan:
			f.CodeSpans = append(f.CodeSpans, nodeText(n, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return f
}

// nodeText returns the concatenated text content of node and its children.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// linesText returns the raw source lines of a block node (used for code
// blocks, whose content is not child text nodes).
func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

var fencedBlockPattern = regexp.MustCompile("(?s)```.*?```")

// StripCodeBlocks removes fenced code blocks from s. Used when building
// human-readable snippets, where code is noise.
func StripCodeBlocks(s string) string {
	return fencedBlockPattern.ReplaceAllString(s, "")
}
