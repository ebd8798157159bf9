// Package index implements the in-memory inverted index and TF-IDF ranking
// used for documentation search.
//
// The index holds stub documents (title only, empty content) until a page is
// hydrated, and the scoring boosts title matches hardest on exactly those
// stubs so they surface before their content has ever been fetched.
package index

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/agentdocs/docfinder/markdown"
)

// Doc is a single indexed document.
type Doc struct {
	// URI is the document's stable identifier (its source URL).
	URI string

	// DisplayTitle is the title shown to end users.
	DisplayTitle string

	// Content is the full extracted text. Empty until the page is hydrated.
	Content string

	// IndexTitle is search-only text: the display title plus generated
	// variants. Never shown to users.
	IndexTitle string
}

// Hit is a scored search result.
type Hit struct {
	Doc   Doc
	Pos   int // position of the document in insertion order
	Score float64
}

// Index is an inverted index over documents. Positions in the documents slice
// are stable IDs. Adding the same URI twice creates two independent entries;
// both score separately. Not safe for concurrent use; the owner serializes
// access.
type Index struct {
	docs     []Doc
	fields   []markdown.Fields // Markdown structure of docs[i].Content
	df       map[string]int    // token -> number of distinct documents containing it
	postings map[string][]int  // token -> document position per occurrence, duplicates kept
}

// New returns an empty index.
func New() *Index {
	return &Index{
		df:       make(map[string]int),
		postings: make(map[string][]int),
	}
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return len(x.docs) }

// Docs returns the indexed documents in insertion order.
func (x *Index) Docs() []Doc { return x.docs }

// Add indexes a document. Token occurrences across the index title, Markdown
// structure, and raw content each append the document's position to that
// token's postings list, so term frequency is encoded as repetition. Document
// frequency is counted once per distinct token.
func (x *Index) Add(d Doc) {
	pos := len(x.docs)
	x.docs = append(x.docs, d)
	f := markdown.Extract([]byte(d.Content))
	x.fields = append(x.fields, f)

	seen := make(map[string]struct{})
	for _, tok := range indexTokens(d, f) {
		x.postings[tok] = append(x.postings[tok], pos)
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			x.df[tok]++
		}
	}
}

// UpdateContent replaces the stored content of every entry for uri, so that
// later queries score it as a hydrated document. Postings are not rebuilt;
// candidate selection still reflects index-time tokens.
func (x *Index) UpdateContent(uri, content string) {
	for i := range x.docs {
		if x.docs[i].URI == uri {
			x.docs[i].Content = content
			x.fields[i] = markdown.Extract([]byte(content))
		}
	}
}

// Search ranks documents for the query and returns at most k hits, highest
// score first. Equal scores order by document position. Tokens absent from
// the index contribute nothing.
func (x *Index) Search(query string, k int) []Hit {
	scores := make(map[int]float64)
	n := len(x.docs)
	if n == 0 {
		n = 1
	}

	for _, tok := range Tokenize(query) {
		positions := x.postings[tok]
		if len(positions) == 0 {
			continue
		}
		idf := math.Log(float64(n+1)/float64(1+x.df[tok])) + 1.0

		// Postings pick the candidates; the score contribution per
		// (document, token) pair is recomputed from the stored fields.
		counted := make(map[int]struct{}, len(positions))
		for _, pos := range positions {
			if _, ok := counted[pos]; ok {
				continue
			}
			counted[pos] = struct{}{}
			scores[pos] += x.weightedTF(pos, tok) * idf
		}
	}

	hits := make([]Hit, 0, len(scores))
	for pos, score := range scores {
		hits = append(hits, Hit{Doc: x.docs[pos], Pos: pos, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Pos < hits[j].Pos
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Field weights. Title weight adapts to content length: unfetched stubs get
// the largest boost so title-only matches surface before hydration.
const (
	titleBoostUnfetched = 8.0
	titleBoostShort     = 5.0
	titleBoostLong      = 3.0
	shortContentLen     = 800

	headingWeight  = 4.0
	codeWeight     = 2.0
	linkTextWeight = 2.0
)

// weightedTF computes the weighted term frequency of tok in the document at
// pos by re-scanning its stored fields. This is deliberately recomputed per
// query rather than precomputed at Add time; corpora are tens to low hundreds
// of documents.
func (x *Index) weightedTF(pos int, tok string) float64 {
	d := x.docs[pos]
	f := x.fields[pos]

	titleBoost := titleBoostLong
	switch {
	case d.Content == "":
		titleBoost = titleBoostUnfetched
	case len(d.Content) < shortContentLen:
		titleBoost = titleBoostShort
	}

	tf := float64(countToken(d.Content, tok))
	tf += float64(countToken(d.IndexTitle, tok)) * titleBoost
	tf += float64(countTokenAll(f.Headings, tok)) * headingWeight
	tf += float64(countTokenAll(f.CodeBlocks, tok)) * codeWeight
	tf += float64(countTokenAll(f.CodeSpans, tok)) * codeWeight
	tf += float64(countTokenAll(f.LinkTexts, tok)) * linkTextWeight
	return tf
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// Tokenize splits s into lowercased word tokens. Queries and documents
// tokenize identically.
func Tokenize(s string) []string {
	toks := tokenPattern.FindAllString(strings.ToLower(s), -1)
	return toks
}

// indexTokens returns every token occurrence of the weighted concatenation of
// the document's fields, in order.
func indexTokens(d Doc, f markdown.Fields) []string {
	parts := []string{d.IndexTitle}
	parts = append(parts, f.Headings...)
	parts = append(parts, f.LinkTexts...)
	parts = append(parts, f.CodeBlocks...)
	parts = append(parts, f.CodeSpans...)
	parts = append(parts, strings.ToLower(d.Content))
	return Tokenize(strings.Join(parts, " "))
}

func countToken(s, tok string) int {
	count := 0
	for _, t := range Tokenize(s) {
		if t == tok {
			count++
		}
	}
	return count
}

func countTokenAll(fields []string, tok string) int {
	count := 0
	for _, s := range fields {
		count += countToken(s, tok)
	}
	return count
}
