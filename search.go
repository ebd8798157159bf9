package docfinder

import (
	"context"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/agentdocs/docfinder/internal/links"
)

// DefaultSearchLimit is the number of results returned when the caller does
// not ask for a specific k.
const DefaultSearchLimit = 5

// maxHydrate caps how many results get their content fetched per search.
// Results past the cap fall back to title-only snippets.
const maxHydrate = 5

// SearchResult is one ranked search hit.
type SearchResult struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Search ranks indexed documents for the query, hydrates the top results, and
// returns them with snippets. Hydration failures are tolerated: the result
// keeps its title as the snippet.
func (s *Service) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = DefaultSearchLimit
	}
	if err := s.EnsureReady(ctx); err != nil {
		return nil, errors.WithMessage(err, "search")
	}

	s.mu.Lock()
	hits := s.idx.Search(query, k)
	s.mu.Unlock()

	results := make([]SearchResult, 0, len(hits))
	for i, h := range hits {
		title := h.Doc.DisplayTitle
		var page *Page
		if i < maxHydrate {
			p, err := s.EnsurePage(ctx, h.Doc.URI)
			if err != nil {
				log.WithField("url", h.Doc.URI).WithError(err).Warn("could not hydrate search result")
			} else {
				page = p
				title = p.Title
			}
		}
		results = append(results, SearchResult{
			URL:     h.Doc.URI,
			Title:   title,
			Score:   math.Round(h.Score*1000) / 1000,
			Snippet: makeSnippet(page, title, snippetMaxChars),
		})
	}
	return results, nil
}

// FetchResult is the outcome of a direct fetch. Either Content or Err is set.
type FetchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Fetch returns the full content of one document, fetching it if needed.
// Transport failures become a generic "fetch failed" so transport detail does
// not leak to the caller; URL validation failures keep their detail, which
// tells the caller what is allowed.
func (s *Service) Fetch(ctx context.Context, uri string) FetchResult {
	if err := s.EnsureReady(ctx); err != nil {
		log.WithError(err).Warn("could not load curated links")
		return FetchResult{URL: uri, Err: "fetch failed"}
	}

	page, err := s.EnsurePage(ctx, uri)
	if err != nil {
		var verr *links.ValidationError
		if errors.As(err, &verr) {
			return FetchResult{URL: uri, Err: verr.Error()}
		}
		log.WithField("url", uri).WithError(err).Warn("fetch failed")
		return FetchResult{URL: uri, Err: "fetch failed"}
	}
	return FetchResult{URL: page.URL, Title: page.Title, Content: page.Content}
}
