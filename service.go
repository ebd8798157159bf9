package docfinder

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/agentdocs/docfinder/fetch"
	"github.com/agentdocs/docfinder/internal/links"
	"github.com/agentdocs/docfinder/internal/search/index"
)

// DefaultLinkListURL is the curated link list loaded when none is configured.
const DefaultLinkListURL = links.BaseOrigin + "/llms.txt"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "docfinder/1.0 (+https://github.com/agentdocs/docfinder)"
)

// Config configures a Service. The zero value gets sensible defaults.
type Config struct {
	// LinkListURLs are the curated link lists that seed the index. Each must
	// pass the allow-list check. Default: DefaultLinkListURL.
	LinkListURLs []string

	// Timeout is the per-request HTTP timeout. Default 30s.
	Timeout time.Duration

	// UserAgent is sent on every outbound request.
	UserAgent string

	// AllowedPrefixes overrides the URL allow-list. Nil means the default
	// documentation domains.
	AllowedPrefixes []string
}

// Service owns the document index, the page cache, and the curated titles.
// It is safe for concurrent use: the one-shot load and all index access are
// guarded by a mutex, and concurrent hydrations of the same URL share one
// fetch.
type Service struct {
	cfg     Config
	fetcher *fetch.Fetcher

	mu     sync.Mutex
	idx    *index.Index
	titles map[string]string // URL -> curated title, written only during load
	loaded bool

	// pages maps URL -> *Page. A nil *Page marks a URL that is known from a
	// curated list but not yet fetched. Entries never expire or evict.
	pages *gocache.Cache

	inflight singleflight.Group
}

// NewService validates the configuration and returns an unloaded Service.
// The curated lists are not fetched until the first operation needs them.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.LinkListURLs) == 0 {
		cfg.LinkListURLs = []string{DefaultLinkListURL}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	validated, err := links.Validate(cfg.LinkListURLs, cfg.AllowedPrefixes)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid link list URL")
	}
	cfg.LinkListURLs = validated

	return &Service{
		cfg:     cfg,
		fetcher: fetch.New(cfg.Timeout, cfg.UserAgent, cfg.AllowedPrefixes),
		idx:     index.New(),
		titles:  make(map[string]string),
		pages:   gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// EnsureReady loads and indexes the curated link lists, once. Calls after a
// successful load are no-ops; a failed load is retried by the next call.
func (s *Service) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	if err := s.loadLinksLocked(ctx); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

// loadLinksLocked fetches each curated list and indexes a stub document (no
// content) per link. Called with s.mu held. A URL already known from an
// earlier list keeps its cache entry, but is indexed again; entries appearing
// in several lists score from each.
func (s *Service) loadLinksLocked(ctx context.Context) error {
	// Fetch every list before touching the index. A failed list aborts the
	// load with the index unchanged, so the retry indexes each document
	// exactly once instead of re-adding the lists that had succeeded.
	parsed := make([][]fetch.Link, 0, len(s.cfg.LinkListURLs))
	for _, listURL := range s.cfg.LinkListURLs {
		linkEntries, err := s.fetcher.ParseLinksFile(ctx, listURL)
		if err != nil {
			return errors.WithMessage(err, "load curated links")
		}
		log.WithFields(log.Fields{"list": listURL, "links": len(linkEntries)}).Debug("parsed curated links")
		parsed = append(parsed, linkEntries)
	}

	for _, linkEntries := range parsed {
		for _, l := range linkEntries {
			s.titles[l.URL] = normalizeSpace(l.Title)
			if _, known := s.pages.Get(l.URL); !known {
				s.pages.Set(l.URL, (*Page)(nil), gocache.NoExpiration)
			}
			display := displayTitle(l.URL, l.Title, s.titles)
			s.idx.Add(index.Doc{
				URI:          l.URL,
				DisplayTitle: display,
				Content:      "",
				IndexTitle:   indexTitleVariants(display, l.URL),
			})
		}
	}
	log.WithField("docs", s.idx.Len()).Info("documentation index ready")
	return nil
}

// EnsurePage returns the cached page for url, fetching and caching it on
// first use. Concurrent callers for the same URL share a single fetch. A
// fetch failure is returned, not cached; the next call retries.
func (s *Service) EnsurePage(ctx context.Context, rawURL string) (*Page, error) {
	url, err := links.ValidateOne(rawURL, s.cfg.AllowedPrefixes)
	if err != nil {
		return nil, err
	}
	if p, ok := s.cachedPage(url); ok {
		return p, nil
	}

	v, err, _ := s.inflight.Do(url, func() (interface{}, error) {
		if p, ok := s.cachedPage(url); ok {
			return p, nil
		}
		page, err := s.fetcher.FetchAndClean(ctx, url)
		if err != nil {
			return nil, err
		}

		// The store happens under s.mu so it cannot interleave with the
		// loader's check-then-set on pages, which would overwrite a
		// fetched page with the unfetched marker.
		s.mu.Lock()
		page.Title = displayTitle(page.URL, page.Title, s.titles)
		s.idx.UpdateContent(page.URL, page.Content)
		s.pages.Set(page.URL, page, gocache.NoExpiration)
		s.mu.Unlock()

		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

func (s *Service) cachedPage(url string) (*Page, bool) {
	v, ok := s.pages.Get(url)
	if !ok {
		return nil, false
	}
	p, _ := v.(*Page)
	if p == nil {
		// Known from a curated list, not yet fetched.
		return nil, false
	}
	return p, true
}

// Stats describes the service's current state.
type Stats struct {
	Loaded       bool `json:"loaded"`
	IndexedDocs  int  `json:"indexed_docs"`
	FetchedPages int  `json:"fetched_pages"`
}

// Stats returns a snapshot of the index and cache sizes.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	st := Stats{Loaded: s.loaded, IndexedDocs: s.idx.Len()}
	s.mu.Unlock()

	for _, item := range s.pages.Items() {
		if p, _ := item.Object.(*Page); p != nil {
			st.FetchedPages++
		}
	}
	return st
}
