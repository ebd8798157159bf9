// Package fetch retrieves documentation pages over HTTP and cleans them into
// plain text. It performs no caching; callers own that.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/agentdocs/docfinder/internal/links"
)

// Page is the cleaned result of fetching a single URL.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Link is one entry of a curated link list.
type Link struct {
	Title string
	URL   string
}

// Fetcher performs validated HTTP GETs for documentation content.
type Fetcher struct {
	// Allowed is the URL prefix allow-list. Nil means links.DefaultAllowed.
	Allowed []string

	userAgent string
	client    *http.Client
}

// New returns a Fetcher with the given per-request timeout and User-Agent.
func New(timeout time.Duration, userAgent string, allowed []string) *Fetcher {
	return &Fetcher{
		Allowed:   allowed,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// FetchAndClean validates rawURL, fetches it, and converts the body to plain
// text. HTML bodies are stripped to text and a title is extracted; anything
// else is treated as already-plain Markdown. Errors propagate; there is no
// retry.
func (f *Fetcher) FetchAndClean(ctx context.Context, rawURL string) (*Page, error) {
	u, err := links.ValidateOne(rawURL, f.Allowed)
	if err != nil {
		return nil, err
	}

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var title, content string
	if looksLikeHTML(body) {
		title, content = htmlToText(body)
	} else {
		content = body
	}
	if title == "" {
		title = lastPathSegment(u)
	}
	return &Page{URL: u, Title: title, Content: content}, nil
}

// markdownLinkPattern matches [text](url) links. URL stops at whitespace or
// the closing paren.
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

// ParseLinksFile fetches a Markdown link-list file and returns its links in
// order. Links that fail URL validation are dropped, not fatal: a curated
// list with one bad entry still yields the rest.
func (f *Fetcher) ParseLinksFile(ctx context.Context, rawURL string) ([]Link, error) {
	u, err := links.ValidateOne(rawURL, f.Allowed)
	if err != nil {
		return nil, err
	}
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, errors.WithMessage(err, "fetch link list")
	}

	var results []Link
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(body, -1) {
		title, target := strings.TrimSpace(m[1]), m[2]
		validated, err := links.ValidateOne(target, f.Allowed)
		if err != nil {
			log.WithField("url", target).Debug("dropping disallowed link")
			continue
		}
		results = append(results, Link{Title: title, URL: validated})
	}
	return results, nil
}

// get performs the GET and decodes the body as UTF-8, replacing invalid
// bytes. Non-2xx statuses are errors.
func (f *Fetcher) get(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", errors.WithMessage(err, "build request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.WithMessage(err, "get "+u)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("get %s: %s", u, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WithMessage(err, "read "+u)
	}
	return strings.ToValidUTF8(string(body), "�"), nil
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<head>") ||
		strings.Contains(lower, "<body>")
}

func lastPathSegment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	segs := strings.Split(u.Path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return rawURL
}
