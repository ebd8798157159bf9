package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdocs/docfinder/internal/links"
)

func newTestFetcher(srv *httptest.Server) *Fetcher {
	return New(5*time.Second, "docfinder-test", []string{srv.URL})
}

func TestFetchAndCleanHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "docfinder-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<title>Runtime Guide</title>
			<style>body { color: red }</style>
			<script>alert("nope")</script>
		</head><body>
			<h1>Runtime</h1>
			<p>Deploy &amp; run agents.</p>
		</body></html>`))
	}))
	defer srv.Close()

	page, err := newTestFetcher(srv).FetchAndClean(context.Background(), srv.URL+"/runtime.html")
	require.NoError(t, err)

	assert.Equal(t, "Runtime Guide", page.Title)
	assert.Contains(t, page.Content, "Deploy & run agents.")
	assert.NotContains(t, page.Content, "alert")
	assert.NotContains(t, page.Content, "color: red")
}

func TestFetchAndCleanTitleFallbacks(t *testing.T) {
	tests := map[string]struct {
		body      string
		wantTitle string
	}{
		"og:title": {
			body:      `<html><head><meta property="og:title" content="From OG"></head><body>x</body></html>`,
			wantTitle: "From OG",
		},
		"first h1": {
			body:      `<html><body><h1>From H1</h1><h1>Second</h1></body></html>`,
			wantTitle: "From H1",
		},
		"path segment": {
			body:      `<html><body>no title anywhere</body></html>`,
			wantTitle: "page.html",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(test.body))
			}))
			defer srv.Close()

			page, err := newTestFetcher(srv).FetchAndClean(context.Background(), srv.URL+"/docs/page.html")
			require.NoError(t, err)
			assert.Equal(t, test.wantTitle, page.Title)
		})
	}
}

func TestFetchAndCleanMarkdownPassthrough(t *testing.T) {
	const body = "# Quickstart\n\nInstall the toolkit."
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	page, err := newTestFetcher(srv).FetchAndClean(context.Background(), srv.URL+"/quickstart.md")
	require.NoError(t, err)
	assert.Equal(t, body, page.Content)
	assert.Equal(t, "quickstart.md", page.Title)
}

func TestFetchAndCleanRejectsDisallowedURL(t *testing.T) {
	f := New(time.Second, "docfinder-test", nil)
	_, err := f.FetchAndClean(context.Background(), "https://example.com/outside")

	var verr *links.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"https://example.com/outside"}, verr.Rejected)
}

func TestFetchAndCleanNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv).FetchAndClean(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestParseLinksFile(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/llms.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# Docs\n\n" +
			"- [Quickstart](" + srv.URL + "/docs/quickstart.md)\n" +
			"- [Outside Link](https://example.com/outside.md)\n" +
			"- [Gateway](" + srv.URL + "/docs/gateway.md)\n"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	got, err := newTestFetcher(srv).ParseLinksFile(context.Background(), srv.URL+"/llms.txt")
	require.NoError(t, err)

	// The disallowed link is dropped, not fatal.
	require.Len(t, got, 2)
	assert.Equal(t, Link{Title: "Quickstart", URL: srv.URL + "/docs/quickstart.md"}, got[0])
	assert.Equal(t, Link{Title: "Gateway", URL: srv.URL + "/docs/gateway.md"}, got[1])
}
