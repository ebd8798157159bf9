// Package docfinder is a lazily hydrated documentation search service.
//
// At startup it loads curated link lists (Markdown files of [Title](url)
// lines) and indexes every linked document by title only. Full page content
// is fetched and cached the first time a document is needed, either because
// it ranked in a search or because it was fetched directly. The index, page
// cache, and curated titles live in memory for the process lifetime; nothing
// is persisted.
package docfinder

import "github.com/agentdocs/docfinder/fetch"

// Page is the cleaned content of a fetched documentation page.
type Page = fetch.Page
