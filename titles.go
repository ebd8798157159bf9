package docfinder

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	spacePattern = regexp.MustCompile(`\s+`)

	// digitSynonymPattern matches a lone "2" between word characters, as in
	// "Agent2Agent". Rewriting it to " to " lets informal product names match
	// their spelled-out forms.
	digitSynonymPattern = regexp.MustCompile(`(\w)2(\w)`)

	titleCaser = cases.Title(language.English)
)

// normalizeSpace collapses whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// titleFromURL derives a human-readable title from the last meaningful path
// segment of a URL: "getting-started.md" becomes "Getting Started".
func titleFromURL(rawURL string) string {
	const placeholder = "Documentation"

	u, err := url.Parse(rawURL)
	if err != nil {
		return placeholder
	}
	var seg string
	for _, s := range strings.Split(u.Path, "/") {
		if s == "" || strings.HasPrefix(strings.ToLower(s), "index.") || strings.EqualFold(s, "index") {
			continue
		}
		seg = s
	}
	if seg == "" {
		return placeholder
	}
	if ext := path.Ext(seg); ext != "" && ext != seg {
		seg = strings.TrimSuffix(seg, ext)
	}
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	seg = normalizeSpace(seg)
	if seg == "" {
		return placeholder
	}
	return titleCaser.String(seg)
}

// displayTitle resolves the title shown for a URL. Curated titles win; an
// extracted title is used unless it is missing or is a filename-ish artifact
// ("index", "index.md", anything ending in ".md"), in which case the title is
// derived from the URL.
func displayTitle(rawURL, extracted string, curated map[string]string) string {
	if t, ok := curated[rawURL]; ok && strings.TrimSpace(t) != "" {
		return normalizeSpace(t)
	}
	t := normalizeSpace(extracted)
	lower := strings.ToLower(t)
	if t == "" || lower == "index" || lower == "index.md" || strings.HasSuffix(lower, ".md") {
		return titleFromURL(rawURL)
	}
	return t
}

// indexTitleVariants builds the search-only title text for a document: the
// display title, its digit-as-word synonym variant, and the URL-derived
// title, deduplicated case-insensitively and joined with spaces.
func indexTitleVariants(display, rawURL string) string {
	seen := make(map[string]struct{})
	var out []string
	add := func(v string) {
		v = normalizeSpace(v)
		if v == "" {
			return
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	add(display)
	add(digitSynonymPattern.ReplaceAllString(display, "$1 to $2"))
	add(titleFromURL(rawURL))
	return strings.Join(out, " ")
}
