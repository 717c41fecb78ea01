// Package linkextract parses a fetched HTML body, collects every href,
// normalizes/resolves each against the page URL, rejects non-http(s)
// schemes and fragments, dedupes, and caps the result.
package linkextract

import (
	"bytes"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/distcrawl/distcrawl/pkg/urlutil"
)

// MaxLinksPerPage bounds the worker's per-page LINKS emission.
const MaxLinksPerPage = 100

// Extract parses body as HTML relative to pageURL and returns up to
// MaxLinksPerPage normalized, deduplicated, absolute http(s) URLs, in
// document order.
func Extract(body []byte, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		normalized, ok := Normalize(href, base)
		if !ok {
			return true
		}
		if _, dup := seen[normalized]; dup {
			return true
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
		return len(out) < MaxLinksPerPage
	})
	return out, nil
}

// Normalize resolves href against base, drops the fragment, rejects
// non-http(s) schemes, and canonicalizes the result. Idempotent:
// normalizing an already-normalized URL returns it unchanged.
func Normalize(href string, base *url.URL) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	canon := urlutil.Canonicalize(*resolved)
	return canon.String(), true
}
