// Package textextract implements the indexer's text-extraction step: parse
// the fetched HTML, strip chrome elements, select a root node, collapse
// whitespace, and strip URL-like tokens, leaving plain searchable text.
package textextract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// urlTokenPattern matches bare http(s) URLs embedded in running text, which
// the ingestion pipeline strips so they don't pollute the token stream.
var urlTokenPattern = regexp.MustCompile(`https?://\S+`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Extract parses body as HTML, strips script/style/nav/header/footer/meta/
// link elements, prefers the first of {main, article, body} as the text
// root, collapses whitespace, and strips URL-like tokens from the result.
func Extract(body []byte) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Extraction{}, &TextExtractError{Message: err.Error(), Cause: ErrCauseUnparseableHTML}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	for tag := range stripTags {
		doc.Find(tag).Remove()
	}

	root := selectRoot(doc)
	if root == nil {
		root = doc.Selection
	}

	return Extraction{Title: title, Text: cleanText(root.Text())}, nil
}

// selectRoot returns the first node matching rootSelectors, in priority
// order, or nil if none is present.
func selectRoot(doc *goquery.Document) *goquery.Selection {
	for _, sel := range rootSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			return node
		}
	}
	return nil
}

// cleanText collapses runs of whitespace into single spaces and strips
// bare URL tokens from the extracted text.
func cleanText(raw string) string {
	stripped := urlTokenPattern.ReplaceAllString(raw, " ")
	collapsed := whitespacePattern.ReplaceAllString(stripped, " ")
	return strings.TrimSpace(collapsed)
}
