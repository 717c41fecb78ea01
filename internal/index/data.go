package index

import "time"

// Document is the indexer's per-URL record (spec Document entity):
// created on first ingest, overwritten on re-ingest of the same URL.
type Document struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Keywords    []string  `json:"keywords"`
	Summary     string    `json:"summary"`
	LastUpdated time.Time `json:"last_updated"`
}

// Hit is one ranked query result.
type Hit struct {
	URL         string
	Title       string
	Summary     string
	Keywords    []string
	Score       float64
	LastUpdated time.Time
}

// DefaultFields is the read side's default search-field set.
var DefaultFields = []string{"title", "content", "keywords"}

// allowedFields is the closed set of columns a field:term query clause may
// address; anything else degrades to a plain (unqualified) term.
var allowedFields = map[string]bool{
	"title":    true,
	"content":  true,
	"keywords": true,
}

// bm25Weights assigns per-column BM25F weights in docs_fts column order
// (url, title, content, keywords). url is UNINDEXED so its weight is inert.
var bm25Weights = [4]float64{0.0, 3.0, 1.0, 2.0}
