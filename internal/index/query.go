package index

import (
	"context"
	"regexp"
	"strings"
)

// queryTokenPattern splits a query string into quoted phrases or bare
// words, preserving `field:term` groupings as a single token.
var queryTokenPattern = regexp.MustCompile(`"[^"]*"|\S+`)

// ParseQuery translates the read-side query grammar (boolean AND/OR/NOT,
// quoted phrases, field:term) into a SQLite FTS5 MATCH expression. FTS5's
// own query syntax already covers this grammar almost verbatim, so this
// pass mainly validates field qualifiers against allowedFields and
// normalizes operator casing; anything addressing a field outside that
// set degrades to a plain (unqualified) term rather than failing.
func ParseQuery(query string) string {
	tokens := queryTokenPattern.FindAllString(query, -1)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, normalizeToken(tok))
	}
	return strings.Join(out, " ")
}

func sameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(b))
	for _, f := range b {
		set[f] = true
	}
	for _, f := range a {
		if !set[f] {
			return false
		}
	}
	return true
}

func normalizeToken(tok string) string {
	switch strings.ToLower(tok) {
	case "and":
		return "AND"
	case "or":
		return "OR"
	case "not":
		return "NOT"
	}
	if strings.HasPrefix(tok, `"`) {
		return tok
	}
	if idx := strings.Index(tok, ":"); idx > 0 {
		field := strings.ToLower(tok[:idx])
		term := tok[idx+1:]
		if allowedFields[field] && term != "" {
			return field + ":" + term
		}
		return term
	}
	return tok
}

// Query runs queryStr against the inverted index, restricted to fields
// (defaulting to DefaultFields when empty), and returns up to limit hits
// starting at offset, ordered by descending BM25F relevance.
func (s *Store) Query(ctx context.Context, queryStr string, fields []string, limit, offset int) ([]Hit, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	matchExpr := ParseQuery(queryStr)
	if strings.TrimSpace(matchExpr) == "" {
		return nil, nil
	}
	if !sameFieldSet(fields, DefaultFields) {
		matchExpr = "{" + strings.Join(fields, " ") + "} : (" + matchExpr + ")"
	}

	rows, err := s.fts.QueryContext(ctx,
		`SELECT url, bm25(docs_fts, ?, ?, ?, ?) AS rank
		 FROM docs_fts WHERE docs_fts MATCH ?
		 ORDER BY rank ASC LIMIT ? OFFSET ?`,
		bm25Weights[0], bm25Weights[1], bm25Weights[2], bm25Weights[3],
		matchExpr, limit, offset)
	if err != nil {
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseQuery}
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var url string
		var rank float64
		if err := rows.Scan(&url, &rank); err != nil {
			return nil, &IndexError{Message: err.Error(), Cause: ErrCauseQuery}
		}
		doc, found, err := s.Get(url)
		if err != nil || !found {
			continue
		}
		hits = append(hits, Hit{
			URL:         doc.URL,
			Title:       doc.Title,
			Summary:     doc.Summary,
			Keywords:    doc.Keywords,
			Score:       -rank,
			LastUpdated: doc.LastUpdated,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &IndexError{Message: err.Error(), Cause: ErrCauseQuery}
	}
	return hits, nil
}
