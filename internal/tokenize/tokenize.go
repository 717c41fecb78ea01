// Package tokenize implements the indexer's linguistic pipeline:
// sentence/word segmentation, stopword filtering, optional lemmatization,
// keyword extraction, and extractive summarization.
//
// The linguistic subsystem (stopwords beyond the built-in floor,
// lemmatizer) is an external, optional asset. Every entry point here
// degrades to a plain, non-linguistic path rather than aborting when that
// asset is absent or errors.
package tokenize

import (
	"regexp"
	"sort"
	"strings"
)

var sentenceSplitPattern = regexp.MustCompile(`(?:[.!?]+)(?:\s+|$)`)

var wordSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SplitSentences segments text into trimmed, non-empty sentences using a
// punctuation-boundary heuristic. Returns nil for empty text.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := sentenceSplitPattern.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Tokenize word-segments text, lowercases, filters tokens by
// {alphanumeric, length > 3, not a stopword}, and applies lemmatizer to
// each surviving token. A lemmatizer error on a token falls back to the
// unlemmatized token rather than dropping it or aborting the pass.
func Tokenize(text string, lemmatizer Lemmatizer) []string {
	if lemmatizer == nil {
		lemmatizer = NoopLemmatizer{}
	}
	lower := strings.ToLower(text)
	words := wordSplitPattern.Split(lower, -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= minTokenLength {
			continue
		}
		if !isAlphanumeric(w) {
			continue
		}
		if IsStopword(w) {
			continue
		}
		lemma, err := lemmatizer.Lemmatize(w)
		if err != nil || lemma == "" {
			lemma = w
		}
		tokens = append(tokens, lemma)
	}
	return tokens
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return s != ""
}

// Keywords returns the top-n tokens by frequency, breaking ties
// alphabetically for determinism.
func Keywords(tokens []string, n int) []string {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	unique := make([]string, 0, len(counts))
	for t := range counts {
		unique = append(unique, t)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return unique[i] < unique[j]
	})
	if len(unique) > n {
		unique = unique[:n]
	}
	return unique
}

// Summary builds an extractive summary: the first sentence plus the last
// (maxSentences-1) sentences. Returns empty if sentences is empty. When
// maxSentences >= len(sentences), every sentence is included in order.
func Summary(sentences []string, maxSentences int) string {
	if len(sentences) == 0 {
		return ""
	}
	if maxSentences <= 0 {
		maxSentences = DefaultSummarySentences
	}
	if maxSentences >= len(sentences) {
		return strings.Join(sentences, " ")
	}
	if maxSentences == 1 {
		return sentences[0]
	}

	tail := sentences[len(sentences)-(maxSentences-1):]
	picked := append([]string{sentences[0]}, tail...)
	return strings.Join(picked, " ")
}
