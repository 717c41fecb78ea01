package tokenize

// stopwords is a compact built-in English stopword set. The full
// stopword/lemmatizer asset pack is an external, optional resource (see
// package doc); this set is the floor the tokenizer can always fall back
// to, so it never needs to abort for lack of a bootstrapped asset.
var stopwords = buildStopwordSet([]string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "her",
	"was", "one", "our", "out", "day", "get", "has", "him", "his", "how",
	"man", "new", "now", "old", "see", "two", "way", "who", "boy", "did",
	"its", "let", "put", "say", "she", "too", "use", "that", "with", "have",
	"this", "will", "your", "from", "they", "know", "want", "been", "good",
	"much", "some", "time", "very", "when", "come", "here", "just", "like",
	"long", "make", "many", "over", "such", "take", "than", "them", "well",
	"were", "into", "also", "more", "only", "other", "about", "after",
	"again", "could", "every", "first", "found", "great", "house", "never",
	"should", "their", "there", "these", "thing", "think", "those", "under",
	"where", "which", "while", "would",
})

func buildStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether token is in the built-in stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
