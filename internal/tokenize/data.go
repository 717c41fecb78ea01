package tokenize

// minTokenLength is the exclusive lower bound on token length accepted by
// the filter stage (tokens of length <= 3 are dropped).
const minTokenLength = 3

// DefaultKeywordCount is the top-N cutoff for keyword extraction.
const DefaultKeywordCount = 10

// DefaultSummarySentences is the default extractive-summary sentence budget.
const DefaultSummarySentences = 3

// Lemmatizer reduces a token to its base form. It is an external, optional
// linguistic asset: the tokenizer must degrade gracefully to the
// non-lemmatized token when none is configured or when it errors.
type Lemmatizer interface {
	Lemmatize(token string) (string, error)
}

// NoopLemmatizer returns every token unchanged. It is the zero-dependency
// default when no linguistic asset has been bootstrapped.
type NoopLemmatizer struct{}

func (NoopLemmatizer) Lemmatize(token string) (string, error) {
	return token, nil
}

var _ Lemmatizer = NoopLemmatizer{}
