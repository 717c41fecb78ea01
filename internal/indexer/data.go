package indexer

import "github.com/distcrawl/distcrawl/internal/tokenize"

// Param configures one Indexer instance.
type Param struct {
	Rank            int
	CoordinatorRank int
}

// keywordCount and summarySentences pin the ingestion pipeline's
// keyword/summary budgets to the tokenizer's package defaults.
const (
	keywordCount     = tokenize.DefaultKeywordCount
	summarySentences = tokenize.DefaultSummarySentences
)
