package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/distcrawl/distcrawl/internal/index"
)

func TestParseQueryUppercasesOperators(t *testing.T) {
	assert.Equal(t, `python AND programming NOT snake`, index.ParseQuery("python and programming not snake"))
}

func TestParseQueryKeepsPhrase(t *testing.T) {
	assert.Equal(t, `"machine learning" OR ai`, index.ParseQuery(`"machine learning" or ai`))
}

func TestParseQueryValidField(t *testing.T) {
	assert.Equal(t, "title:python", index.ParseQuery("title:python"))
}

func TestParseQueryDegradesUnknownField(t *testing.T) {
	assert.Equal(t, "python", index.ParseQuery("bogus:python"))
}
