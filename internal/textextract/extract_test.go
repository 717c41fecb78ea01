package textextract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/textextract"
)

func TestExtractPrefersMainRoot(t *testing.T) {
	html := `<html><head><title>Hi</title><style>.x{}</style></head>
	<body><nav>menu</nav><header>top</header>
	<main>Python python PYTHON programming</main>
	<footer>bottom</footer></body></html>`

	result, err := textextract.Extract([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "Hi", result.Title)
	assert.Equal(t, "Python python PYTHON programming", result.Text)
}

func TestExtractStripsURLTokens(t *testing.T) {
	html := `<html><body><main>see http://example.com/a for more   details</main></body></html>`

	result, err := textextract.Extract([]byte(html))
	require.NoError(t, err)
	assert.NotContains(t, result.Text, "http://")
	assert.Equal(t, "see for more details", result.Text)
}

func TestExtractFallsBackToBody(t *testing.T) {
	html := `<html><body><p>plain content here</p></body></html>`

	result, err := textextract.Extract([]byte(html))
	require.NoError(t, err)
	assert.Contains(t, result.Text, "plain content here")
}

func TestExtractEmptyDocument(t *testing.T) {
	result, err := textextract.Extract([]byte(`<html><body></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}
