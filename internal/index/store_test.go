package index_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/index"
)

func openTestStore(t *testing.T) *index.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := index.Open(filepath.Join(dir, "docs.db"), filepath.Join(dir, "fts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	doc := index.Document{
		URL: "http://a/", Title: "A", Content: "python programming",
		Keywords: []string{"python", "programming"}, Summary: "python programming",
		LastUpdated: time.Now(),
	}
	require.NoError(t, store.Upsert(ctx, doc))

	processed, err := store.IsProcessed("http://a/")
	require.NoError(t, err)
	assert.True(t, processed)

	got, found, err := store.Get("http://a/")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "A", got.Title)
}

// TestUpsertIdempotent exercises invariant 6: indexing the same {url,
// content} twice leaves the index in the same state.
func TestUpsertIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	doc := index.Document{URL: "http://a/", Title: "A", Content: "python", Keywords: []string{"python"}}

	require.NoError(t, store.Upsert(ctx, doc))
	require.NoError(t, store.Upsert(ctx, doc))

	hits, err := store.Query(ctx, "python", nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestQueryScenarioS4(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, index.Document{
		URL: "http://a/", Title: "A", Content: "python python python programming",
		Keywords: []string{"python", "programming"},
	}))

	hits, err := store.Query(ctx, "python", nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "http://a/", hits[0].URL)
}
