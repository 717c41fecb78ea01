package artifact_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/artifact"
)

// newTestStore builds a composite store whose S3 bootstrap is expected
// to fail (no reachable bucket in the test environment), exercising
// the local-only degrade path rather than a real object store.
func newTestStore(t *testing.T) artifact.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	store, err := artifact.NewStore(ctx, artifact.AWSConfig{Bucket: "unreachable-bucket-for-test", Region: "us-east-1"}, t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCompositeStorePutGetLocalFallback(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	result, err := store.Put(ctx, "http://example.com/a", artifact.KindRawHTML, []byte("<html></html>"), nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, artifact.StorageTypeLocal, result.StorageType)

	data, found, err := store.Get(ctx, "http://example.com/a", artifact.KindRawHTML)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "<html></html>", string(data))
}

func TestCompositeStoreGetMissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	data, found, err := store.Get(ctx, "http://example.com/missing", artifact.KindMetadata)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}
