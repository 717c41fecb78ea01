package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/config"
)

func TestWithDefaultBuild(t *testing.T) {
	cfg, err := config.WithDefault([]string{"http://a.example/"}).Build()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.NewURLsPerPage())
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout())
	assert.Equal(t, 10*time.Second, cfg.HeartbeatTimeout())
}

func TestBuildRejectsEmptySeeds(t *testing.T) {
	_, err := config.WithDefault(nil).Build()
	require.Error(t, err)
}

func TestChainedOverrides(t *testing.T) {
	cfg, err := config.WithDefault([]string{"http://a.example/"}).
		WithMaxURLs(10).
		WithTaskTimeout(2 * time.Second).
		WithHeartbeatTimeout(1 * time.Second).
		WithWorkerCount(3).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxURLs())
	assert.Equal(t, 2*time.Second, cfg.TaskTimeout())
	assert.Equal(t, 3, cfg.WorkerCount())
}

func TestWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body, err := json.Marshal(map[string]any{
		"seedUrls":    []string{"http://a.example/"},
		"maxUrls":     42,
		"workerCount": 4,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, body, 0644))

	cfg, err := config.WithConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxURLs())
	assert.Equal(t, 4, cfg.WorkerCount())
}

func TestWithConfigFileMissing(t *testing.T) {
	_, err := config.WithConfigFile("/nonexistent/path.json")
	require.ErrorIs(t, err, config.ErrFileDoesNotExist)
}
