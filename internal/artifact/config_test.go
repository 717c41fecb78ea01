package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distcrawl/distcrawl/internal/artifact"
)

func TestLoadAWSConfigPrefersFileOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aws_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bucket":"from-file","region":"eu-west-1"}`), 0644))
	t.Setenv("AWS_S3_BUCKET", "from-env")
	t.Setenv("AWS_DEFAULT_REGION", "from-env-region")

	cfg := artifact.LoadAWSConfig(path)
	assert.Equal(t, "from-file", cfg.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoadAWSConfigFallsBackToEnv(t *testing.T) {
	t.Setenv("AWS_S3_BUCKET", "from-env")
	t.Setenv("AWS_DEFAULT_REGION", "from-env-region")

	cfg := artifact.LoadAWSConfig("")
	assert.Equal(t, "from-env", cfg.Bucket)
	assert.Equal(t, "from-env-region", cfg.Region)
}

func TestLoadAWSConfigFallsBackToDefaults(t *testing.T) {
	t.Setenv("AWS_S3_BUCKET", "")
	t.Setenv("AWS_DEFAULT_REGION", "")

	cfg := artifact.LoadAWSConfig("")
	assert.NotEmpty(t, cfg.Bucket)
	assert.NotEmpty(t, cfg.Region)
}
