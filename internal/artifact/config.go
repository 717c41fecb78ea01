package artifact

import (
	"encoding/json"
	"os"
)

// AWSConfig names the S3 bucket and region the object store targets.
type AWSConfig struct {
	Bucket string `json:"bucket"`
	Region string `json:"region"`
}

const (
	defaultBucket = "distcrawl-artifacts"
	defaultRegion = "us-east-1"
)

// LoadAWSConfig resolves bucket/region with the same precedence as the
// crawler this repo's artifact store descends from: a config file
// first, then environment variables, then hardcoded defaults.
func LoadAWSConfig(configPath string) AWSConfig {
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var cfg AWSConfig
			if json.Unmarshal(data, &cfg) == nil && cfg.Bucket != "" {
				if cfg.Region == "" {
					cfg.Region = defaultRegion
				}
				return cfg
			}
		}
	}

	cfg := AWSConfig{
		Bucket: os.Getenv("AWS_S3_BUCKET"),
		Region: os.Getenv("AWS_DEFAULT_REGION"),
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	return cfg
}
