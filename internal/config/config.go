package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is built through a chained WithX(...).Build() sequence: every
// field is unexported, every field has a validated getter, and Build()
// is the single place defaults are reconciled with overrides.
type Config struct {
	seedURLs       []string
	maxURLs        int
	newURLsPerPage int

	taskTimeout      time.Duration
	heartbeatTimeout time.Duration
	metricsPath      string

	fetchTimeout time.Duration
	userAgent    string

	workerCount      int
	workerPoliteness time.Duration

	searchIndexDir   string
	artifactLocalDir string
	s3Bucket         string
	s3Region         string

	logDir string
}

// validationView mirrors Config's fields with validator struct tags.
// Config itself keeps unexported fields (so callers can't bypass Build),
// so validation runs against this sibling struct instead of Config.
type validationView struct {
	SeedURLs         []string      `validate:"required,min=1,dive,url"`
	MaxURLs          int           `validate:"required,min=1"`
	NewURLsPerPage   int           `validate:"required,min=1"`
	TaskTimeout      time.Duration `validate:"required,gt=0"`
	HeartbeatTimeout time.Duration `validate:"required,gt=0"`
	MetricsPath      string        `validate:"required"`
	FetchTimeout     time.Duration `validate:"required,gt=0"`
	UserAgent        string        `validate:"required"`
	WorkerCount      int           `validate:"required,min=1"`
	WorkerPoliteness time.Duration `validate:"gte=0"`
	SearchIndexDir   string        `validate:"required"`
	ArtifactLocalDir string        `validate:"required"`
	LogDir           string        `validate:"required"`
}

var validate = validator.New()

// WithDefault seeds a Config with the provided seed URLs and the
// project's baseline defaults: new_urls_per_page=5, task_timeout=30s,
// heartbeat_timeout=10s.
func WithDefault(seedURLs []string) *Config {
	return &Config{
		seedURLs:         seedURLs,
		maxURLs:          100,
		newURLsPerPage:   5,
		taskTimeout:      30 * time.Second,
		heartbeatTimeout: 10 * time.Second,
		metricsPath:      "data/monitoring/monitoring_data.json",
		fetchTimeout:     10 * time.Second,
		userAgent:        "distcrawl/1.0",
		workerCount:      1,
		workerPoliteness: 500 * time.Millisecond,
		searchIndexDir:   "search_index",
		artifactLocalDir: "data/artifacts",
		logDir:           "logs",
	}
}

func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	var dto configDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	return newConfigFromDTO(dto)
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	c := WithDefault(dto.SeedURLs)
	if dto.MaxURLs != 0 {
		c.WithMaxURLs(dto.MaxURLs)
	}
	if dto.NewURLsPerPage != 0 {
		c.WithNewURLsPerPage(dto.NewURLsPerPage)
	}
	if dto.TaskTimeoutMS != 0 {
		c.WithTaskTimeout(durationFromMillis(dto.TaskTimeoutMS))
	}
	if dto.HeartbeatMS != 0 {
		c.WithHeartbeatTimeout(durationFromMillis(dto.HeartbeatMS))
	}
	if dto.MetricsPath != "" {
		c.WithMetricsPath(dto.MetricsPath)
	}
	if dto.FetchTimeoutMS != 0 {
		c.WithFetchTimeout(durationFromMillis(dto.FetchTimeoutMS))
	}
	if dto.UserAgent != "" {
		c.WithUserAgent(dto.UserAgent)
	}
	if dto.WorkerCount != 0 {
		c.WithWorkerCount(dto.WorkerCount)
	}
	if dto.WorkerPoliteness != 0 {
		c.WithWorkerPoliteness(durationFromMillis(dto.WorkerPoliteness))
	}
	if dto.SearchIndexDir != "" {
		c.WithSearchIndexDir(dto.SearchIndexDir)
	}
	if dto.ArtifactLocalDir != "" {
		c.WithArtifactLocalDir(dto.ArtifactLocalDir)
	}
	if dto.S3Bucket != "" {
		c.WithS3Bucket(dto.S3Bucket)
	}
	if dto.S3Region != "" {
		c.WithS3Region(dto.S3Region)
	}
	if dto.LogDir != "" {
		c.WithLogDir(dto.LogDir)
	}
	return c.Build()
}

func (c *Config) WithSeedURLs(urls []string) *Config          { c.seedURLs = urls; return c }
func (c *Config) WithMaxURLs(n int) *Config                   { c.maxURLs = n; return c }
func (c *Config) WithNewURLsPerPage(n int) *Config            { c.newURLsPerPage = n; return c }
func (c *Config) WithTaskTimeout(d time.Duration) *Config     { c.taskTimeout = d; return c }
func (c *Config) WithHeartbeatTimeout(d time.Duration) *Config {
	c.heartbeatTimeout = d
	return c
}
func (c *Config) WithMetricsPath(path string) *Config        { c.metricsPath = path; return c }
func (c *Config) WithFetchTimeout(d time.Duration) *Config   { c.fetchTimeout = d; return c }
func (c *Config) WithUserAgent(ua string) *Config            { c.userAgent = ua; return c }
func (c *Config) WithWorkerCount(n int) *Config               { c.workerCount = n; return c }
func (c *Config) WithWorkerPoliteness(d time.Duration) *Config {
	c.workerPoliteness = d
	return c
}
func (c *Config) WithSearchIndexDir(dir string) *Config       { c.searchIndexDir = dir; return c }
func (c *Config) WithArtifactLocalDir(dir string) *Config     { c.artifactLocalDir = dir; return c }
func (c *Config) WithS3Bucket(bucket string) *Config          { c.s3Bucket = bucket; return c }
func (c *Config) WithS3Region(region string) *Config          { c.s3Region = region; return c }
func (c *Config) WithLogDir(dir string) *Config               { c.logDir = dir; return c }

// Build validates the accumulated fields and returns an immutable Config.
// Validation runs struct-tag rules (github.com/go-playground/validator/v10)
// against a sibling view of the fields, keeping Config's own fields
// unexported and immutable once built.
func (c *Config) Build() (Config, error) {
	view := validationView{
		SeedURLs:         c.seedURLs,
		MaxURLs:          c.maxURLs,
		NewURLsPerPage:   c.newURLsPerPage,
		TaskTimeout:      c.taskTimeout,
		HeartbeatTimeout: c.heartbeatTimeout,
		MetricsPath:      c.metricsPath,
		FetchTimeout:     c.fetchTimeout,
		UserAgent:        c.userAgent,
		WorkerCount:      c.workerCount,
		WorkerPoliteness: c.workerPoliteness,
		SearchIndexDir:   c.searchIndexDir,
		ArtifactLocalDir: c.artifactLocalDir,
		LogDir:           c.logDir,
	}
	if err := validate.Struct(view); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return *c, nil
}

func (c Config) SeedURLs() []string {
	out := make([]string, len(c.seedURLs))
	copy(out, c.seedURLs)
	return out
}
func (c Config) MaxURLs() int                    { return c.maxURLs }
func (c Config) NewURLsPerPage() int             { return c.newURLsPerPage }
func (c Config) TaskTimeout() time.Duration      { return c.taskTimeout }
func (c Config) HeartbeatTimeout() time.Duration { return c.heartbeatTimeout }
func (c Config) MetricsPath() string             { return c.metricsPath }
func (c Config) FetchTimeout() time.Duration     { return c.fetchTimeout }
func (c Config) UserAgent() string               { return c.userAgent }
func (c Config) WorkerCount() int                { return c.workerCount }
func (c Config) WorkerPoliteness() time.Duration { return c.workerPoliteness }
func (c Config) SearchIndexDir() string          { return c.searchIndexDir }
func (c Config) ArtifactLocalDir() string        { return c.artifactLocalDir }
func (c Config) S3Bucket() string                { return c.s3Bucket }
func (c Config) S3Region() string                { return c.s3Region }
func (c Config) LogDir() string                  { return c.logDir }
