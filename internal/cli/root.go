// Package cmd implements the distcrawl command-line entrypoint: flag
// parsing, config construction, and the single Runner hook the real
// binary wires up to launch the coordinator/worker/indexer topology.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/distcrawl/distcrawl/internal/config"
)

var (
	cfgFile          string
	seedURLs         []string
	maxURLs          int
	newURLsPerPage   int
	taskTimeout      time.Duration
	heartbeatTimeout time.Duration
	metricsPath      string
	fetchTimeout     time.Duration
	userAgent        string
	workerCount      int
	workerPoliteness time.Duration
	searchIndexDir   string
	artifactLocalDir string
	s3Bucket         string
	s3Region         string
	logDir           string
)

// Runner is invoked by rootCmd with the fully built config. main wires
// this to the real coordinator/worker/indexer launch; tests never set
// it, since rootCmd.Run is not exercised directly (InitConfigWithError
// is the tested surface).
var Runner func(config.Config) error

var rootCmd = &cobra.Command{
	Use:   "distcrawl",
	Short: "A distributed web crawler and full-text index builder.",
	Long: `distcrawl crawls a seed set of URLs across a pool of workers,
extracts and tokenizes page content, and maintains a searchable
inverted index over everything it fetches.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(seedURLs) == 0 {
			fmt.Fprintf(os.Stderr, "Error: --seed-url is required. Provide at least one seed URL to start crawling.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()
		fmt.Printf("Configuration initialized successfully\n")
		fmt.Printf("Seed URLs: %s\n", strings.Join(cfg.SeedURLs(), ", "))
		fmt.Printf("Max URLs: %d\n", cfg.MaxURLs())
		fmt.Printf("Workers: %d\n", cfg.WorkerCount())
		fmt.Printf("Worker Politeness: %v\n", cfg.WorkerPoliteness())
		fmt.Printf("Task Timeout: %v\n", cfg.TaskTimeout())
		fmt.Printf("Heartbeat Timeout: %v\n", cfg.HeartbeatTimeout())
		fmt.Printf("Search Index Dir: %s\n", cfg.SearchIndexDir())
		fmt.Printf("Artifact Local Dir: %s\n", cfg.ArtifactLocalDir())
		fmt.Printf("Metrics Path: %s\n", cfg.MetricsPath())

		if Runner == nil {
			fmt.Fprintf(os.Stderr, "Error: no runner wired\n")
			os.Exit(1)
		}
		if err := Runner(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringArrayVar(&seedURLs, "seed-url", []string{}, "one or more starting URLs (can be repeated)")
	rootCmd.PersistentFlags().IntVar(&maxURLs, "max-urls", 0, "maximum number of URLs to crawl (0 uses the default)")
	rootCmd.PersistentFlags().IntVar(&newURLsPerPage, "new-urls-per-page", 0, "cap on links enqueued from each crawled page")
	rootCmd.PersistentFlags().DurationVar(&taskTimeout, "task-timeout", 0, "coordinator re-queue timeout for a dispatched URL")
	rootCmd.PersistentFlags().DurationVar(&heartbeatTimeout, "heartbeat-timeout", 0, "worker liveness timeout before it is marked failed")
	rootCmd.PersistentFlags().StringVar(&metricsPath, "metrics-path", "", "path to the JSON monitoring snapshot")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "per-request HTTP fetch timeout")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().IntVar(&workerCount, "worker-count", 0, "number of concurrent fetch workers")
	rootCmd.PersistentFlags().DurationVar(&workerPoliteness, "worker-politeness", 0, "minimum delay between one worker's successive fetches to the same host")
	rootCmd.PersistentFlags().StringVar(&searchIndexDir, "search-index-dir", "", "directory holding the bbolt/FTS5 index files")
	rootCmd.PersistentFlags().StringVar(&artifactLocalDir, "artifact-local-dir", "", "local fallback root for artifact storage")
	rootCmd.PersistentFlags().StringVar(&s3Bucket, "s3-bucket", "", "S3 bucket for artifact storage")
	rootCmd.PersistentFlags().StringVar(&s3Region, "s3-region", "", "S3 region for artifact storage")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for per-role log files")
}

// InitConfig reads in the config file and flag overrides if set, or
// exits the process on error.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in the config file and flag overrides if
// set, returning any error instead of exiting. This is the tested
// surface; InitConfig is a thin os.Exit wrapper around it.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if len(seedURLs) == 0 {
		return config.Config{}, fmt.Errorf("%w: seed-url cannot be empty", config.ErrInvalidConfig)
	}

	fmt.Println("No config file specified. Using default flag values.")
	builder := config.WithDefault(seedURLs)

	if maxURLs > 0 {
		builder = builder.WithMaxURLs(maxURLs)
	}
	if newURLsPerPage > 0 {
		builder = builder.WithNewURLsPerPage(newURLsPerPage)
	}
	if taskTimeout > 0 {
		builder = builder.WithTaskTimeout(taskTimeout)
	}
	if heartbeatTimeout > 0 {
		builder = builder.WithHeartbeatTimeout(heartbeatTimeout)
	}
	if metricsPath != "" {
		builder = builder.WithMetricsPath(metricsPath)
	}
	if fetchTimeout > 0 {
		builder = builder.WithFetchTimeout(fetchTimeout)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if workerCount > 0 {
		builder = builder.WithWorkerCount(workerCount)
	}
	if workerPoliteness > 0 {
		builder = builder.WithWorkerPoliteness(workerPoliteness)
	}
	if searchIndexDir != "" {
		builder = builder.WithSearchIndexDir(searchIndexDir)
	}
	if artifactLocalDir != "" {
		builder = builder.WithArtifactLocalDir(artifactLocalDir)
	}
	if s3Bucket != "" {
		builder = builder.WithS3Bucket(s3Bucket)
	}
	if s3Region != "" {
		builder = builder.WithS3Region(s3Region)
	}
	if logDir != "" {
		builder = builder.WithLogDir(logDir)
	}

	return builder.Build()
}

// ResetFlags restores every package-level flag var to its zero value.
// Tests call this between cases so flag state from one test never
// leaks into the next.
func ResetFlags() {
	cfgFile = ""
	seedURLs = []string{}
	maxURLs = 0
	newURLsPerPage = 0
	taskTimeout = 0
	heartbeatTimeout = 0
	metricsPath = ""
	fetchTimeout = 0
	userAgent = ""
	workerCount = 0
	workerPoliteness = 0
	searchIndexDir = ""
	artifactLocalDir = ""
	s3Bucket = ""
	s3Region = ""
	logDir = ""
}

func SetConfigFileForTest(path string)       { cfgFile = path }
func SetSeedURLsForTest(urls []string)       { seedURLs = urls }
func SetMaxURLsForTest(n int)                { maxURLs = n }
func SetNewURLsPerPageForTest(n int)         { newURLsPerPage = n }
func SetTaskTimeoutForTest(d time.Duration)  { taskTimeout = d }
func SetHeartbeatTimeoutForTest(d time.Duration) {
	heartbeatTimeout = d
}
func SetMetricsPathForTest(path string)      { metricsPath = path }
func SetFetchTimeoutForTest(d time.Duration) { fetchTimeout = d }
func SetUserAgentForTest(agent string)       { userAgent = agent }
func SetWorkerCountForTest(n int)            { workerCount = n }
func SetWorkerPolitenessForTest(d time.Duration) {
	workerPoliteness = d
}
func SetSearchIndexDirForTest(dir string)   { searchIndexDir = dir }
func SetArtifactLocalDirForTest(dir string) { artifactLocalDir = dir }
func SetS3BucketForTest(bucket string)      { s3Bucket = bucket }
func SetS3RegionForTest(region string)      { s3Region = region }
func SetLogDirForTest(dir string)           { logDir = dir }
