// Command distcrawl launches one crawl run: a coordinator, a pool of
// workers, and an indexer, wired together over an in-process bus and
// driven to completion or to an interrupt signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/distcrawl/distcrawl/internal/artifact"
	"github.com/distcrawl/distcrawl/internal/bus"
	cmd "github.com/distcrawl/distcrawl/internal/cli"
	"github.com/distcrawl/distcrawl/internal/config"
	"github.com/distcrawl/distcrawl/internal/coordinator"
	"github.com/distcrawl/distcrawl/internal/fetcher"
	"github.com/distcrawl/distcrawl/internal/index"
	"github.com/distcrawl/distcrawl/internal/indexer"
	"github.com/distcrawl/distcrawl/internal/metadata"
	"github.com/distcrawl/distcrawl/internal/worker"
)

// rankCoordinator is fixed; worker ranks and the indexer rank are laid
// out relative to the configured worker count.
const rankCoordinator = 0

func main() {
	cmd.Runner = run
	cmd.Execute()
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerRanks := make([]int, cfg.WorkerCount())
	for i := range workerRanks {
		workerRanks[i] = i + 1
	}
	indexerRank := cfg.WorkerCount() + 1
	allRanks := append(append([]int{rankCoordinator}, workerRanks...), indexerRank)

	b := bus.New(allRanks, 64)

	masterLogger, masterClose, err := metadata.NewFileLogger(logPath(cfg.LogDir(), "master.log"))
	if err != nil {
		return fmt.Errorf("open master log: %w", err)
	}
	defer masterClose()
	coordRecorder := metadata.NewRecorder(masterLogger, "coordinator")

	store, err := index.Open(
		filepath.Join(cfg.SearchIndexDir(), "docs.db"),
		filepath.Join(cfg.SearchIndexDir(), "fts.db"),
	)
	if err != nil {
		return fmt.Errorf("open index store: %w", err)
	}
	defer store.Close()

	awsCfg := artifact.LoadAWSConfig("")
	if cfg.S3Bucket() != "" {
		awsCfg.Bucket = cfg.S3Bucket()
	}
	if cfg.S3Region() != "" {
		awsCfg.Region = cfg.S3Region()
	}
	artifacts, err := artifact.NewStore(ctx, awsCfg, cfg.ArtifactLocalDir())
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}

	coord, err := coordinator.New(coordinator.Config{
		Rank:           rankCoordinator,
		WorkerRanks:    workerRanks,
		IndexerRank:    indexerRank,
		SeedURLs:       cfg.SeedURLs(),
		MaxURLs:        cfg.MaxURLs(),
		NewURLsPerPage: cfg.NewURLsPerPage(),
		TaskTimeout:    cfg.TaskTimeout(),
		HeartbeatTTL:   cfg.HeartbeatTimeout(),
		MetricsPath:    cfg.MetricsPath(),
	}, b, coordRecorder)
	if err != nil {
		return fmt.Errorf("build coordinator: %w", err)
	}

	var wg sync.WaitGroup
	runRole := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "%s stopped: %s\n", name, err)
			}
		}()
	}

	for _, rank := range workerRanks {
		logger, closeFn, err := metadata.NewFileLogger(logPath(cfg.LogDir(), fmt.Sprintf("crawler_%d.log", rank)))
		if err != nil {
			return fmt.Errorf("open worker %d log: %w", rank, err)
		}
		defer closeFn()
		recorder := metadata.NewRecorder(logger, "worker")
		f := fetcher.NewHTTPFetcher(recorder)
		w := worker.New(worker.Param{
			Rank:            rank,
			CoordinatorRank: rankCoordinator,
			IndexerRank:     indexerRank,
			UserAgent:       cfg.UserAgent(),
			FetchTimeout:    cfg.FetchTimeout(),
			Politeness:      cfg.WorkerPoliteness(),
		}, b, f, recorder)
		runRole(fmt.Sprintf("worker-%d", rank), w.Run)
	}

	indexerLogger, indexerClose, err := metadata.NewFileLogger(logPath(cfg.LogDir(), "indexer.log"))
	if err != nil {
		return fmt.Errorf("open indexer log: %w", err)
	}
	defer indexerClose()
	indexerRecorder := metadata.NewRecorder(indexerLogger, "indexer")
	ix := indexer.New(indexer.Param{Rank: indexerRank, CoordinatorRank: rankCoordinator}, b, store, artifacts, nil, indexerRecorder)
	runRole("indexer", ix.Run)

	err = coord.Run(ctx)
	stop()
	wg.Wait()
	return err
}

func logPath(dir, name string) string {
	if dir == "" {
		dir = "logs"
	}
	return filepath.Join(dir, name)
}
