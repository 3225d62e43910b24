package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/repo"
	"github.com/light-bringer/advert-catalog/internal/models/m_outbox"
	"github.com/light-bringer/advert-catalog/internal/pkg/committer"
	"github.com/light-bringer/advert-catalog/internal/pkg/logger"
)

// Config for the outbox cleanup job.
type Config struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	DryRun                 bool
}

// outboxPruner is the slice of repo.OutboxRepo the job needs.
type outboxPruner interface {
	CountProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error)
	DeleteProcessedBefore(ctx context.Context, status string, cutoff time.Time) (int64, error)
}

func main() {
	config := Config{}
	flag.StringVar(&config.SpannerDB, "database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&config.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&config.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	log, err := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if config.SpannerDB == "" {
		log.Fatal("-database flag is required")
	}

	ctx := context.Background()

	client, err := spanner.NewClient(ctx, config.SpannerDB)
	if err != nil {
		log.Fatal("failed to create Spanner client", zap.Error(err))
	}
	defer client.Close()

	outbox := repo.NewOutboxRepo(client, committer.NewCommitter(client))
	total, err := cleanupOutbox(ctx, outbox, config, time.Now().UTC(), log)
	if err != nil {
		log.Fatal("cleanup failed", zap.Error(err))
	}

	log.Info("cleanup completed", zap.Int64("events", total), zap.Bool("dry_run", config.DryRun))
}

// cleanupOutbox prunes terminal outbox rows older than their retention
// window. In dry-run mode it only counts them. Returns the total affected.
func cleanupOutbox(ctx context.Context, outbox outboxPruner, config Config, now time.Time, log *zap.Logger) (int64, error) {
	windows := []struct {
		status string
		cutoff time.Time
	}{
		{m_outbox.StatusCompleted, now.AddDate(0, 0, -config.CompletedRetentionDays)},
		{m_outbox.StatusFailed, now.AddDate(0, 0, -config.FailedRetentionDays)},
	}

	var total int64
	for _, w := range windows {
		log := log.With(zap.String("status", w.status), zap.Time("cutoff", w.cutoff))

		if config.DryRun {
			count, err := outbox.CountProcessedBefore(ctx, w.status, w.cutoff)
			if err != nil {
				return total, fmt.Errorf("count %s events: %w", w.status, err)
			}
			log.Info("would delete outbox events", zap.Int64("count", count))
			total += count
			continue
		}

		deleted, err := outbox.DeleteProcessedBefore(ctx, w.status, w.cutoff)
		if err != nil {
			return total, fmt.Errorf("delete %s events: %w", w.status, err)
		}
		log.Info("deleted outbox events", zap.Int64("count", deleted))
		total += deleted
	}
	return total, nil
}
