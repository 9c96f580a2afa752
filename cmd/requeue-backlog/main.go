package main

import (
	"context"
	"os"
	"time"

	"github.com/fhuszti/images-ms-go/internal/cache"
	"github.com/fhuszti/images-ms-go/internal/config"
	"github.com/fhuszti/images-ms-go/internal/db"
	"github.com/fhuszti/images-ms-go/internal/event"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/images-ms-go/internal/stager"
	"github.com/fhuszti/images-ms-go/internal/task"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "❌  Redis not configured: this command requires a running Redis instance")
		os.Exit(1)
	}

	logger.Init()

	database, err := db.New(db.Config{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	events, err := event.NewPublisher(cfg.EventBus, cfg.NATSURL, cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize event bus: %v", err)
		_ = database.Close()
		os.Exit(1)
	}

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)

	requeuer := imageUC.NewBacklogRequeuer(
		mariadb.NewImageRepository(database.DB),
		stager.NewOSStager(cfg.TempDir),
		dispatcher, ca, events,
	)

	now := time.Now().UTC()
	out, runErr := requeuer.RequeueBacklog(ctx, port.RequeueBacklogInput{
		PendingBefore:    now.Add(-cfg.StalePendingAfter),
		ProcessingBefore: now.Add(-cfg.StaleProcessingAfter),
	})

	_ = dispatcher.Close()
	_ = ca.Close()
	_ = events.Close()
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}

	if runErr != nil {
		logger.Errorf(ctx, "❌  Backlog recovery failed: %v", runErr)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Backlog recovery completed: %d requeued, %d failed", out.Requeued, out.Failed)
}
