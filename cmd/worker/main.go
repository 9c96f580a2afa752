package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/images-ms-go/internal/cache"
	"github.com/fhuszti/images-ms-go/internal/config"
	"github.com/fhuszti/images-ms-go/internal/db"
	"github.com/fhuszti/images-ms-go/internal/event"
	"github.com/fhuszti/images-ms-go/internal/fetcher"
	workerHandler "github.com/fhuszti/images-ms-go/internal/handler/worker"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/optimiser"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/images-ms-go/internal/stager"
	"github.com/fhuszti/images-ms-go/internal/storage"
	"github.com/fhuszti/images-ms-go/internal/task"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	if err := initSentry(cfg); err != nil {
		logger.Errorf(ctx, "❌  sentry.Init: %v", err)
		os.Exit(1)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	database := initDb(cfg)

	strg := initStorage(cfg)
	if err := strg.InitBucket(cfg.ImagesBucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.ImagesBucket, err)
		os.Exit(1)
	}

	events, err := event.NewPublisher(cfg.EventBus, cfg.NATSURL, cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize event bus: %v", err)
		os.Exit(1)
	}

	repo := mariadb.NewImageRepository(database.DB)
	ca := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	tc := optimiser.NewTranscoder(cfg.Transcode, optimiser.ChaiWebP{})
	stg := stager.NewOSStager(cfg.TempDir)
	fetch := fetcher.NewHTTPFetcher(cfg.FetchTimeout, int64(cfg.ImageRules.SizeLimitMB)<<20)

	processSvc := imageUC.NewImageProcessor(repo, stg, tc, strg, cfg.ImagesBucket, ca, events)
	importSvc := imageUC.NewURLImporter(repo, fetch, tc, strg, cfg.ImagesBucket, ca, events)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessImageHandler(ctx, p, processSvc, workerHandler.SentryReporter)
	})
	mux.HandleFunc(task.TypeFetchImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseFetchImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.FetchImageHandler(ctx, p, importSvc, workerHandler.SentryReporter)
	})

	runWorker(ctx, mux, cfg)

	if err := events.Close(); err != nil {
		logger.Warnf(ctx, "event bus close error: %v", err)
	}
	if err := ca.Close(); err != nil {
		logger.Warnf(ctx, "cache close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}

func initSentry(cfg *config.Settings) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: os.Getenv("APP_ENV"),
	})
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

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
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     cfg.WorkerConcurrency,
		ShutdownTimeout: 30 * time.Second,
	})

	// every task gets TASK_TIMEOUT to claim, transcode and store
	handler := asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, cfg.TaskTimeout)
		defer cancel()
		return mux.ProcessTask(ctx, t)
	})

	// Run server in background
	if err := srv.Start(handler); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks and wait up to ShutdownTimeout for in-flight ones
	srv.Shutdown()
}
