package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/images-ms-go/internal/cache"
	"github.com/fhuszti/images-ms-go/internal/config"
	"github.com/fhuszti/images-ms-go/internal/db"
	"github.com/fhuszti/images-ms-go/internal/event"
	"github.com/fhuszti/images-ms-go/internal/fetcher"
	"github.com/fhuszti/images-ms-go/internal/handler/api"
	"github.com/fhuszti/images-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/images-ms-go/internal/middleware"
	"github.com/fhuszti/images-ms-go/internal/optimiser"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/renderer"
	"github.com/fhuszti/images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/images-ms-go/internal/stager"
	"github.com/fhuszti/images-ms-go/internal/storage"
	"github.com/fhuszti/images-ms-go/internal/task"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/fhuszti/images-ms-go/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	strg := initStorage(ctx, cfg)
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
	stg := stager.NewOSStager(cfg.TempDir)

	// jobs run in-process without Redis, and stop with the server
	workCtx, stopWork := context.WithCancel(context.Background())
	pool := task.NewWorkerPool(cfg.WorkerConcurrency)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		redisCache := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warnf(ctx, "⚠️  Redis ping failed, status cache will miss until it recovers: %v", err)
		}
		ca = redisCache
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache and job queue enabled")
	} else {
		ca = cache.NewNoop()
		tc := optimiser.NewTranscoder(cfg.Transcode, optimiser.ChaiWebP{})
		processor := imageUC.NewImageProcessor(repo, stg, tc, strg, cfg.ImagesBucket, ca, events)
		importer := imageUC.NewURLImporter(
			repo,
			fetcher.NewHTTPFetcher(cfg.FetchTimeout, sizeLimitBytes(cfg)),
			tc, strg, cfg.ImagesBucket, ca, events,
		)
		dispatcher = task.NewPoolDispatcher(workCtx, pool, processor, importer, cfg.TaskTimeout)
		logger.Warn(ctx, "⚠️  Redis not configured, caching is disabled and images are processed in-process")
	}

	r := initRouter(ctx)

	ingester := imageUC.NewImageIngester(validation.NewImageValidator(cfg.ImageRules), stg, repo, dispatcher, uuid.NewUUID)
	importRequester := imageUC.NewImportRequester(repo, dispatcher, uuid.NewUUID)
	statusGetter := imageUC.NewStatusGetter(repo)
	statusRenderer := renderer.NewStatusRenderer(ca, cfg.StatusCacheTTL)
	lister := imageUC.NewImageLister(repo)
	downloader := imageUC.NewImageDownloader(repo, strg, cfg.ImagesBucket)
	deleter := imageUC.NewImageDeleter(repo, ca, strg, cfg.ImagesBucket)

	r.Route("/images", func(r chi.Router) {
		r.Get("/", api.ListImagesHandler(lister))
		r.Post("/", api.UploadImageHandler(ingester, sizeLimitBytes(cfg)))
		r.Post("/import", api.ImportImageHandler(importRequester))

		r.Group(func(r chi.Router) {
			r.Use(cMiddleware.WithImageID())
			r.Get("/{id}", api.GetStatusHandler(statusRenderer, statusGetter))
			r.Get("/{id}/download", api.DownloadImageHandler(downloader))
			r.Delete("/{id}", api.DeleteImageHandler(deleter))
		})
	})

	listenRouter(ctx, r, cfg)

	stopWork()
	pool.Close()
	if err := events.Close(); err != nil {
		logger.Warnf(ctx, "event bus close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}

func sizeLimitBytes(cfg *config.Settings) int64 {
	return int64(cfg.ImageRules.SizeLimitMB) << 20
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
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

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")
}
