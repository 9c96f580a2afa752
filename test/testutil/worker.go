package testutil

import (
	"context"
	"database/sql"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/images-ms-go/internal/cache"
	"github.com/fhuszti/images-ms-go/internal/event"
	"github.com/fhuszti/images-ms-go/internal/fetcher"
	workerHandler "github.com/fhuszti/images-ms-go/internal/handler/worker"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/optimiser"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/images-ms-go/internal/stager"
	"github.com/fhuszti/images-ms-go/internal/task"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
)

// StartWorker starts an asynq worker handling process and fetch tasks.
// It returns a function to gracefully shut down the worker.
func StartWorker(dbConn *sql.DB, strg port.Storage, bucket, redisAddr, stagingDir string) func() {
	repo := mariadb.NewImageRepository(dbConn)
	ca := cache.NewCache(redisAddr, "")
	tc := optimiser.NewTranscoder(optimiser.DefaultSettings(), optimiser.ChaiWebP{})
	events := event.NewNoopPublisher()

	processSvc := imageUC.NewImageProcessor(repo, stager.NewOSStager(stagingDir), tc, strg, bucket, ca, events)
	importSvc := imageUC.NewURLImporter(repo, fetcher.NewHTTPFetcher(fetcher.DefaultTimeout, 10<<20), tc, strg, bucket, ca, events)

	ignore := func(context.Context, error) {}

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeProcessImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseProcessImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ProcessImageHandler(ctx, p, processSvc, ignore)
	})
	mux.HandleFunc(task.TypeFetchImage, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseFetchImagePayload(t)
		if err != nil {
			return err
		}
		return workerHandler.FetchImageHandler(ctx, p, importSvc, ignore)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
		_ = ca.Close()
	}
}
