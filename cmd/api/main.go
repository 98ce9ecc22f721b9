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

	"github.com/fhuszti/videos-ms-go/internal/bootstrap"
	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/handler/api"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/videos-ms-go/internal/middleware"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/renderer"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/tempfile"
	videoSvc "github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/fhuszti/videos-ms-go/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// submitter is whatever hands jobs to the pipeline, plus a way to stop it.
type submitter interface {
	port.JobSubmitter
	stop(ctx context.Context)
}

type localSubmitter struct{ *worker.Pool }

func (s localSubmitter) stop(ctx context.Context) {
	if err := s.Shutdown(ctx); err != nil {
		logger.Warnf(ctx, "⚠️  Worker pool did not drain: %v", err)
	}
}

type asynqSubmitter struct{ *task.Dispatcher }

func (s asynqSubmitter) stop(ctx context.Context) {
	if err := s.Close(); err != nil {
		logger.Warnf(ctx, "⚠️  Task client close error: %v", err)
	}
}

func main() {
	ctx := context.Background()
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	store, err := bootstrap.ObjectStore(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise storage: %v", err)
		os.Exit(1)
	}
	ca := bootstrap.Cache(ctx, cfg)
	repo := mariadb.NewVideoRepository(database.DB)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sub := initSubmitter(ctx, sweepCtx, cfg, repo, store, ca)

	if cfg.QueueDriver == config.QueueDriverLocal {
		go runStaleJobRecovery(sweepCtx, cfg, repo, ca)
	}

	r := initRouter(ctx, cfg, startedAt, database)

	creatorSvc := videoSvc.NewVideoCreator(repo, store, sub, uuid.NewUUID)
	registrarSvc := videoSvc.NewVideoRegistrar(repo, sub, uuid.NewUUID)
	listerSvc := videoSvc.NewVideoLister(repo)
	getterSvc := videoSvc.NewVideoGetter(repo)
	statusSvc := videoSvc.NewVideoStatusGetter(repo)
	deleterSvc := videoSvc.NewVideoDeleter(repo, store, ca)
	reprocessorSvc := videoSvc.NewVideoReprocessor(repo, store, sub, ca, uuid.NewUUID)
	rendererSvc := renderer.NewHTTPRenderer(ca, cfg.CacheTTL)

	var limiter cMiddleware.RateLimiter
	if cfg.UploadRateLimit > 0 {
		limiter = cMiddleware.NewIPRateLimiter(cfg.UploadRateLimit, cfg.UploadRateBurst, 10*time.Minute)
	}

	r.Route("/api/videos", func(r chi.Router) {
		r.With(cMiddleware.WithRateLimit(limiter)).
			Post("/upload", api.UploadVideoHandler(creatorSvc, cfg.MaxUploadBytes))
		r.Post("/register", api.RegisterVideoHandler(registrarSvc))
		r.Get("/", api.ListVideosHandler(listerSvc))

		r.Route("/{id}", func(r chi.Router) {
			r.Use(cMiddleware.WithVideoID())
			r.Get("/", api.GetVideoHandler(rendererSvc, getterSvc))
			r.Delete("/", api.DeleteVideoHandler(deleterSvc))
			r.Get("/status", api.GetVideoStatusHandler(statusSvc))
			r.Post("/reprocess", api.ReprocessVideoHandler(reprocessorSvc))
		})
	})

	listenRouter(ctx, r, cfg, database, sub, stopSweeper)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

// initSubmitter runs the pipeline in-process for QUEUE_DRIVER=local, or hands
// jobs to Redis for cmd/worker otherwise.
func initSubmitter(ctx, sweepCtx context.Context, cfg *config.Settings, repo port.VideoRepository, store port.ObjectStore, ca port.Cache) submitter {
	if cfg.QueueDriver == config.QueueDriverAsynq {
		logger.Infof(ctx, "✅  Jobs are queued in Redis at %s", cfg.RedisAddr)
		return asynqSubmitter{task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword, cfg.JobTimeout)}
	}

	processor, temps, err := bootstrap.Processor(cfg, repo, store, ca)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise pipeline: %v", err)
		os.Exit(1)
	}
	go runSweeper(sweepCtx, temps, cfg)

	logger.Infof(ctx, "✅  Running %d in-process workers", cfg.WorkerConcurrency)
	return localSubmitter{worker.NewPool(processor, cfg.WorkerConcurrency, cfg.WorkerQueueSize, cfg.JobTimeout)}
}

func runSweeper(ctx context.Context, temps *tempfile.Manager, cfg *config.Settings) {
	logger.Infof(ctx, "🧹 Sweeping %s every %s", temps.Root(), cfg.ScratchSweepInterval)
	temps.RunSweeper(ctx, cfg.ScratchSweepInterval, cfg.ScratchMaxAge)
}

// runStaleJobRecovery fails jobs left behind by a crash or a drain that ran out
// of time: processing ones and pending ones dropped from the in-memory queue.
func runStaleJobRecovery(ctx context.Context, cfg *config.Settings, repo port.VideoRepository, ca port.Cache) {
	logger.Infof(ctx, "🩺 Checking for stale jobs every %s", cfg.StaleJobInterval)
	videoSvc.RunStaleJobRecovery(ctx, videoSvc.NewStaleJobRecoverer(repo, ca), cfg.StaleJobInterval, cfg.StaleJobAge)
}

func initRouter(ctx context.Context, cfg *config.Settings, startedAt time.Time, database *db.Database) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithCORS(cfg.CORSAllowedOrigins))
	r.Use(cMiddleware.Metrics(cMiddleware.DefaultMetricsConfig()))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/health", api.HealthHandler(startedAt, nil, database))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database, sub submitter, stopSweeper context.CancelFunc) {
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

	stopSweeper()

	// in-flight jobs get longer than requests to finish
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelDrain()
	sub.stop(drainCtx)

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
