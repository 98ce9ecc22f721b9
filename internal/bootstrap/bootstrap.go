// Package bootstrap builds the adapters shared by the api, worker and
// maintenance binaries from the loaded settings.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/cache"
	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/inspector"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/optimiser"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/storage"
	"github.com/fhuszti/videos-ms-go/internal/tempfile"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

// ObjectStore returns the driver selected by STORAGE_DRIVER and makes sure its bucket exists.
// An unreachable store is logged and returned anyway: requests then fail with 503.
func ObjectStore(ctx context.Context, cfg *config.Settings) (port.ObjectStore, error) {
	var (
		store port.ObjectStore
		err   error
	)
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		store, err = storage.NewS3Storage(ctx, storage.S3Config{
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKey:       cfg.S3AccessKey,
			SecretKey:       cfg.S3SecretKey,
			Bucket:          cfg.StorageBucket,
			PublicBaseURL:   cfg.StoragePublicBaseURL,
			DownloadTimeout: cfg.DownloadTimeout,
		})
	default:
		store, err = storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKey:       cfg.MinioAccessKey,
			SecretKey:       cfg.MinioSecretKey,
			UseSSL:          cfg.MinioUseSSL,
			Bucket:          cfg.StorageBucket,
			PublicBaseURL:   cfg.StoragePublicBaseURL,
			DownloadTimeout: cfg.DownloadTimeout,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.StorageDriver, err)
	}

	if err := store.InitBucket(ctx); err != nil {
		logger.Warnf(ctx, "⚠️  Bucket %q is not ready: %v", cfg.StorageBucket, err)
	} else {
		logger.Infof(ctx, "✅  Using %s bucket %q", cfg.StorageDriver, cfg.StorageBucket)
	}
	return store, nil
}

// Cache returns the Redis cache, or a no-op one when Redis is not configured
// or does not answer.
func Cache(ctx context.Context, cfg *config.Settings) port.Cache {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, caching is disabled")
		return cache.NewNoop()
	}
	c := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
	if err := c.Ping(ctx); err != nil {
		logger.Warnf(ctx, "⚠️  Redis at %s unreachable, caching is disabled: %v", cfg.RedisAddr, err)
		return cache.NewNoop()
	}
	logger.Info(ctx, "✅  Redis cache enabled")
	return c
}

// PipelineConfig translates settings into the orchestration tuning.
func PipelineConfig(cfg *config.Settings) video.PipelineConfig {
	return video.PipelineConfig{
		FrameFraction:   float64(cfg.ThumbnailOffsetPercent) / 100,
		ThumbnailWidth:  cfg.ThumbnailWidth,
		Optimise:        cfg.ThumbnailFormat == config.ThumbnailFormatWebP,
		DownloadTimeout: cfg.DownloadTimeout,
	}
}

// Processor wires the ingestion pipeline. The returned scratch manager is
// exposed so that callers can run its sweeper.
func Processor(cfg *config.Settings, repo port.VideoRepository, store port.ObjectStore, c port.Cache) (port.VideoProcessor, *tempfile.Manager, error) {
	temps, err := tempfile.New(cfg.ScratchDir)
	if err != nil {
		return nil, nil, err
	}

	insp := inspector.New(inspector.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Timeout:     cfg.ExtractTimeout,
	}, nil)

	var opt port.ThumbnailOptimiser
	if cfg.ThumbnailFormat == config.ThumbnailFormatWebP {
		opt = optimiser.NewOptimiser(optimiser.NewWebPEncoder())
	}

	return video.NewVideoProcessor(repo, store, insp, temps, opt, c, PipelineConfig(cfg)), temps, nil
}
