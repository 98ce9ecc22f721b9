package main

import (
	"context"
	"flag"
	"os"

	"github.com/fhuszti/videos-ms-go/internal/bootstrap"
	"github.com/fhuszti/videos-ms-go/internal/config"
	"github.com/fhuszti/videos-ms-go/internal/db"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/videos-ms-go/internal/tempfile"
	videoSvc "github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	olderThan := flag.Duration("older-than", cfg.StaleJobAge, "fail jobs processing for longer than this")
	sweep := flag.Bool("sweep", true, "also remove scratch files older than SCRATCH_MAX_AGE")
	flag.Parse()

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	repo := mariadb.NewVideoRepository(database.DB)
	recoverer := videoSvc.NewStaleJobRecoverer(repo, bootstrap.Cache(ctx, cfg))

	n, err := recoverer.RecoverStaleJobs(ctx, *olderThan)
	if err != nil {
		logger.Errorf(ctx, "❌  Stale job recovery failed after %d jobs: %v", n, err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Recovered %d stale jobs", n)

	if !*sweep {
		return
	}
	temps, err := tempfile.New(cfg.ScratchDir)
	if err != nil {
		logger.Errorf(ctx, "❌  Scratch directory unusable: %v", err)
		os.Exit(1)
	}
	removed, err := temps.Sweep(ctx, cfg.ScratchMaxAge)
	if err != nil {
		logger.Warnf(ctx, "⚠️  Scratch sweep incomplete: %v", err)
	}
	logger.Infof(ctx, "✅  Removed %d stale scratch files from %s", removed, temps.Root())
}
