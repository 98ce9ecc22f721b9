package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

const (
	DefaultStaleJobAge     = time.Hour
	staleJobFailureMessage = "processing interrupted"
	lostJobFailureMessage  = "job was never picked up"
)

type staleJobRecovererSrv struct {
	repo  port.VideoRepository
	cache port.Cache
	now   func() time.Time
}

// compile-time check: *staleJobRecovererSrv must satisfy port.StaleJobRecoverer
var _ port.StaleJobRecoverer = (*staleJobRecovererSrv)(nil)

func NewStaleJobRecoverer(repo port.VideoRepository, cache port.Cache) port.StaleJobRecoverer {
	return &staleJobRecovererSrv{repo: repo, cache: cache, now: time.Now}
}

// RecoverStaleJobs fails jobs stuck in processing since before now-olderThan,
// which happens when a worker dies mid-run, and jobs still pending since then,
// which happens when a queued job is dropped. It returns how many were failed.
func (s *staleJobRecovererSrv) RecoverStaleJobs(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		olderThan = DefaultStaleJobAge
	}
	now := s.now()

	jobs, err := s.repo.ListStaleJobs(ctx, now.Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	recovered := 0
	var errs []error
	for _, job := range jobs {
		if err := abandon(job, now); err != nil {
			errs = append(errs, fmt.Errorf("job #%s: %w", job.ID, err))
			continue
		}

		video, err := s.repo.GetByID(ctx, job.VideoID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = s.repo.UpdateJob(ctx, job)
		case err != nil:
		case video.CurrentJobID != nil && *video.CurrentJobID == job.ID:
			video.MarkError()
			err = s.repo.SaveProcessingResult(ctx, video, job)
		default:
			err = s.repo.UpdateJob(ctx, job)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("job #%s: %w", job.ID, err))
			continue
		}

		recovered++
		if s.cache != nil {
			_ = s.cache.DeleteVideoDetails(ctx, job.VideoID)
		}
		logger.Warnf(ctx, "⚠️  failed stale job #%s of video #%s", job.ID, job.VideoID)
	}

	metrics.StaleJobsRecoveredTotal.Add(float64(recovered))
	if len(errs) > 0 {
		return recovered, fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return recovered, nil
}

func abandon(job *model.ProcessingJob, now time.Time) error {
	if job.Status == model.JobStatusPending {
		return job.Abandon(now, lostJobFailureMessage)
	}
	return job.Fail(now, staleJobFailureMessage)
}

// RunStaleJobRecovery recovers once immediately, then every interval until ctx is done.
func RunStaleJobRecovery(ctx context.Context, r port.StaleJobRecoverer, interval, olderThan time.Duration) {
	recoverOnce := func() {
		n, err := r.RecoverStaleJobs(ctx, olderThan)
		if err != nil {
			logger.Errorf(ctx, "❌ stale job recovery failed after %d jobs: %v", n, err)
			return
		}
		if n > 0 {
			logger.Infof(ctx, "✅ recovered %d stale jobs", n)
		}
	}

	recoverOnce()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			recoverOnce()
		}
	}
}
