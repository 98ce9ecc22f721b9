package video

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

// submitJob hands a freshly persisted pending job to the submitter. A job that
// cannot be queued is closed as failed right away so the video never sits in
// processing with nothing running it.
func submitJob(ctx context.Context, repo port.VideoRepository, submitter port.JobSubmitter, video *model.Video, job *model.ProcessingJob, now time.Time) error {
	err := submitter.Submit(ctx, video.ID, job.ID)
	if err == nil {
		metrics.JobsSubmittedTotal.WithLabelValues("queued").Inc()
		return nil
	}
	metrics.JobsSubmittedTotal.WithLabelValues("rejected").Inc()
	logger.Errorf(ctx, "❌ could not queue job #%s for video #%s: %v", job.ID, video.ID, err)

	_ = job.Start(now)
	_ = job.Fail(now, "could not be queued: "+err.Error())
	video.MarkError()
	if saveErr := repo.SaveProcessingResult(detached(ctx), video, job); saveErr != nil {
		logger.Errorf(ctx, "❌ could not record rejected job #%s: %v", job.ID, saveErr)
	}

	return fmt.Errorf("failed to queue processing job: %w", err)
}

// detached keeps request values but drops cancellation, for writes that must
// land even when the caller has gone.
func detached(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
