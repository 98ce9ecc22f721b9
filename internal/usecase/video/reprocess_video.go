package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type videoReprocessorSrv struct {
	repo      port.VideoRepository
	store     port.ObjectStore
	submitter port.JobSubmitter
	cache     port.Cache
	genID     port.UUIDGen
	now       func() time.Time
}

// compile-time check: *videoReprocessorSrv must satisfy port.VideoReprocessor
var _ port.VideoReprocessor = (*videoReprocessorSrv)(nil)

func NewVideoReprocessor(repo port.VideoRepository, store port.ObjectStore, submitter port.JobSubmitter, cache port.Cache, genID port.UUIDGen) port.VideoReprocessor {
	return &videoReprocessorSrv{repo: repo, store: store, submitter: submitter, cache: cache, genID: genID, now: time.Now}
}

// ReprocessVideo starts a fresh job for a video whose current job is finished.
func (s *videoReprocessorSrv) ReprocessVideo(ctx context.Context, id uuid.UUID) (port.CreatedVideoOutput, error) {
	video, err := loadVideo(ctx, s.repo, id)
	if err != nil {
		return port.CreatedVideoOutput{}, err
	}

	current, err := s.repo.GetCurrentJob(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = nil
	case err != nil:
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if current != nil && current.IsActive() {
		return port.CreatedVideoOutput{}, ErrJobActive
	}

	previousJobID := video.CurrentJobID
	oldThumbnail := video.ThumbnailURL
	job := model.NewProcessingJob(s.genID(), video.ID)
	video.ResetForProcessing(job.ID)

	if err := s.repo.StartNewJob(ctx, video, job, previousJobID); err != nil {
		if errors.Is(err, ErrJobActive) {
			return port.CreatedVideoOutput{}, err
		}
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	logger.Infof(ctx, "reprocessing video #%s with job #%s", video.ID, job.ID)

	if oldThumbnail != nil && *oldThumbnail != "" && !s.store.Delete(ctx, *oldThumbnail) {
		logger.Warnf(ctx, "⚠️  previous thumbnail %q left in storage", *oldThumbnail)
	}
	if s.cache != nil {
		if err := s.cache.DeleteVideoDetails(ctx, id); err != nil {
			logger.Warnf(ctx, "⚠️  failed deleting cache for video #%s: %v", id, err)
		}
	}

	if err := submitJob(ctx, s.repo, s.submitter, video, job, s.now()); err != nil {
		return port.CreatedVideoOutput{}, err
	}
	return port.CreatedVideoOutput{ID: video.ID, Title: video.Title}, nil
}
