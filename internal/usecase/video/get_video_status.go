package video

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type videoStatusGetterSrv struct {
	repo port.VideoRepository
}

// compile-time check: *videoStatusGetterSrv must satisfy port.VideoStatusGetter
var _ port.VideoStatusGetter = (*videoStatusGetterSrv)(nil)

func NewVideoStatusGetter(repo port.VideoRepository) port.VideoStatusGetter {
	return &videoStatusGetterSrv{repo: repo}
}

// GetVideoStatus returns the job the video currently points at.
func (s *videoStatusGetterSrv) GetVideoStatus(ctx context.Context, id uuid.UUID) (*model.ProcessingJob, error) {
	video, err := loadVideo(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if video.CurrentJobID == nil {
		return nil, ErrJobNotFound
	}

	job, err := s.repo.GetCurrentJob(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return job, nil
}
