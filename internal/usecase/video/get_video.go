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

type videoGetterSrv struct {
	repo port.VideoRepository
}

// compile-time check: *videoGetterSrv must satisfy port.VideoGetter
var _ port.VideoGetter = (*videoGetterSrv)(nil)

func NewVideoGetter(repo port.VideoRepository) port.VideoGetter {
	return &videoGetterSrv{repo: repo}
}

func (s *videoGetterSrv) GetVideo(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	return loadVideo(ctx, s.repo, id)
}

func loadVideo(ctx context.Context, repo port.VideoRepository, id uuid.UUID) (*model.Video, error) {
	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return video, nil
}
