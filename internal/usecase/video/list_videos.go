package video

import (
	"context"
	"fmt"
	"math"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type videoListerSrv struct {
	repo port.VideoRepository
}

// compile-time check: *videoListerSrv must satisfy port.VideoLister
var _ port.VideoLister = (*videoListerSrv)(nil)

func NewVideoLister(repo port.VideoRepository) port.VideoLister {
	return &videoListerSrv{repo: repo}
}

// ListVideos returns one page of videos, newest first. Zero page or limit
// select the defaults.
func (s *videoListerSrv) ListVideos(ctx context.Context, in port.ListVideosInput) (port.ListVideosOutput, error) {
	page, limit := in.Page, in.Limit
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return port.ListVideosOutput{}, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if limit < 1 || limit > MaxLimit {
		return port.ListVideosOutput{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}
	if page-1 > math.MaxInt32/limit {
		return port.ListVideosOutput{}, fmt.Errorf("%w: page is out of range", ErrInvalidInput)
	}
	if in.Status != nil && !in.Status.IsValid() {
		return port.ListVideosOutput{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
	}

	videos, total, err := s.repo.List(ctx, port.ListVideosFilter{
		Status: in.Status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return port.ListVideosOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if videos == nil {
		videos = []*model.Video{}
	}

	return port.ListVideosOutput{
		Videos:     videos,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}
