package video

import (
	"context"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type videoDeleterSrv struct {
	repo  port.VideoRepository
	store port.ObjectStore
	cache port.Cache
}

// compile-time check: *videoDeleterSrv must satisfy port.VideoDeleter
var _ port.VideoDeleter = (*videoDeleterSrv)(nil)

func NewVideoDeleter(repo port.VideoRepository, store port.ObjectStore, cache port.Cache) port.VideoDeleter {
	return &videoDeleterSrv{repo: repo, store: store, cache: cache}
}

// DeleteVideo removes the stored objects, the record (jobs cascade) and the cache entry.
// Object removal is best-effort and never blocks the record deletion.
func (s *videoDeleterSrv) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	video, err := loadVideo(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if !s.store.Delete(ctx, video.BlobURL) {
		logger.Warnf(ctx, "⚠️  source of video #%s could not be removed from storage", id)
	}
	if video.ThumbnailURL != nil && *video.ThumbnailURL != "" {
		if !s.store.Delete(ctx, *video.ThumbnailURL) {
			logger.Warnf(ctx, "⚠️  thumbnail of video #%s could not be removed from storage", id)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteVideoDetails(ctx, id); err != nil {
			logger.Warnf(ctx, "⚠️  failed deleting cache for video #%s: %v", id, err)
		}
	}

	logger.Infof(ctx, "🗑️ deleted video #%s", id)
	return nil
}
