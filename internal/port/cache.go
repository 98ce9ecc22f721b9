package port

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// Cache provides caching capabilities for video retrieval.
type Cache interface {
	GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error)
	SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration)
	SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration)
	DeleteVideoDetails(ctx context.Context, id uuid.UUID) error
}
