package mock

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	VideoOut []byte

	// etag values
	EtagVideo string

	// captured inputs
	GotTTL     time.Duration
	DeletedIDs []uuid.UUID

	// errors
	GetVideoErr     error
	GetEtagVideoErr error
	DelVideoErr     error

	// call flags
	GetVideoCalled     bool
	GetEtagVideoCalled bool
	SetVideoCalled     bool
	SetEtagVideoCalled bool
	DelVideoCalled     bool
}

func (c *Cache) GetVideoDetails(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c.GetVideoCalled = true
	if c.GetVideoErr != nil {
		return nil, c.GetVideoErr
	}
	return c.VideoOut, nil
}

func (c *Cache) GetEtagVideoDetails(ctx context.Context, id uuid.UUID) (string, error) {
	c.GetEtagVideoCalled = true
	if c.GetEtagVideoErr != nil {
		return "", c.GetEtagVideoErr
	}
	return c.EtagVideo, nil
}

func (c *Cache) SetVideoDetails(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
	c.SetVideoCalled = true
	c.VideoOut = data
	c.GotTTL = ttl
}

func (c *Cache) SetEtagVideoDetails(ctx context.Context, id uuid.UUID, etag string, ttl time.Duration) {
	c.SetEtagVideoCalled = true
	c.EtagVideo = etag
}

func (c *Cache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error {
	c.DelVideoCalled = true
	c.DeletedIDs = append(c.DeletedIDs, id)
	return c.DelVideoErr
}
