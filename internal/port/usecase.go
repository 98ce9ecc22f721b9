package port

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// VideoCreator stores an uploaded video and schedules its processing.
type VideoCreator interface {
	CreateVideo(ctx context.Context, in CreateVideoInput) (CreatedVideoOutput, error)
}
type CreateVideoInput struct {
	Title       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
type CreatedVideoOutput struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// VideoRegistrar records a video uploaded elsewhere and schedules its processing.
type VideoRegistrar interface {
	RegisterVideo(ctx context.Context, in RegisterVideoInput) (CreatedVideoOutput, error)
}
type RegisterVideoInput struct {
	BlobURL      string
	Title        string
	BlobSize     int64
	BlobPathname string
}

// VideoProcessor runs the ingestion pipeline for one video.
type VideoProcessor interface {
	ProcessVideo(ctx context.Context, id uuid.UUID) error
}

// VideoLister pages through videos.
type VideoLister interface {
	ListVideos(ctx context.Context, in ListVideosInput) (ListVideosOutput, error)
}
type ListVideosInput struct {
	Page   int
	Limit  int
	Status *model.VideoStatus
}
type ListVideosOutput struct {
	Videos     []*model.Video `json:"videos"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// VideoGetter returns a single video record.
type VideoGetter interface {
	GetVideo(ctx context.Context, id uuid.UUID) (*model.Video, error)
}

// VideoStatusGetter returns the current processing job of a video.
type VideoStatusGetter interface {
	GetVideoStatus(ctx context.Context, id uuid.UUID) (*model.ProcessingJob, error)
}

// VideoDeleter deletes a video, its jobs and its stored objects.
type VideoDeleter interface {
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

// VideoReprocessor starts a new processing job for a finished video.
type VideoReprocessor interface {
	ReprocessVideo(ctx context.Context, id uuid.UUID) (CreatedVideoOutput, error)
}

// StaleJobRecoverer fails jobs left in processing by a crashed run.
type StaleJobRecoverer interface {
	RecoverStaleJobs(ctx context.Context, olderThan time.Duration) (int, error)
}
