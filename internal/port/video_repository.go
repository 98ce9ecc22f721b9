package port

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// ListVideosFilter narrows and pages a video listing.
type ListVideosFilter struct {
	Status *model.VideoStatus
	Offset int
	Limit  int
}

// VideoRepository defines persistence operations for videos and their processing jobs.
type VideoRepository interface {
	// CreateWithJob inserts the video and its first job, and points the video at it.
	CreateWithJob(ctx context.Context, video *model.Video, job *model.ProcessingJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)
	List(ctx context.Context, filter ListVideosFilter) ([]*model.Video, int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetCurrentJob(ctx context.Context, videoID uuid.UUID) (*model.ProcessingJob, error)
	UpdateJob(ctx context.Context, job *model.ProcessingJob) error
	// SaveProcessingResult writes the terminal state of both records in one transaction.
	SaveProcessingResult(ctx context.Context, video *model.Video, job *model.ProcessingJob) error
	// StartNewJob inserts a job and makes it the video's current one, provided the
	// current job is still previousJobID. Otherwise nothing is written.
	StartNewJob(ctx context.Context, video *model.Video, job *model.ProcessingJob, previousJobID *uuid.UUID) error
	// ListStaleJobs returns jobs processing since before the cutoff, and pending
	// jobs created before it.
	ListStaleJobs(ctx context.Context, before time.Time) ([]*model.ProcessingJob, error)
}
