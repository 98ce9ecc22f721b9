package mock

import (
	"context"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// VideoRepository implements port.VideoRepository for tests.
type VideoRepository struct {
	// stored values
	VideoOut   *model.Video
	JobOut     *model.ProcessingJob
	ListOut    []*model.Video
	ListTotal  int
	StaleOut   []*model.ProcessingJob
	VideosByID map[uuid.UUID]*model.Video

	// captured inputs
	CreatedVideo    *model.Video
	CreatedJob      *model.ProcessingJob
	JobStatuses     []model.JobStatus
	SavedVideo      *model.Video
	SavedJob        *model.ProcessingJob
	StartedVideo    *model.Video
	StartedJob      *model.ProcessingJob
	DeletedID       uuid.UUID
	GotFilter       port.ListVideosFilter
	GotStaleBefore  time.Time
	SavedVideoState model.VideoStatus
	GotPreviousJobID *uuid.UUID

	// errors
	CreateErr     error
	GetErr        error
	ListErr       error
	DeleteErr     error
	GetJobErr     error
	UpdateJobErr  error
	SaveResultErr error
	StartJobErr   error
	ListStaleErr  error

	// call flags
	CreateCalled     bool
	GetCalled        bool
	ListCalled       bool
	DeleteCalled     bool
	GetJobCalled     bool
	UpdateJobCalled  bool
	SaveResultCalled bool
	StartJobCalled   bool
	ListStaleCalled  bool
}

func (m *VideoRepository) CreateWithJob(ctx context.Context, video *model.Video, job *model.ProcessingJob) error {
	m.CreateCalled = true
	m.CreatedVideo = video
	m.CreatedJob = job
	if m.CreateErr != nil {
		return m.CreateErr
	}
	video.CurrentJobID = &job.ID
	return nil
}

func (m *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if v, ok := m.VideosByID[id]; ok {
		return v, nil
	}
	return m.VideoOut, nil
}

func (m *VideoRepository) List(ctx context.Context, filter port.ListVideosFilter) ([]*model.Video, int, error) {
	m.ListCalled = true
	m.GotFilter = filter
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}
	return m.ListOut, m.ListTotal, nil
}

func (m *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalled = true
	m.DeletedID = id
	return m.DeleteErr
}

func (m *VideoRepository) GetCurrentJob(ctx context.Context, videoID uuid.UUID) (*model.ProcessingJob, error) {
	m.GetJobCalled = true
	if m.GetJobErr != nil {
		return nil, m.GetJobErr
	}
	return m.JobOut, nil
}

func (m *VideoRepository) UpdateJob(ctx context.Context, job *model.ProcessingJob) error {
	m.UpdateJobCalled = true
	m.JobStatuses = append(m.JobStatuses, job.Status)
	return m.UpdateJobErr
}

func (m *VideoRepository) SaveProcessingResult(ctx context.Context, video *model.Video, job *model.ProcessingJob) error {
	m.SaveResultCalled = true
	m.SavedVideo = video
	m.SavedJob = job
	m.SavedVideoState = video.Status
	return m.SaveResultErr
}

func (m *VideoRepository) StartNewJob(ctx context.Context, video *model.Video, job *model.ProcessingJob, previousJobID *uuid.UUID) error {
	m.StartJobCalled = true
	m.GotPreviousJobID = previousJobID
	m.StartedVideo = video
	m.StartedJob = job
	return m.StartJobErr
}

func (m *VideoRepository) ListStaleJobs(ctx context.Context, startedBefore time.Time) ([]*model.ProcessingJob, error) {
	m.ListStaleCalled = true
	m.GotStaleBefore = startedBefore
	if m.ListStaleErr != nil {
		return nil, m.ListStaleErr
	}
	return m.StaleOut, nil
}
