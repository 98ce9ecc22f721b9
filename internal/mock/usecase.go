package mock

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// VideoCreator implements port.VideoCreator for tests.
type VideoCreator struct {
	Out    port.CreatedVideoOutput
	Err    error
	Called bool
	In     port.CreateVideoInput
	Body   []byte
}

func (m *VideoCreator) CreateVideo(ctx context.Context, in port.CreateVideoInput) (port.CreatedVideoOutput, error) {
	m.Called = true
	m.In = in
	if in.Body != nil {
		m.Body, _ = io.ReadAll(in.Body)
	}
	return m.Out, m.Err
}

// VideoRegistrar implements port.VideoRegistrar for tests.
type VideoRegistrar struct {
	Out    port.CreatedVideoOutput
	Err    error
	Called bool
	In     port.RegisterVideoInput
}

func (m *VideoRegistrar) RegisterVideo(ctx context.Context, in port.RegisterVideoInput) (port.CreatedVideoOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// VideoProcessor implements port.VideoProcessor for tests.
type VideoProcessor struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *VideoProcessor) ProcessVideo(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// VideoLister implements port.VideoLister for tests.
type VideoLister struct {
	Out    port.ListVideosOutput
	Err    error
	Called bool
	In     port.ListVideosInput
}

func (m *VideoLister) ListVideos(ctx context.Context, in port.ListVideosInput) (port.ListVideosOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// VideoGetter implements port.VideoGetter for tests.
type VideoGetter struct {
	Out    *model.Video
	Err    error
	Called bool
	GotID  uuid.UUID
}

func (m *VideoGetter) GetVideo(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	m.Called = true
	m.GotID = id
	return m.Out, m.Err
}

// VideoStatusGetter implements port.VideoStatusGetter for tests.
type VideoStatusGetter struct {
	Out    *model.ProcessingJob
	Err    error
	Called bool
	GotID  uuid.UUID
}

func (m *VideoStatusGetter) GetVideoStatus(ctx context.Context, id uuid.UUID) (*model.ProcessingJob, error) {
	m.Called = true
	m.GotID = id
	return m.Out, m.Err
}

// VideoDeleter implements port.VideoDeleter for tests.
type VideoDeleter struct {
	Err    error
	Called bool
	GotID  uuid.UUID
}

func (m *VideoDeleter) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.GotID = id
	return m.Err
}

// VideoReprocessor implements port.VideoReprocessor for tests.
type VideoReprocessor struct {
	Out    port.CreatedVideoOutput
	Err    error
	Called bool
	GotID  uuid.UUID
}

func (m *VideoReprocessor) ReprocessVideo(ctx context.Context, id uuid.UUID) (port.CreatedVideoOutput, error) {
	m.Called = true
	m.GotID = id
	return m.Out, m.Err
}

// StaleJobRecoverer implements port.StaleJobRecoverer for tests.
type StaleJobRecoverer struct {
	Out          int
	Err          error
	Called       bool
	GotOlderThan time.Duration
}

func (m *StaleJobRecoverer) RecoverStaleJobs(ctx context.Context, olderThan time.Duration) (int, error) {
	m.Called = true
	m.GotOlderThan = olderThan
	return m.Out, m.Err
}
