package mock

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// JobSubmitter implements port.JobSubmitter for tests.
type JobSubmitter struct {
	Err error

	Called     bool
	GotVideoID uuid.UUID
	GotJobID   uuid.UUID
}

func (m *JobSubmitter) Submit(ctx context.Context, videoID, jobID uuid.UUID) error {
	m.Called = true
	m.GotVideoID = videoID
	m.GotJobID = jobID
	return m.Err
}
