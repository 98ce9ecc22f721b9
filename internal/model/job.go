package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

var ErrInvalidTransition = errors.New("job: invalid status transition")

// ProcessingJob is one attempt at deriving the thumbnail and duration of a video.
// Its status only moves pending -> processing -> completed|failed, or straight
// from pending to failed when the job is abandoned before it ever ran.
type ProcessingJob struct {
	ID           uuid.UUID  `json:"id"`
	VideoID      uuid.UUID  `json:"video_id"`
	Status       JobStatus  `json:"job_status"`
	ErrorMessage *string    `json:"error_message"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewProcessingJob(id, videoID uuid.UUID) *ProcessingJob {
	return &ProcessingJob{
		ID:      id,
		VideoID: videoID,
		Status:  JobStatusPending,
	}
}

func (j *ProcessingJob) IsActive() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusProcessing
}

func (j *ProcessingJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Start moves a pending job to processing.
func (j *ProcessingJob) Start(now time.Time) error {
	if err := j.expect(JobStatusPending, JobStatusProcessing); err != nil {
		return err
	}
	j.Status = JobStatusProcessing
	j.StartedAt = &now
	return nil
}

// Succeed moves a processing job to completed.
func (j *ProcessingJob) Succeed(now time.Time) error {
	if err := j.expect(JobStatusProcessing, JobStatusCompleted); err != nil {
		return err
	}
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	return nil
}

// Fail moves a processing job to failed and records why.
func (j *ProcessingJob) Fail(now time.Time, msg string) error {
	if err := j.expect(JobStatusProcessing, JobStatusFailed); err != nil {
		return err
	}
	if msg == "" {
		msg = "processing failed"
	}
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.ErrorMessage = &msg
	return nil
}

// Abandon fails a job that never left pending.
func (j *ProcessingJob) Abandon(now time.Time, msg string) error {
	if err := j.expect(JobStatusPending, JobStatusFailed); err != nil {
		return err
	}
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.ErrorMessage = &msg
	return nil
}

func (j *ProcessingJob) expect(from, to JobStatus) error {
	if j.Status != from {
		return fmt.Errorf("%w: %s -> %s (job #%s)", ErrInvalidTransition, j.Status, to, j.ID)
	}
	return nil
}
