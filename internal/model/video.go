package model

import (
	"time"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusError      VideoStatus = "error"
)

// IsValid reports whether s is one of the known video statuses.
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusProcessing, VideoStatusReady, VideoStatusError:
		return true
	}
	return false
}

type Video struct {
	ID                  uuid.UUID   `json:"id"`
	Title               string      `json:"title"`
	BlobURL             string      `json:"file_path"`
	BlobPathname        *string     `json:"blob_pathname,omitempty"`
	ThumbnailURL        *string     `json:"thumbnail_path"`
	ContentType         string      `json:"content_type"`
	SizeBytes           int64       `json:"size_bytes"`
	DurationSeconds     *int        `json:"duration"`
	Status              VideoStatus `json:"status"`
	UploadCompleted     bool        `json:"upload_completed"`
	ProcessingCompleted bool        `json:"processing_completed"`
	CurrentJobID        *uuid.UUID  `json:"current_job_id,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// NewVideo returns a video whose bytes are already durably stored and which
// waits for its first processing run.
func NewVideo(id uuid.UUID, title, blobURL, contentType string, size int64) *Video {
	return &Video{
		ID:              id,
		Title:           title,
		BlobURL:         blobURL,
		ContentType:     contentType,
		SizeBytes:       size,
		Status:          VideoStatusProcessing,
		UploadCompleted: true,
	}
}

// MarkReady records a successful processing run.
func (v *Video) MarkReady(thumbnailURL string, duration int) {
	v.ThumbnailURL = &thumbnailURL
	v.DurationSeconds = &duration
	v.Status = VideoStatusReady
	v.ProcessingCompleted = true
}

// MarkError records a failed processing run. Thumbnail and duration stay unset.
func (v *Video) MarkError() {
	v.ThumbnailURL = nil
	v.DurationSeconds = nil
	v.Status = VideoStatusError
	v.ProcessingCompleted = true
}

// ResetForProcessing puts a finished video back into processing for a new job.
func (v *Video) ResetForProcessing(jobID uuid.UUID) {
	v.ThumbnailURL = nil
	v.DurationSeconds = nil
	v.Status = VideoStatusProcessing
	v.ProcessingCompleted = false
	v.CurrentJobID = &jobID
}
