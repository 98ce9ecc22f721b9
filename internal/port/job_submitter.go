package port

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// JobSubmitter hands a pending processing job over to whatever runs the pipeline.
type JobSubmitter interface {
	Submit(ctx context.Context, videoID, jobID uuid.UUID) error
}
