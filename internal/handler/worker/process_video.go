package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/task"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

// ProcessVideoHandler handles a process-video task.
// It converts the incoming task payload to the input expected by
// the video processor and delegates the call.
func ProcessVideoHandler(ctx context.Context, p task.ProcessVideoPayload, svc port.VideoProcessor) error {
	id, err := uuid.Parse(p.VideoID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid video ID %q: %v", p.VideoID, err)
		return fmt.Errorf("invalid video ID %q: %w", p.VideoID, err)
	}
	ctx = api_context.WithID(ctx, id)
	if jobID, err := uuid.Parse(p.JobID); err == nil {
		ctx = api_context.WithJobID(ctx, jobID)
	}

	if err := svc.ProcessVideo(ctx, id); err != nil {
		logger.Errorf(ctx, "❌  Failed to process video #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Processed video #%s", id)
	return nil
}
