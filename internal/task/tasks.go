package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeProcessVideo = "video:process"

type ProcessVideoPayload struct {
	VideoID string `json:"video_id"`
	JobID   string `json:"job_id"`
}

// NewProcessVideoTask creates an Asynq task for processing a video by ID.
// The job ID doubles as the task ID so a job is never queued twice.
func NewProcessVideoTask(videoID, jobID string) (*asynq.Task, error) {
	p := ProcessVideoPayload{VideoID: videoID, JobID: jobID}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-video payload: %w", err)
	}
	return asynq.NewTask(TypeProcessVideo, data, asynq.TaskID(jobID), asynq.MaxRetry(0)), nil
}

// ParseProcessVideoPayload parses the task payload to ProcessVideoPayload.
func ParseProcessVideoPayload(t *asynq.Task) (ProcessVideoPayload, error) {
	var p ProcessVideoPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProcessVideoPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
