package api_context

import (
	"context"

	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type ctxKey string

const (
	IDKey    ctxKey = "id"
	JobIDKey ctxKey = "jobID"
)

// WithID returns a copy of ctx carrying the video ID.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, IDKey, id)
}

func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IDKey).(uuid.UUID)
	return id, ok
}

// WithJobID returns a copy of ctx carrying the processing job ID.
func WithJobID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, JobIDKey, id)
}

func JobIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(JobIDKey).(uuid.UUID)
	return id, ok
}
