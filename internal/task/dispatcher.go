package task

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Dispatcher struct {
	client  enqueuer
	timeout time.Duration
}

// compile-time check: *Dispatcher must satisfy port.JobSubmitter
var _ port.JobSubmitter = (*Dispatcher)(nil)

// NewDispatcher enqueues on the given Redis. A positive jobTimeout bounds each
// task run on the worker side; zero keeps asynq's default.
func NewDispatcher(addr, password string, jobTimeout time.Duration) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c, timeout: jobTimeout}
}

func (d *Dispatcher) Submit(ctx context.Context, videoID, jobID uuid.UUID) error {
	t, err := NewProcessVideoTask(videoID.String(), jobID.String())
	if err != nil {
		return err
	}
	var opts []asynq.Option
	if d.timeout > 0 {
		opts = append(opts, asynq.Timeout(d.timeout))
	}
	if _, err := d.client.EnqueueContext(ctx, t, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			logger.Warnf(ctx, "⚠️  job #%s is already queued", jobID)
			return nil
		}
		return err
	}
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
