package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

type job struct {
	videoID uuid.UUID
	jobID   uuid.UUID
}

// Pool runs processing jobs in-process on a fixed number of goroutines fed by
// a bounded queue.
type Pool struct {
	processor port.VideoProcessor
	queue     chan job
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// compile-time check: *Pool must satisfy port.JobSubmitter
var _ port.JobSubmitter = (*Pool)(nil)

// NewPool starts concurrency workers. A jobTimeout of zero leaves runs unbounded.
func NewPool(processor port.VideoProcessor, concurrency, queueSize int, jobTimeout time.Duration) *Pool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		processor: processor,
		queue:     make(chan job, queueSize),
		timeout:   jobTimeout,
	}
	p.wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go p.loop()
	}
	return p
}

// Submit queues a job. It blocks while the queue is full and gives up with
// ErrQueueFull once ctx is done.
func (p *Pool) Submit(ctx context.Context, videoID, jobID uuid.UUID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return video.ErrPoolClosed
	}

	select {
	case p.queue <- job{videoID: videoID, jobID: jobID}:
		logger.Debugf(ctx, "queued processing job #%s for video #%s", jobID, videoID)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", video.ErrQueueFull, ctx.Err())
	}
}

// Shutdown stops accepting jobs and waits for queued ones to drain or ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for j := range p.queue {
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	// detached from the submitting request
	ctx := api_context.WithJobID(api_context.WithID(context.Background(), j.videoID), j.jobID)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "❌ processing of video #%s panicked: %v", j.videoID, r)
		}
	}()

	if err := p.processor.ProcessVideo(ctx, j.videoID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Errorf(ctx, "❌ processing of video #%s timed out after %s", j.videoID, p.timeout)
			return
		}
		logger.Errorf(ctx, "❌ processing of video #%s failed: %v", j.videoID, err)
	}
}
