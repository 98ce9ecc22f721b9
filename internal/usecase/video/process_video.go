package video

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"runtime/debug"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/api_context"
	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/uuid"
)

const terminalWriteTimeout = 10 * time.Second

type videoProcessorSrv struct {
	repo      port.VideoRepository
	store     port.ObjectStore
	inspector port.MediaInspector
	temps     port.TempFiles
	optimiser port.ThumbnailOptimiser
	cache     port.Cache
	cfg       PipelineConfig
	now       func() time.Time
}

// compile-time check: *videoProcessorSrv must satisfy port.VideoProcessor
var _ port.VideoProcessor = (*videoProcessorSrv)(nil)

// NewVideoProcessor builds the ingestion pipeline. optimiser and cache may be nil.
func NewVideoProcessor(
	repo port.VideoRepository,
	store port.ObjectStore,
	inspector port.MediaInspector,
	temps port.TempFiles,
	optimiser port.ThumbnailOptimiser,
	cache port.Cache,
	cfg PipelineConfig,
) port.VideoProcessor {
	def := DefaultPipelineConfig()
	if cfg.FrameFraction <= 0 || cfg.FrameFraction >= 1 {
		cfg.FrameFraction = def.FrameFraction
	}
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = def.ThumbnailWidth
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = def.DownloadTimeout
	}
	return &videoProcessorSrv{
		repo:      repo,
		store:     store,
		inspector: inspector,
		temps:     temps,
		optimiser: optimiser,
		cache:     cache,
		cfg:       cfg,
		now:       time.Now,
	}
}

type pipelineResult struct {
	thumbnailURL string
	duration     int
}

// ProcessVideo runs the current job of a video to a terminal state.
// Pipeline failures are recorded on the job and the video, not returned. Only
// lookup, transition and persistence problems surface as errors.
func (s *videoProcessorSrv) ProcessVideo(ctx context.Context, id uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVideoNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	job, err := s.repo.GetCurrentJob(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	ctx = api_context.WithJobID(api_context.WithID(ctx, video.ID), job.ID)

	if err := job.Start(s.now()); err != nil {
		logger.Warnf(ctx, "⚠️  job #%s not started: %v", job.ID, err)
		return err
	}
	if err := s.repo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()
	started := time.Now()
	logger.Infof(ctx, "🚀 processing video #%s (job #%s)...", video.ID, job.ID)

	var scratch []string
	defer func() {
		for _, p := range scratch {
			s.temps.Release(ctx, p)
		}
	}()
	allocate := func(prefix, ext string) string {
		p := s.temps.Allocate(prefix, ext)
		scratch = append(scratch, p)
		return p
	}

	runErr := s.execute(ctx, video, job, allocate)

	outcome := metrics.OutcomeCompleted
	var finalErr error
	if runErr != nil {
		outcome = metrics.OutcomeFailed
		finalErr = s.fail(ctx, video, job, runErr)
	}
	metrics.JobsTotal.WithLabelValues(outcome).Inc()
	metrics.JobDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())

	s.invalidate(ctx, video.ID)
	return finalErr
}

// execute runs the pipeline and writes the completion. A panic is turned into
// an error so that the job still ends up failed.
func (s *videoProcessorSrv) execute(ctx context.Context, video *model.Video, job *model.ProcessingJob, allocate func(prefix, ext string) string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "❌ panic while processing video #%s: %v\n%s", video.ID, r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	res, err := s.run(ctx, video, allocate)
	if err != nil {
		return err
	}
	if err := s.complete(ctx, video, job, res); err != nil {
		if !s.store.Delete(detached(ctx), res.thumbnailURL) {
			logger.Warnf(ctx, "⚠️  orphaned thumbnail %q left in storage", res.thumbnailURL)
		}
		return err
	}
	return nil
}

func (s *videoProcessorSrv) run(ctx context.Context, video *model.Video, allocate func(prefix, ext string) string) (pipelineResult, error) {
	src := allocate("source", sourceExt(video.BlobURL))
	if err := s.download(ctx, video, src); err != nil {
		return pipelineResult{}, err
	}

	thumb := allocate("thumb", ".jpg")
	if _, err := s.inspector.ExtractFrame(ctx, src, thumb, s.cfg.FrameFraction, s.cfg.ThumbnailWidth); err != nil {
		return pipelineResult{}, fmt.Errorf("thumbnail extraction failed: %w", err)
	}

	duration, err := s.inspector.ProbeDuration(ctx, src)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("duration probe failed: %w", err)
	}

	data, contentType, err := s.thumbnail(ctx, thumb)
	if err != nil {
		return pipelineResult{}, err
	}
	obj, err := s.store.Put(ctx, bytes.NewReader(data), int64(len(data)), contentType, FolderThumbnails)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("thumbnail upload failed: %w", err)
	}

	return pipelineResult{thumbnailURL: obj.URL, duration: duration}, nil
}

func (s *videoProcessorSrv) download(ctx context.Context, video *model.Video, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DownloadTimeout)
	defer cancel()

	rc, err := s.store.Get(ctx, video.BlobURL)
	if err != nil {
		if errors.Is(err, ErrDownloadFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer func() { _ = rc.Close() }()

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: cannot create scratch file: %v", ErrDownloadFailed, err)
	}
	n, copyErr := io.Copy(f, rc)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		return fmt.Errorf("%w: %v", ErrDownloadFailed, copyErr)
	case closeErr != nil:
		return fmt.Errorf("%w: %v", ErrDownloadFailed, closeErr)
	case n == 0:
		return fmt.Errorf("%w: source is empty", ErrDownloadFailed)
	case video.SizeBytes > 0 && n < video.SizeBytes:
		return fmt.Errorf("%w: short download, got %d of %d bytes", ErrDownloadFailed, n, video.SizeBytes)
	}

	logger.Debugf(ctx, "downloaded %d bytes of video #%s into %q", n, video.ID, dst)
	return nil
}

// thumbnail returns the bytes to upload. An optimiser failure falls back to the raw frame.
func (s *videoProcessorSrv) thumbnail(ctx context.Context, framePath string) ([]byte, string, error) {
	raw, err := os.ReadFile(framePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: cannot read extracted frame: %v", ErrExtractionFailed, err)
	}
	if !s.cfg.Optimise || s.optimiser == nil {
		return raw, thumbnailContentType, nil
	}

	optimised, contentType, err := s.optimiser.Optimise(bytes.NewReader(raw), s.cfg.ThumbnailWidth)
	if err != nil {
		logger.Warnf(ctx, "⚠️  thumbnail optimisation skipped: %v", err)
		return raw, thumbnailContentType, nil
	}
	return optimised, contentType, nil
}

// complete writes the ready video and the completed job in one transaction.
// Both records are left untouched in memory when the write fails.
func (s *videoProcessorSrv) complete(ctx context.Context, video *model.Video, job *model.ProcessingJob, res pipelineResult) error {
	doneJob := *job
	if err := doneJob.Succeed(s.now()); err != nil {
		return err
	}
	readyVideo := *video
	readyVideo.MarkReady(res.thumbnailURL, res.duration)

	wctx, cancel := context.WithTimeout(detached(ctx), terminalWriteTimeout)
	defer cancel()
	if err := s.repo.SaveProcessingResult(wctx, &readyVideo, &doneJob); err != nil {
		return fmt.Errorf("%w: could not record completion: %v", ErrPersistence, err)
	}

	*job = doneJob
	*video = readyVideo
	logger.Infof(ctx, "✅ video #%s ready (%ds)", video.ID, res.duration)
	return nil
}

func (s *videoProcessorSrv) fail(ctx context.Context, video *model.Video, job *model.ProcessingJob, cause error) error {
	msg := cause.Error()
	if err := job.Fail(s.now(), msg); err != nil {
		return err
	}
	video.MarkError()

	wctx, cancel := context.WithTimeout(detached(ctx), terminalWriteTimeout)
	defer cancel()
	if err := s.repo.SaveProcessingResult(wctx, video, job); err != nil {
		logger.Errorf(ctx, "❌ could not record failure of job #%s: %v", job.ID, err)
		return fmt.Errorf("%w: could not record failure of job #%s: %v", ErrPersistence, job.ID, err)
	}

	logger.Warnf(ctx, "⚠️  processing of video #%s failed: %s", video.ID, msg)
	return nil
}

func (s *videoProcessorSrv) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteVideoDetails(detached(ctx), id); err != nil {
		logger.Warnf(ctx, "⚠️  failed deleting cache for video #%s: %v", id, err)
	}
}

// sourceExt keeps the extension of the source so ffmpeg can sniff the container.
func sourceExt(blobURL string) string {
	u, err := url.Parse(blobURL)
	if err != nil {
		return ".mp4"
	}
	ext := path.Ext(u.Path)
	if ext == "" || len(ext) > 6 {
		return ".mp4"
	}
	return ext
}
