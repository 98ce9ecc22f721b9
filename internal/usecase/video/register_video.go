package video

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type videoRegistrarSrv struct {
	repo      port.VideoRepository
	submitter port.JobSubmitter
	genID     port.UUIDGen
	now       func() time.Time
}

// compile-time check: *videoRegistrarSrv must satisfy port.VideoRegistrar
var _ port.VideoRegistrar = (*videoRegistrarSrv)(nil)

func NewVideoRegistrar(repo port.VideoRepository, submitter port.JobSubmitter, genID port.UUIDGen) port.VideoRegistrar {
	return &videoRegistrarSrv{repo: repo, submitter: submitter, genID: genID, now: time.Now}
}

// RegisterVideo records a video whose bytes already live at BlobURL.
func (s *videoRegistrarSrv) RegisterVideo(ctx context.Context, in port.RegisterVideoInput) (port.CreatedVideoOutput, error) {
	if err := validateBlobURL(in.BlobURL); err != nil {
		return port.CreatedVideoOutput{}, err
	}
	if in.BlobSize < 0 {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: blobSize must not be negative", ErrInvalidInput)
	}

	title := normaliseTitle(in.Title)
	if title == "" {
		title = defaultTitle(s.now())
	}
	if len(title) > MaxTitleLength {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxTitleLength)
	}

	video := model.NewVideo(s.genID(), title, in.BlobURL, RegisteredContentType, in.BlobSize)
	if in.BlobPathname != "" {
		pathname := in.BlobPathname
		video.BlobPathname = &pathname
	}
	job := model.NewProcessingJob(s.genID(), video.ID)

	if err := s.repo.CreateWithJob(ctx, video, job); err != nil {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := submitJob(ctx, s.repo, s.submitter, video, job, s.now()); err != nil {
		return port.CreatedVideoOutput{}, err
	}

	return port.CreatedVideoOutput{ID: video.ID, Title: video.Title}, nil
}

func validateBlobURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: blobUrl is required", ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: blobUrl must be an absolute http(s) URL", ErrInvalidInput)
	}
	return nil
}
