package video

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/model"
	"github.com/fhuszti/videos-ms-go/internal/port"
)

type videoCreatorSrv struct {
	repo      port.VideoRepository
	store     port.ObjectStore
	submitter port.JobSubmitter
	genID     port.UUIDGen
	now       func() time.Time
}

// compile-time check: *videoCreatorSrv must satisfy port.VideoCreator
var _ port.VideoCreator = (*videoCreatorSrv)(nil)

func NewVideoCreator(repo port.VideoRepository, store port.ObjectStore, submitter port.JobSubmitter, genID port.UUIDGen) port.VideoCreator {
	return &videoCreatorSrv{repo: repo, store: store, submitter: submitter, genID: genID, now: time.Now}
}

// CreateVideo stores the uploaded bytes, records the video with its first job
// and queues the job.
func (s *videoCreatorSrv) CreateVideo(ctx context.Context, in port.CreateVideoInput) (port.CreatedVideoOutput, error) {
	title := normaliseTitle(in.Title)
	if title == "" {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > MaxTitleLength {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, MaxTitleLength)
	}
	if in.Body == nil {
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	contentType := uploadContentType(in.ContentType, in.Filename)
	obj, err := s.store.Put(ctx, in.Body, in.Size, contentType, FolderVideos)
	if err != nil {
		return port.CreatedVideoOutput{}, fmt.Errorf("failed to store video: %w", err)
	}
	logger.Infof(ctx, "stored upload %q as %q (%d bytes)", in.Filename, obj.Key, obj.Size)

	video := model.NewVideo(s.genID(), title, obj.URL, contentType, obj.Size)
	key := obj.Key
	video.BlobPathname = &key
	job := model.NewProcessingJob(s.genID(), video.ID)

	if err := s.repo.CreateWithJob(ctx, video, job); err != nil {
		if !s.store.Delete(detached(ctx), obj.URL) {
			logger.Warnf(ctx, "⚠️  orphaned upload %q left in storage", obj.URL)
		}
		return port.CreatedVideoOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := submitJob(ctx, s.repo, s.submitter, video, job, s.now()); err != nil {
		return port.CreatedVideoOutput{}, err
	}

	return port.CreatedVideoOutput{ID: video.ID, Title: video.Title}, nil
}

// uploadContentType trusts the declared type unless it is missing or generic,
// then falls back to the filename extension.
func uploadContentType(declared, filename string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := videoTypesByExt[ext]; ok {
		return ct
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return RegisteredContentType
}

var videoTypesByExt = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
}
