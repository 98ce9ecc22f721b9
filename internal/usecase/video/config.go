package video

import (
	"strings"
	"time"
)

const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"

	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	MaxTitleLength = 255

	RegisteredContentType = "video/mp4"
	thumbnailContentType  = "image/jpeg"
)

// PipelineConfig tunes one orchestration run.
type PipelineConfig struct {
	FrameFraction   float64
	ThumbnailWidth  int
	Optimise        bool
	DownloadTimeout time.Duration
}

// DefaultPipelineConfig grabs a 320px wide frame at 10% of the video.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		FrameFraction:   0.10,
		ThumbnailWidth:  320,
		Optimise:        true,
		DownloadTimeout: 5 * time.Minute,
	}
}

func defaultTitle(now time.Time) string {
	return "Video " + now.UTC().Format(time.RFC3339)
}

func normaliseTitle(title string) string {
	return strings.TrimSpace(title)
}
