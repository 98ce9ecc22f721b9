package inspector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

// Config locates the ffmpeg binaries and bounds how long each call may run.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
}

type FFmpeg struct {
	cfg    Config
	runner CommandRunner
}

// compile-time check: *FFmpeg must satisfy port.MediaInspector
var _ port.MediaInspector = (*FFmpeg)(nil)

// New returns an inspector running the real binaries. A nil runner selects os/exec.
func New(cfg Config, runner CommandRunner) *FFmpeg {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &FFmpeg{cfg: cfg, runner: runner}
}

func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (int, error) {
	seconds, err := f.probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(seconds)), nil
}

func (f *FFmpeg) ExtractFrame(ctx context.Context, videoPath, outPath string, fraction float64, width int) (string, error) {
	if fraction < 0 || fraction >= 1 {
		fraction = 0.10
	}
	if width <= 0 {
		width = 320
	}

	duration, err := f.probe(ctx, videoPath)
	if err != nil {
		return "", err
	}
	offset := duration * fraction

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", width),
		"-q:v", "3",
		"-y", outPath,
	}
	logger.Debugf(ctx, "extracting frame at %.3fs from %q", offset, videoPath)

	_, stderr, err := f.run(ctx, f.cfg.FFmpegPath, args...)
	if err != nil {
		removePartial(ctx, outPath)
		return "", fmt.Errorf("%w: ffmpeg error: %v - %s", video.ErrExtractionFailed, err, diagnostic(stderr))
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		removePartial(ctx, outPath)
		return "", fmt.Errorf("%w: ffmpeg produced no frame at %.3fs - %s", video.ErrExtractionFailed, offset, diagnostic(stderr))
	}
	return outPath, nil
}

// probe returns the container duration in seconds, 0 when ffprobe cannot tell.
func (f *FFmpeg) probe(ctx context.Context, path string) (float64, error) {
	stdout, stderr, err := f.run(ctx, f.cfg.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe error: %v - %s", video.ErrExtractionFailed, err, diagnostic(stderr))
	}

	raw := strings.TrimSpace(string(stdout))
	if raw == "" || raw == "N/A" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, nil
	}
	return seconds, nil
}

func (f *FFmpeg) run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	stdout, stderr, err := f.runner.Run(ctx, name, args...)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", f.cfg.Timeout, err)
	}
	return stdout, stderr, err
}

func removePartial(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf(ctx, "⚠️  failed to remove partial frame %q: %v", path, err)
	}
}

func diagnostic(stderr []byte) string {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		return "no diagnostic output"
	}
	const max = 512
	if len(msg) > max {
		msg = msg[len(msg)-max:]
	}
	return msg
}
