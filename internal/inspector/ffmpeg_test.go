package inspector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers ffprobe with probeOut and runs onFFmpeg for ffmpeg calls.
type fakeRunner struct {
	probeOut    string
	probeErr    error
	probeStderr string
	onFFmpeg    func(args []string) ([]byte, error)
	calls       []call
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if name == "ffprobe" {
		return []byte(f.probeOut), []byte(f.probeStderr), f.probeErr
	}
	if f.onFFmpeg != nil {
		stderr, err := f.onFFmpeg(args)
		return nil, stderr, err
	}
	return nil, nil, nil
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestProbeDuration(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		err      error
		stderr   string
		want     int
		wantFail bool
	}{
		{name: "floors fraction", out: "10.987\n", want: 10},
		{name: "exact", out: "42.000000", want: 42},
		{name: "unknown", out: "N/A", want: 0},
		{name: "empty", out: "", want: 0},
		{name: "garbage", out: "abc", want: 0},
		{name: "tool failure", err: errors.New("exit status 1"), stderr: "moov atom not found", wantFail: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRunner{probeOut: tc.out, probeErr: tc.err, probeStderr: tc.stderr}
			got, err := New(Config{}, r).ProbeDuration(context.Background(), "/tmp/x.mp4")
			if tc.wantFail {
				if !errors.Is(err, video.ErrExtractionFailed) {
					t.Fatalf("err = %v; want ErrExtractionFailed", err)
				}
				if !strings.Contains(err.Error(), "moov atom not found") {
					t.Errorf("diagnostic missing from %q", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("duration = %d; want %d", got, tc.want)
			}
			if r.calls[0].args[len(r.calls[0].args)-1] != "/tmp/x.mp4" {
				t.Errorf("ffprobe args = %v", r.calls[0].args)
			}
		})
	}
}

func TestExtractFrame_Success(t *testing.T) {
	out := filepath.Join(t.TempDir(), "thumb.jpg")
	r := &fakeRunner{
		probeOut: "20.0",
		onFFmpeg: func(args []string) ([]byte, error) {
			return nil, os.WriteFile(args[len(args)-1], []byte("jpeg"), 0o644)
		},
	}

	got, err := New(Config{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}, r).
		ExtractFrame(context.Background(), "/tmp/in.mp4", out, 0.10, 320)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != out {
		t.Errorf("path = %q; want %q", got, out)
	}
	if len(r.calls) != 2 || r.calls[1].name != "ffmpeg" {
		t.Fatalf("calls = %+v", r.calls)
	}
	args := r.calls[1].args
	if ss := argAfter(args, "-ss"); ss != "2.000" {
		t.Errorf("-ss = %q; want 2.000 (10%% of 20s)", ss)
	}
	if vf := argAfter(args, "-vf"); vf != "scale=320:-2" {
		t.Errorf("-vf = %q; want scale=320:-2", vf)
	}
	if n := argAfter(args, "-frames:v"); n != "1" {
		t.Errorf("-frames:v = %q; want 1", n)
	}
}

func TestExtractFrame_Failures(t *testing.T) {
	tests := []struct {
		name     string
		probeErr error
		onFFmpeg func(args []string) ([]byte, error)
		wantDiag string
	}{
		{
			name:     "probe fails",
			probeErr: errors.New("exit status 1"),
		},
		{
			name: "ffmpeg fails after partial write",
			onFFmpeg: func(args []string) ([]byte, error) {
				_ = os.WriteFile(args[len(args)-1], []byte("half"), 0o644)
				return []byte("Invalid data found when processing input"), errors.New("exit status 1")
			},
			wantDiag: "Invalid data found",
		},
		{
			name: "ffmpeg writes nothing",
			onFFmpeg: func(args []string) ([]byte, error) {
				return nil, nil
			},
			wantDiag: "no frame",
		},
		{
			name: "ffmpeg writes empty file",
			onFFmpeg: func(args []string) ([]byte, error) {
				return nil, os.WriteFile(args[len(args)-1], nil, 0o644)
			},
			wantDiag: "no frame",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "thumb.jpg")
			r := &fakeRunner{probeOut: "5", probeErr: tc.probeErr, onFFmpeg: tc.onFFmpeg}

			_, err := New(Config{}, r).ExtractFrame(context.Background(), "/tmp/in.mp4", out, 0.1, 320)
			if !errors.Is(err, video.ErrExtractionFailed) {
				t.Fatalf("err = %v; want ErrExtractionFailed", err)
			}
			if tc.wantDiag != "" && !strings.Contains(err.Error(), tc.wantDiag) {
				t.Errorf("err = %q; want to contain %q", err, tc.wantDiag)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("no output file may remain after a failure")
			}
		})
	}
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	<-ctx.Done()
	return nil, nil, ctx.Err()
}

func TestRun_Timeout(t *testing.T) {
	f := New(Config{Timeout: 20 * time.Millisecond}, blockingRunner{})

	start := time.Now()
	_, err := f.ProbeDuration(context.Background(), "/tmp/in.mp4")
	if !errors.Is(err, video.ErrExtractionFailed) {
		t.Fatalf("err = %v; want ErrExtractionFailed", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %q; want a timeout diagnostic", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout was not applied")
	}
}
