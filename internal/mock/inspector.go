package mock

import (
	"context"
	"os"
)

// MediaInspector implements port.MediaInspector for tests. A successful
// ExtractFrame writes FrameData to the requested path.
type MediaInspector struct {
	// stored values
	DurationOut int
	FrameData   []byte

	// captured inputs
	GotProbePath string
	GotVideoPath string
	GotOutPath   string
	GotFraction  float64
	GotWidth     int

	// errors
	ProbeErr   error
	ExtractErr error

	// call flags
	ProbeCalled   bool
	ExtractCalled bool
}

func (m *MediaInspector) ProbeDuration(ctx context.Context, path string) (int, error) {
	m.ProbeCalled = true
	m.GotProbePath = path
	if m.ProbeErr != nil {
		return 0, m.ProbeErr
	}
	return m.DurationOut, nil
}

func (m *MediaInspector) ExtractFrame(ctx context.Context, videoPath, outPath string, fraction float64, width int) (string, error) {
	m.ExtractCalled = true
	m.GotVideoPath = videoPath
	m.GotOutPath = outPath
	m.GotFraction = fraction
	m.GotWidth = width
	if m.ExtractErr != nil {
		return "", m.ExtractErr
	}
	data := m.FrameData
	if data == nil {
		data = []byte("frame")
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}
