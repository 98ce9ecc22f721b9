package port

import "context"

// MediaInspector wraps the external media toolchain.
type MediaInspector interface {
	// ProbeDuration returns the duration in whole seconds, 0 when unknown.
	ProbeDuration(ctx context.Context, path string) (int, error)
	// ExtractFrame writes one frame taken at fraction of the duration,
	// scaled to width, into outPath and returns outPath.
	ExtractFrame(ctx context.Context, videoPath, outPath string, fraction float64, width int) (string, error)
}
