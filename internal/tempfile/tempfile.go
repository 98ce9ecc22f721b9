package tempfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/metrics"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/google/uuid"
)

// DefaultDirName is the scratch directory created under os.TempDir() when none is configured.
const DefaultDirName = "video-processing-server"

// Manager owns one scratch directory and the files allocated in it.
type Manager struct {
	root string
	now  func() time.Time
}

// compile-time check: *Manager must satisfy port.TempFiles
var _ port.TempFiles = (*Manager)(nil)

// New creates the scratch root if absent. An empty root selects the default location.
func New(root string) (*Manager, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), DefaultDirName)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir %q: %w", root, err)
	}
	return &Manager{root: root, now: time.Now}, nil
}

func (m *Manager) Root() string {
	return m.root
}

// Allocate returns a fresh path named {prefix}-{token}{ext}. Nothing is created on disk.
func (m *Manager) Allocate(prefix, ext string) string {
	return filepath.Join(m.root, fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext))
}

// Release removes path. Failures are logged only.
func (m *Manager) Release(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warnf(ctx, "⚠️  failed to remove temp file %q: %v", path, err)
		return
	}
	logger.Debugf(ctx, "released temp file %q", path)
}

// Sweep deletes regular files under the scratch root last modified more than maxAge ago.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0, fmt.Errorf("read scratch dir %q: %w", m.root, err)
	}

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.root, e.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf(ctx, "⚠️  failed to sweep stale temp file %q: %v", path, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		metrics.ScratchFilesSweptTotal.Add(float64(removed))
		logger.Infof(ctx, "swept %d stale temp file(s) from %q", removed, m.root)
	}
	return removed, nil
}

// RunSweeper sweeps once immediately, then every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	if _, err := m.Sweep(ctx, maxAge); err != nil {
		logger.Warnf(ctx, "⚠️  temp sweep failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx, maxAge); err != nil {
				logger.Warnf(ctx, "⚠️  temp sweep failed: %v", err)
			}
		}
	}
}
