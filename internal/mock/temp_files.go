package mock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// TempFiles implements port.TempFiles inside Dir, which tests point at t.TempDir().
type TempFiles struct {
	Dir string

	// captured inputs
	Allocated []string
	Released  []string
}

func (m *TempFiles) Allocate(prefix, ext string) string {
	p := filepath.Join(m.Dir, fmt.Sprintf("%s-%d%s", prefix, len(m.Allocated), ext))
	m.Allocated = append(m.Allocated, p)
	return p
}

func (m *TempFiles) Release(ctx context.Context, path string) {
	m.Released = append(m.Released, path)
	_ = os.Remove(path)
}
