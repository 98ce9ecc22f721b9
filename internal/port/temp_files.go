package port

import "context"

// TempFiles hands out scratch file paths and removes them afterwards.
type TempFiles interface {
	Allocate(prefix, ext string) string
	Release(ctx context.Context, path string)
}
