package port

import (
	"context"
	"io"
)

// StoredObject describes an object written to object storage.
type StoredObject struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// ObjectStore abstracts the blob service: upload bytes and get a URL back,
// fetch bytes by URL, delete by URL.
type ObjectStore interface {
	InitBucket(ctx context.Context) error
	Put(ctx context.Context, r io.Reader, size int64, contentType, folder string) (StoredObject, error)
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	// Delete is best-effort and reports whether the object is gone.
	Delete(ctx context.Context, url string) bool
}
