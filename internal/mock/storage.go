package mock

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/fhuszti/videos-ms-go/internal/port"
)

const StoreBaseURL = "https://store.local/videos"

// PutCall records one upload.
type PutCall struct {
	Folder      string
	ContentType string
	Size        int64
	Data        []byte
}

// ObjectStore implements port.ObjectStore for tests.
type ObjectStore struct {
	// stored values
	GetOut []byte

	// captured inputs
	Puts        []PutCall
	GotGetURL   string
	DeletedURLs []string

	// errors
	InitBucketErr error
	PutErr        error
	GetErr        error
	DeleteFails   bool

	// call flags
	InitBucketCalled bool
	GetCalled        bool
}

func (m *ObjectStore) InitBucket(ctx context.Context) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *ObjectStore) Put(ctx context.Context, r io.Reader, size int64, contentType, folder string) (port.StoredObject, error) {
	data, _ := io.ReadAll(r)
	m.Puts = append(m.Puts, PutCall{Folder: folder, ContentType: contentType, Size: size, Data: data})
	if m.PutErr != nil {
		return port.StoredObject{}, m.PutErr
	}
	key := folder + "/object-" + strings.Repeat("x", len(m.Puts))
	return port.StoredObject{URL: StoreBaseURL + "/" + key, Key: key, Size: int64(len(data))}, nil
}

func (m *ObjectStore) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	m.GetCalled = true
	m.GotGetURL = url
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return io.NopCloser(bytes.NewReader(m.GetOut)), nil
}

func (m *ObjectStore) Delete(ctx context.Context, url string) bool {
	m.DeletedURLs = append(m.DeletedURLs, url)
	return !m.DeleteFails
}
