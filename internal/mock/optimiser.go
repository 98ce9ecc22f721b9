package mock

import (
	"io"
)

// ThumbnailOptimiser implements port.ThumbnailOptimiser for tests.
type ThumbnailOptimiser struct {
	Out         []byte
	ContentType string
	Err         error
	// Panic, when set, is raised instead of returning.
	Panic any

	GotInput []byte
	GotWidth int
	Called   bool
}

func (m *ThumbnailOptimiser) Optimise(r io.Reader, maxWidth int) ([]byte, string, error) {
	m.Called = true
	m.GotInput, _ = io.ReadAll(r)
	m.GotWidth = maxWidth
	if m.Panic != nil {
		panic(m.Panic)
	}
	if m.Err != nil {
		return nil, "", m.Err
	}
	return m.Out, m.ContentType, nil
}
