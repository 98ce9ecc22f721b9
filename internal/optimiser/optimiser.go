package optimiser

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/videos-ms-go/internal/port"
	_ "golang.org/x/image/webp"
)

const (
	webpQuality     = 80
	webpContentType = "image/webp"
)

type Optimiser struct {
	webpEnc WebPEncoder
}

// compile-time check: *Optimiser must satisfy port.ThumbnailOptimiser
var _ port.ThumbnailOptimiser = (*Optimiser)(nil)

func NewOptimiser(webpEnc WebPEncoder) *Optimiser {
	if webpEnc == nil {
		webpEnc = NewWebPEncoder()
	}
	return &Optimiser{webpEnc: webpEnc}
}

// Optimise decodes a JPEG, PNG or WebP frame, scales it down to maxWidth
// when wider, and re-encodes it as lossy WebP.
func (o *Optimiser) Optimise(r io.Reader, maxWidth int) ([]byte, string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("optimiser: failed to decode image: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	buf := &bytes.Buffer{}
	if err := o.webpEnc.Encode(img, webpQuality, buf); err != nil {
		return nil, "", fmt.Errorf("optimiser: failed to encode WebP: %w", err)
	}
	return buf.Bytes(), webpContentType, nil
}
