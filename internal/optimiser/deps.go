package optimiser

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

type WebPEncoder interface {
	Encode(img image.Image, quality int, w io.Writer) error
}

type chaiEncoder struct{}

func (chaiEncoder) Encode(img image.Image, quality int, w io.Writer) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}

// NewWebPEncoder returns the libwebp-backed encoder.
func NewWebPEncoder() WebPEncoder {
	return chaiEncoder{}
}
