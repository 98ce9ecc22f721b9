package port

import "io"

// ThumbnailOptimiser shrinks an extracted frame before it is uploaded.
type ThumbnailOptimiser interface {
	Optimise(r io.Reader, maxWidth int) ([]byte, string, error)
}
