package document

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Image is a decoded asset re-encoded as PNG for the canvas
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// HeightFor returns the display height at width w with the aspect ratio preserved
func (img *Image) HeightFor(w float64) float64 {
	if img.Width == 0 {
		return 0
	}
	return w * float64(img.Height) / float64(img.Width)
}

// LoadImage decodes a logo or signature file, honouring EXIF orientation
func LoadImage(path string) (*Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("image %s is empty", path)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image %s: %w", path, err)
	}

	return &Image{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
