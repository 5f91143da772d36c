package face

import (
	"image"
)

// Detector finds faces in an image.
type Detector interface {
	Detect(img image.Image) (Faces, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(img image.Image) (Faces, error)

// Detect calls f(img).
func (f DetectorFunc) Detect(img image.Image) (Faces, error) {
	return f(img)
}
