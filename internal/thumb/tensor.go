package thumb

import (
	"fmt"
	"image"
)

// Channels is the number of color channels in a tensor.
const Channels = 3

// Tensor converts an image of size x size pixels to a float32 HWC tensor
// with RGB values scaled to [0, 1].
func Tensor(img image.Image, size int) ([]float32, error) {
	if size <= 0 {
		return nil, fmt.Errorf("thumb: size must be > 0")
	}

	b := img.Bounds()

	if b.Dx() != size || b.Dy() != size {
		return nil, fmt.Errorf("thumb: expected %dx%d image, got %dx%d", size, size, b.Dx(), b.Dy())
	}

	ff := make([]float32, size*size*Channels)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			base := (y*size + x) * Channels
			ff[base+0] = float32(r) / 65535.0
			ff[base+1] = float32(g) / 65535.0
			ff[base+2] = float32(bl) / 65535.0
		}
	}

	return ff, nil
}

// Load opens an image, letterboxes it to size and returns its tensor.
func Load(fileName string, size int) ([]float32, error) {
	img, err := Open(fileName)

	if err != nil {
		return nil, err
	}

	return Tensor(Letterbox(img, size), size)
}
