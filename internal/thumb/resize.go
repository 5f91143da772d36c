package thumb

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Black is the letterbox fill color.
var Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Letterbox pads the shorter side with black to make the image square and
// resizes it to size x size with bicubic interpolation. Narrow images are
// padded on the right, wide images on the top, square images are not padded.
func Letterbox(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var square *image.NRGBA

	if w < h {
		square = imaging.New(h, h, Black)
		square = imaging.Paste(square, img, image.Pt(0, 0))
	} else {
		square = imaging.New(w, w, Black)
		square = imaging.Paste(square, img, image.Pt(0, w-h))
	}

	return imaging.Resize(square, size, size, imaging.CatmullRom)
}
