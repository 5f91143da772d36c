package face

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/photoprism/agender/internal/thumb"
)

// AlignOptions configure the aligned face chip.
type AlignOptions struct {
	Size    int
	Padding float64
}

// DefaultAlignOptions returns a 140 pixel chip with 40% padding.
func DefaultAlignOptions() AlignOptions {
	return AlignOptions{Size: 140, Padding: 0.4}
}

// Box is a bounding box in original image coordinates.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// NewBox converts a rectangle.
func NewBox(r image.Rectangle) Box {
	return Box{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// Aligned is a square face image and its source position.
type Aligned struct {
	Image    *image.NRGBA
	Box      Box
	Detected bool
	Faces    int
}

// Align returns an aligned chip if exactly one face was detected. With zero
// or several faces, the whole image is letterboxed to the same size and the
// box covers the full image.
func Align(img image.Image, d Detector, opt AlignOptions) (result Aligned, err error) {
	if opt.Size <= 0 {
		return result, fmt.Errorf("faces: aligned size must be > 0")
	}

	faces, err := d.Detect(img)

	if err != nil {
		return result, err
	}

	result.Faces = faces.Count()

	if faces.Count() == 1 {
		f := faces[0]
		result.Image = Chip(img, f, opt)
		result.Box = NewBox(f.Rect())
		result.Detected = true

		return result, nil
	}

	b := img.Bounds()

	result.Image = thumb.Letterbox(img, opt.Size)
	result.Box = Box{Left: 0, Top: 0, Right: b.Dx(), Bottom: b.Dy()}

	return result, nil
}

// Chip warps the face region to an upright square of opt.Size pixels. The
// eye line is leveled and opt.Padding times the face size is added on every side.
func Chip(img image.Image, f Face, opt AlignOptions) *image.NRGBA {
	b := img.Bounds()
	size := float64(opt.Size)
	side := Max64(float64(f.Size())*(1+2*opt.Padding), 1)
	theta := EyeAngle(f.Eyes)

	cx := float64(b.Min.X + f.Area.Col)
	cy := float64(b.Min.Y + f.Area.Row)

	s := size / side
	a := s * math.Cos(theta)
	c := s * math.Sin(theta)

	// Maps source to destination: translate to center, rotate by -theta, scale.
	s2d := f64.Aff3{
		a, c, size/2 - a*cx - c*cy,
		-c, a, size/2 + c*cx - a*cy,
	}

	dst := imaging.New(opt.Size, opt.Size, thumb.Black)
	draw.CatmullRom.Transform(dst, s2d, img, b, draw.Src, nil)

	return dst
}
