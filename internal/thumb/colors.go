package thumb

import (
	"image"
	"runtime"
	"strings"

	"github.com/mandykoh/prism"
	"github.com/mandykoh/prism/displayp3"
	"github.com/mandykoh/prism/srgb"
)

// Profile represents a color profile name.
type Profile string

const (
	ProfileDisplayP3 Profile = "Display P3"
)

// Equal compares the color profile name case-insensitively.
func (p Profile) Equal(s string) bool {
	return strings.EqualFold(string(p), s)
}

// ToSRGB converts an image to sRGB colors.
func ToSRGB(img image.Image, profile Profile) image.Image {
	switch profile {
	case ProfileDisplayP3:
		in := prism.ConvertImageToNRGBA(img, runtime.NumCPU())
		out := image.NewNRGBA(in.Rect)

		for y := in.Rect.Min.Y; y < in.Rect.Max.Y; y++ {
			for x := in.Rect.Min.X; x < in.Rect.Max.X; x++ {
				inCol, alpha := displayp3.ColorFromNRGBA(in.NRGBAAt(x, y))
				outCol := srgb.ColorFromXYZ(inCol.ToXYZ())
				out.SetNRGBA(x, y, outCol.ToNRGBA(alpha))
			}
		}

		return out
	}

	return img
}
