package thumb

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/photoprism/agender/internal/event"
)

func TestMain(m *testing.M) {
	log = event.Log
	log.SetLevel(logrus.TraceLevel)

	code := m.Run()

	os.Exit(code)
}

var red = color.NRGBA{R: 255, A: 255}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

func assertColor(t *testing.T, img image.Image, x, y int, expected color.NRGBA) {
	t.Helper()

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

	assert.InDelta(t, expected.R, c.R, 12, "red at %d,%d", x, y)
	assert.InDelta(t, expected.G, c.G, 12, "green at %d,%d", x, y)
	assert.InDelta(t, expected.B, c.B, 12, "blue at %d,%d", x, y)
}
