package thumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterbox(t *testing.T) {
	t.Run("always square", func(t *testing.T) {
		for _, dim := range [][2]int{{40, 20}, {20, 40}, {33, 33}, {1, 50}, {200, 7}} {
			img := Letterbox(solid(dim[0], dim[1], red), 20)
			assert.Equal(t, 20, img.Bounds().Dx())
			assert.Equal(t, 20, img.Bounds().Dy())
		}
	})

	t.Run("wide image padded on top", func(t *testing.T) {
		img := Letterbox(solid(40, 20, red), 20)

		assertColor(t, img, 10, 2, Black)
		assertColor(t, img, 10, 17, red)
		assertColor(t, img, 1, 17, red)
		assertColor(t, img, 18, 17, red)
	})

	t.Run("narrow image padded on the right", func(t *testing.T) {
		img := Letterbox(solid(20, 40, red), 20)

		assertColor(t, img, 2, 10, red)
		assertColor(t, img, 17, 10, Black)
		assertColor(t, img, 2, 1, red)
		assertColor(t, img, 2, 18, red)
	})

	t.Run("square image not padded", func(t *testing.T) {
		img := Letterbox(solid(30, 30, red), 20)

		for _, p := range [][2]int{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {10, 10}} {
			assertColor(t, img, p[0], p[1], red)
		}
	})
}
