package thumb

import (
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	t.Run("png", func(t *testing.T) {
		fileName := filepath.Join(dir, "a.png")
		f, err := os.Create(fileName)
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, solid(12, 8, red)))
		f.Close()

		img, err := Open(fileName)
		require.NoError(t, err)
		assert.Equal(t, 12, img.Bounds().Dx())
		assert.Equal(t, 8, img.Bounds().Dy())
	})

	t.Run("jpeg", func(t *testing.T) {
		fileName := filepath.Join(dir, "b.jpg")
		f, err := os.Create(fileName)
		require.NoError(t, err)
		require.NoError(t, jpeg.Encode(f, solid(16, 10, red), &jpeg.Options{Quality: 95}))
		f.Close()

		img, err := Open(fileName)
		require.NoError(t, err)
		assert.Equal(t, 16, img.Bounds().Dx())
		assertColor(t, img, 8, 5, red)

		ff, err := Load(fileName, 8)
		require.NoError(t, err)
		assert.Len(t, ff, 8*8*Channels)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "missing.jpg"))
		assert.Error(t, err)

		_, err = Open("")
		assert.Error(t, err)
	})

	t.Run("corrupt", func(t *testing.T) {
		fileName := filepath.Join(dir, "c.jpg")
		require.NoError(t, os.WriteFile(fileName, []byte("garbage"), 0644))

		_, err := Open(fileName)
		assert.Error(t, err)
	})
}

func TestProfile_Equal(t *testing.T) {
	assert.True(t, ProfileDisplayP3.Equal("display p3"))
	assert.False(t, ProfileDisplayP3.Equal("sRGB"))
}
