package fs

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePng(t *testing.T, fileName string) {
	t.Helper()

	f, err := os.Create(fileName)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "a.png")
	writePng(t, fileName)

	assert.True(t, FileExists(fileName))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
	assert.False(t, FileExists(""))
	assert.True(t, PathExists(dir))
	assert.False(t, PathExists(fileName))
}

func TestIsImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	txt := filepath.Join(dir, "b.txt")
	writePng(t, img)
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0644))

	assert.True(t, IsImage(img))
	assert.False(t, IsImage(txt))
	assert.False(t, IsImage(filepath.Join(dir, "missing.png")))
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	writePng(t, filepath.Join(dir, "sub", "b.png"))
	writePng(t, filepath.Join(dir, "a.PNG"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("x"), 0644))

	files, err := Files(dir, ".png")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "sub", "b.png")}, files)
}

func TestChecksum(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(fileName, []byte("hello"), 0644))

	assert.Equal(t, "9a71bb4c", Checksum(fileName))
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", Hash(fileName))
	assert.Equal(t, "", Checksum(filepath.Join(dir, "missing")))
	assert.Equal(t, "", Hash(filepath.Join(dir, "missing")))
}
