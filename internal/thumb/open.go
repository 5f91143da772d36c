package thumb

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/mandykoh/prism/meta"
	"github.com/mandykoh/prism/meta/autometa"
)

// Open decodes an image file with EXIF orientation applied. The format is
// sniffed from the file header, so misnamed files are handled too.
func Open(fileName string) (image.Image, error) {
	if fileName == "" {
		return nil, fmt.Errorf("thumb: file name missing")
	}

	kind, err := filetype.MatchFile(fileName)

	if err != nil {
		return nil, fmt.Errorf("thumb: %s", err)
	}

	if kind.MIME.Value == "image/jpeg" {
		return OpenJpeg(fileName)
	}

	return imaging.Open(fileName, imaging.AutoOrientation(true))
}

// OpenJpeg decodes a JPEG file and converts Display P3 colors to sRGB.
func OpenJpeg(fileName string) (image.Image, error) {
	f, err := os.Open(fileName)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	name := filepath.Base(fileName)
	md, stream, err := autometa.Load(f)

	if err != nil {
		log.Warnf("thumb: %s in %s (read color metadata)", err, name)

		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}

		md, stream = nil, f
	}

	img, err := imaging.Decode(stream, imaging.AutoOrientation(true))

	if err != nil {
		return nil, err
	}

	return convertProfile(img, md, name), nil
}

// convertProfile returns img in sRGB if the embedded ICC profile is known.
func convertProfile(img image.Image, md *meta.Data, name string) image.Image {
	if md == nil {
		return img
	}

	icc, err := md.ICCProfile()

	if err != nil || icc == nil {
		log.Tracef("thumb: %s has no color profile", name)
		return img
	}

	desc, err := icc.Description()

	if err != nil || desc == "" {
		return img
	}

	log.Tracef("thumb: %s has color profile %s", name, desc)

	if ProfileDisplayP3.Equal(desc) {
		return ToSRGB(img, ProfileDisplayP3)
	}

	return img
}
