package face

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime/debug"

	pigo "github.com/esimov/pigo/core"

	"github.com/photoprism/agender/pkg/fs"
)

// Detection parameters.
var (
	MinSize        = 20
	ScoreThreshold = float32(9.0)
	IoUThreshold   = 0.2
	ShiftFactor    = 0.1
	ScaleFactor    = 1.1
	Perturbs       = 63
)

// PigoDetector finds faces with a pixel intensity comparison cascade and
// localizes pupils with a second cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	puploc     *pigo.PuplocCascade
	minSize    int
	angle      float64
}

// NewPigoDetector loads the face finder and pupil localization cascades.
// Both files are required.
func NewPigoDetector(cascadeFile, puplocFile string) (*PigoDetector, error) {
	if !fs.FileExists(cascadeFile) {
		return nil, fmt.Errorf("faces: cascade file %s not found", filepath.Base(cascadeFile))
	}

	if !fs.FileExists(puplocFile) {
		return nil, fmt.Errorf("faces: pupil localization file %s not found", filepath.Base(puplocFile))
	}

	cascade, err := os.ReadFile(cascadeFile)

	if err != nil {
		return nil, fmt.Errorf("faces: %s", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)

	if err != nil {
		return nil, fmt.Errorf("faces: %s (unpack cascade)", err)
	}

	puplocCascade, err := os.ReadFile(puplocFile)

	if err != nil {
		return nil, fmt.Errorf("faces: %s", err)
	}

	plc, err := pigo.NewPuplocCascade().UnpackCascade(puplocCascade)

	if err != nil {
		return nil, fmt.Errorf("faces: %s (unpack puploc)", err)
	}

	log.Debugf("faces: loaded %s and %s", filepath.Base(cascadeFile), filepath.Base(puplocFile))

	return &PigoDetector{classifier: classifier, puploc: plc, minSize: MinSize}, nil
}

// Detect runs the detection algorithm over the provided source image.
func (d *PigoDetector) Detect(img image.Image) (faces Faces, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("faces: %s (panic)\nstack: %s", r, debug.Stack())
		}
	}()

	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y

	maxSize := cols

	if rows < cols {
		maxSize = rows
	}

	if maxSize < d.minSize {
		return faces, nil
	}

	imageParams := pigo.ImageParams{
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}

	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     maxSize,
		ShiftFactor: ShiftFactor,
		ScaleFactor: ScaleFactor,
		ImageParams: imageParams,
	}

	// The result contains quadruplets representing the row, column, scale and face score.
	dets := d.classifier.RunCascade(params, d.angle)

	// Calculate the intersection over union (IoU) of two clusters.
	dets = d.classifier.ClusterDetections(dets, IoUThreshold)

	for _, det := range dets {
		if det.Q < ScoreThreshold {
			continue
		}

		f := Face{
			Rows:  rows,
			Cols:  cols,
			Score: int(det.Q),
			Area:  NewArea("face", det.Row, det.Col, det.Scale),
		}

		f.Eyes = d.eyes(det, imageParams)

		faces.Append(f)
	}

	return faces, nil
}

// eyes localizes the left and right pupil of a detected face.
func (d *PigoDetector) eyes(det pigo.Detection, params pigo.ImageParams) (eyes Areas) {
	scale := float32(det.Scale)

	left := d.puploc.RunDetector(pigo.Puploc{
		Row:      det.Row - int(0.075*scale),
		Col:      det.Col - int(0.175*scale),
		Scale:    scale * 0.25,
		Perturbs: Perturbs,
	}, params, d.angle, false)

	right := d.puploc.RunDetector(pigo.Puploc{
		Row:      det.Row - int(0.075*scale),
		Col:      det.Col + int(0.185*scale),
		Scale:    scale * 0.25,
		Perturbs: Perturbs,
	}, params, d.angle, false)

	if left == nil || right == nil || left.Row <= 0 || left.Col <= 0 || right.Row <= 0 || right.Col <= 0 {
		return eyes
	}

	eyes = append(eyes,
		NewArea("eye_l", left.Row, left.Col, int(left.Scale)),
		NewArea("eye_r", right.Row, right.Col, int(right.Scale)),
	)

	return eyes
}
