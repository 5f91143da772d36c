package face

import (
	"image"
)

// Face represents a detected face in an image of Rows x Cols pixels.
type Face struct {
	Rows  int   `json:"rows,omitempty"`
	Cols  int   `json:"cols,omitempty"`
	Score int   `json:"score,omitempty"`
	Area  Area  `json:"face,omitempty"`
	Eyes  Areas `json:"eyes,omitempty"`
}

// Size returns the face size in pixels.
func (f Face) Size() int {
	return f.Area.Scale
}

// Rect returns the face bounding box in original image coordinates, clipped to the image.
func (f Face) Rect() image.Rectangle {
	r := f.Area.Rect()

	if f.Rows > 0 && f.Cols > 0 {
		r = r.Intersect(image.Rect(0, 0, f.Cols, f.Rows))
	}

	return r
}

// Faces represents a list of faces detected.
type Faces []Face

// Append adds a face.
func (faces *Faces) Append(f Face) {
	*faces = append(*faces, f)
}

// Count returns the number of faces detected.
func (faces Faces) Count() int {
	return len(faces)
}
