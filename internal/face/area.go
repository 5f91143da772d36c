package face

import (
	"fmt"
	"image"
)

// Areas is a list of face landmark areas.
type Areas []Area

// Area represents a face or landmark position, Row and Col are the center.
type Area struct {
	Name  string `json:"name,omitempty"`
	Row   int    `json:"x,omitempty"`
	Col   int    `json:"y,omitempty"`
	Scale int    `json:"size,omitempty"`
}

// String returns the face landmark position as string.
func (a Area) String() string {
	return fmt.Sprintf("%d-%d-%d", a.Row, a.Col, a.Scale)
}

// NewArea returns new face landmark coordinates.
func NewArea(name string, row, col, scale int) Area {
	return Area{
		Name:  name,
		Row:   row,
		Col:   col,
		Scale: scale,
	}
}

// TopLeft returns the top left position of the area.
func (a Area) TopLeft() (int, int) {
	return a.Row - (a.Scale / 2), a.Col - (a.Scale / 2)
}

// Rect returns the area as rectangle in image coordinates.
func (a Area) Rect() image.Rectangle {
	row, col := a.TopLeft()

	return image.Rect(col, row, col+a.Scale, row+a.Scale)
}
