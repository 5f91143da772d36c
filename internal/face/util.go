package face

import (
	"math"
)

// EyeAngle returns the angle of the line from the left to the right eye in radians.
func EyeAngle(eyes Areas) float64 {
	if len(eyes) < 2 {
		return 0
	}

	left, right := eyes[0], eyes[1]

	if left.Col > right.Col {
		left, right = right, left
	}

	return math.Atan2(float64(right.Row-left.Row), float64(right.Col-left.Col))
}

func Max64(a float64, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
