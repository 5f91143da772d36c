package nets

import (
	"gonum.org/v1/gonum/floats"
)

// Targets encodes age and gender labels. Categorical kinds use one-hot
// vectors of 101 and 2 classes, regression kinds use single values.
func Targets(age, gender int, categorical bool) (ageTarget, genderTarget []float64) {
	if !categorical {
		return []float64{float64(age)}, []float64{float64(gender)}
	}

	return OneHot(age, AgeClasses), OneHot(gender, GenderClasses)
}

// OneHot returns a vector with 1 at index i, values outside the range are clamped.
func OneHot(i, classes int) []float64 {
	v := make([]float64, classes)

	if i < 0 {
		i = 0
	} else if i >= classes {
		i = classes - 1
	}

	v[i] = 1

	return v
}

// Argmax returns the index of the largest value.
func Argmax(v []float64) int {
	if len(v) == 0 {
		return 0
	}

	return floats.MaxIdx(v)
}

// Decode converts network outputs to an integer age and gender.
func Decode(age, gender []float64, categorical bool) (int, int) {
	if categorical {
		return Argmax(age), Argmax(gender)
	}

	a := 0
	g := 0

	if len(age) > 0 {
		a = int(age[0] + 0.5)
	}

	if a < 0 {
		a = 0
	}

	if len(gender) > 0 && gender[0] > 0.5 {
		g = 1
	}

	return a, g
}
