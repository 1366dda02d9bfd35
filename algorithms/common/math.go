package common

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// ClampNegative replaces every negative element with zero in place
func ClampNegative(data []float64) {
	for i, v := range data {
		if v < 0 {
			data[i] = 0.0
		}
	}
}

// NearlyEqual reports whether a and b differ by less than tol
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
