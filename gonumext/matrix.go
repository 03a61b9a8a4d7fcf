package gonumext

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NaNOrInf checks if there are any NaN or Inf in matrix
func NaNOrInf(matrix mat.Matrix) bool {
	m, n := matrix.Dims()
	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if math.IsNaN(matrix.At(row, col)) || math.IsInf(matrix.At(row, col), 0) {
				return true
			}
		}
	}
	return false
}

// SliceNaNOrInf checks if there are any NaN or Inf in x
func SliceNaNOrInf(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// StrictlyIncreasing reports whether x[i] < x[i+1] for every i.
func StrictlyIncreasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return false
		}
	}
	return true
}

// Variance returns the sample variance of x with MATLAB var semantics:
// a single element has variance 0 and an empty slice has variance NaN.
// gonum's stat.Variance returns NaN for a single element which breaks
// two-sample Poincaré windows.
func Variance(x []float64) float64 {
	switch len(x) {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(x)-1)
}

// Diff returns the first difference x[i+1] - x[i].
func Diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	res := make([]float64, len(x)-1)
	for i := range res {
		res[i] = x[i+1] - x[i]
	}
	return res
}
