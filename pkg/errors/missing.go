package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CheckMissing scans a matrix for NaN entries and returns a
// MissingValueError naming the first offending cell. The toolbox contract
// disallows missing values in predictor matrices, so constructors call this
// before any solver invocation.
func CheckMissing(op string, X mat.Matrix) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(X.At(i, j)) {
				return NewMissingValueError(op, i, j)
			}
		}
	}
	return nil
}

// CheckFinite scans a slice for NaN or Inf and reports the first offender
// through a ValidationError.
func CheckFinite(param string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValidationError(param, "must contain only finite values", v)
		}
	}
	return nil
}
