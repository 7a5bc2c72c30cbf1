// Package preprocessing provides the data-standardization step used by the
// classifiers' Standardize option.
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/core/model"
	"github.com/scistats/classify/pkg/errors"
)

// StandardScaler centers each feature to zero mean and scales it to unit
// standard deviation. Features with zero variance are passed through
// unscaled so constant columns survive the transform.
type StandardScaler struct {
	state *model.StateManager

	// Mean and Scale are the per-feature statistics learned by Fit,
	// exported for gob.
	Mean  []float64
	Scale []float64

	WithMean bool
	WithStd  bool
}

// NewStandardScaler creates a scaler; withMean and withStd control whether
// centering and scaling are applied.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a scaler that both centers and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// IsFitted reports whether Fit has completed.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// Fit learns per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		var sum float64
		for i := 0; i < r; i++ {
			sum += X.At(i, j)
		}
		mean := sum / float64(r)

		var sq float64
		for i := 0; i < r; i++ {
			d := X.At(i, j) - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(r))

		s.Mean[j] = mean
		if std == 0 {
			std = 1
		}
		s.Scale[j] = std
	}

	s.state.SetFitted(r, c)
	return nil
}

// Transform standardizes X with the statistics learned by Fit.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	_, nFeatures := s.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithMean {
				v -= s.Mean[j]
			}
			if s.WithStd {
				v /= s.Scale[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// FitTransform fits the scaler and returns the transformed matrix.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized values back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	_, nFeatures := s.state.Dimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", nFeatures, c, 1)
	}

	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if s.WithStd {
				v *= s.Scale[j]
			}
			if s.WithMean {
				v += s.Mean[j]
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}
