package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 10,
		2, 10,
		4, 10,
		6, 10,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	// First column: mean 3, population std sqrt(5).
	assert.InDelta(t, 3.0, scaler.Mean[0], 1e-12)
	for i := 0; i < 4; i++ {
		// Column mean removed.
		assert.InDelta(t, 0.0, scaled.At(i, 1), 1e-12)
	}

	var sum, sq float64
	for i := 0; i < 4; i++ {
		sum += scaled.At(i, 0)
	}
	assert.InDelta(t, 0.0, sum, 1e-12)
	for i := 0; i < 4; i++ {
		sq += scaled.At(i, 0) * scaled.At(i, 0)
	}
	assert.InDelta(t, 4.0, sq, 1e-9) // unit variance over n samples
}

func TestStandardScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	// Zero-variance column: centered but not divided by zero.
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 0.0, scaled.At(i, 0), 1e-12)
	}
	assert.Equal(t, 1.0, scaler.Scale[0])
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	back, err := scaler.InverseTransform(scaled)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, X.At(i, j), back.At(i, j), 1e-9)
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	assert.Error(t, err)
}

func TestStandardScalerFeatureMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

	_, err := scaler.Transform(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}
