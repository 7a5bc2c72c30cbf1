package net

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/pkg/errors"
)

// blobs builds a linearly separable two-class dataset: class 0 clustered
// near (-1, -1), class 1 near (1, 1).
func blobs(perClass int) (*mat.Dense, *mat.Dense) {
	n := 2 * perClass
	X := mat.NewDense(n, 2, nil)
	Y := mat.NewDense(n, 1, nil)
	for i := 0; i < perClass; i++ {
		off := 0.05 * float64(i%5)
		X.Set(i, 0, -1+off)
		X.Set(i, 1, -1-off)
		Y.Set(i, 0, 0)

		X.Set(perClass+i, 0, 1-off)
		X.Set(perClass+i, 1, 1+off)
		Y.Set(perClass+i, 0, 1)
	}
	return X, Y
}

func ones(r, c int) *mat.Dense {
	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

func TestTrainSeparable(t *testing.T) {
	X, Y := blobs(10)
	m, err := Train(X, Y)
	require.NoError(t, err)

	assert.True(t, m.IsFitted())
	assert.Equal(t, 2, m.NClasses)
	assert.Equal(t, []float64{0, 1}, m.ClassNames)
	assert.Greater(t, m.Iterations, 0)
	assert.LessOrEqual(t, m.Iterations, m.Config.IterationLimit)

	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestTrainDeterministicSeed(t *testing.T) {
	X, Y := blobs(10)
	opts := []Option{Opt("RandomSeed", 42)}

	m1, err := Train(X, Y, opts...)
	require.NoError(t, err)
	m2, err := Train(X, Y, opts...)
	require.NoError(t, err)

	assert.Equal(t, m1.Loss, m2.Loss)
	assert.Equal(t, m1.Iterations, m2.Iterations)

	p1, err := m1.PredictProba(X)
	require.NoError(t, err)
	p2, err := m2.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(p1, p2))
}

func TestTrainActivations(t *testing.T) {
	X, Y := blobs(10)
	for _, activation := range []string{"relu", "tanh", "sigmoid"} {
		t.Run(activation, func(t *testing.T) {
			m, err := Train(X, Y,
				Opt("Activation", activation),
				Opt("IterationLimit", 2000),
			)
			require.NoError(t, err)

			score, err := m.Score(X, Y)
			require.NoError(t, err)
			assert.Equal(t, 1.0, score)
		})
	}
}

func TestTrainStandardize(t *testing.T) {
	// Shift and scale the blobs so standardization has real work to do.
	X, Y := blobs(10)
	n, _ := X.Dims()
	for i := 0; i < n; i++ {
		X.Set(i, 0, X.At(i, 0)*100+500)
		X.Set(i, 1, X.At(i, 1)*0.01)
	}

	m, err := Train(X, Y, Opt("Standardize", true))
	require.NoError(t, err)
	require.NotNil(t, m.Scaler)

	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestTrainValidation(t *testing.T) {
	X, Y := blobs(5)

	_, err := Train(ones(10, 2), ones(5, 1))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, dimErr.Axis)

	bad := ones(4, 2)
	bad.Set(1, 0, math.NaN())
	_, err = Train(bad, ones(4, 1))
	var missErr *errors.MissingValueError
	assert.True(t, errors.As(err, &missErr))

	_, err = Train(X, mat.NewDense(10, 1, []float64{0, 1, 0, 1, 0.5, 1, 0, 1, 0, 1}))
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Y", valErr.ParamName)

	_, err = Train(X, Y, Opt("LayerSizes", []int{0}))
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "LayerSizes", valErr.ParamName)

	_, err = Train(nil, Y)
	assert.Error(t, err)
}

func TestPredictProbaRowsSumToOne(t *testing.T) {
	X, Y := blobs(10)
	m, err := Train(X, Y)
	require.NoError(t, err)

	proba, err := m.PredictProba(X)
	require.NoError(t, err)

	r, c := proba.Dims()
	assert.Equal(t, 20, r)
	assert.Equal(t, 2, c)
	for i := 0; i < r; i++ {
		sum := proba.At(i, 0) + proba.At(i, 1)
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}
}

func TestPredictValidation(t *testing.T) {
	X, Y := blobs(10)
	m, err := Train(X, Y)
	require.NoError(t, err)

	_, err = m.Predict(ones(3, 7))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 7, dimErr.Got)
	assert.Equal(t, 1, dimErr.Axis)

	_, err = m.Predict(&mat.Dense{})
	assert.Error(t, err)

	var empty Model
	_, err = empty.Predict(ones(1, 2))
	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr))
}

func TestTrainThreeClasses(t *testing.T) {
	// Three well-separated clusters on a line.
	n := 30
	X := mat.NewDense(n, 1, nil)
	Y := mat.NewDense(n, 1, nil)
	for i := 0; i < 10; i++ {
		off := 0.05 * float64(i%5)
		X.Set(i, 0, -2+off)
		Y.Set(i, 0, 3)
		X.Set(10+i, 0, off)
		Y.Set(10+i, 0, 5)
		X.Set(20+i, 0, 2+off)
		Y.Set(20+i, 0, 9)
	}

	m, err := Train(X, Y, Opt("IterationLimit", 3000))
	require.NoError(t, err)

	// Class names come back sorted regardless of label values.
	assert.Equal(t, []float64{3, 5, 9}, m.Classes())

	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}
