package svm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/pkg/errors"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name       string
		formula    string
		response   string
		predictors []string
		wantErr    bool
	}{
		{"two predictors", "y ~ x1 + x2", "y", []string{"x1", "x2"}, false},
		{"single predictor", "label~feature", "label", []string{"feature"}, false},
		{"dot form", "y ~ .", "y", nil, false},
		{"extra whitespace", "  y  ~  x1  +  x2  ", "y", []string{"x1", "x2"}, false},
		{"missing tilde", "y x1 + x2", "", nil, true},
		{"double tilde", "y ~ x1 ~ x2", "", nil, true},
		{"empty response", " ~ x1", "", nil, true},
		{"multi-word response", "y z ~ x1", "", nil, true},
		{"empty predictor side", "y ~ ", "", nil, true},
		{"empty term", "y ~ x1 + + x2", "", nil, true},
		{"duplicate term", "y ~ x1 + x1", "", nil, true},
		{"response as predictor", "y ~ y + x1", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, predictors, err := ParseFormula(tt.formula)
			if tt.wantErr {
				require.Error(t, err)
				var valErr *errors.ValidationError
				assert.True(t, errors.As(err, &valErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.response, response)
			assert.Equal(t, tt.predictors, predictors)
		})
	}
}

func TestNewTable(t *testing.T) {
	data := mat.NewDense(2, 3, []float64{1, 2, 0, 3, 4, 1})

	tbl, err := NewTable([]string{"x1", "x2", "y"}, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", "y"}, tbl.Names)

	_, err = NewTable([]string{"x1", "x2"}, data)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = NewTable([]string{"x1", "x1", "y"}, data)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = NewTable([]string{"x1", "", "y"}, data)
	assert.True(t, errors.As(err, &valErr))

	_, err = NewTable([]string{"y"}, nil)
	assert.Error(t, err)
}

func blobTable(t *testing.T, perClass int) *Table {
	t.Helper()

	X, Y := blobs(perClass)
	n := 2 * perClass
	data := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		data.Set(i, 0, X.At(i, 0))
		data.Set(i, 1, X.At(i, 1))
		data.Set(i, 2, Y.At(i, 0))
	}

	tbl, err := NewTable([]string{"x1", "x2", "y"}, data)
	require.NoError(t, err)
	return tbl
}

func TestTrainTable(t *testing.T) {
	tbl := blobTable(t, 10)

	m, err := TrainTable(tbl, "y ~ x1 + x2",
		Opt("KernelFunction", "linear"),
		Opt("BoxConstraint", 10.0),
	)
	require.NoError(t, err)

	X, Y := blobs(10)
	score, err := m.Score(X, Y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestTrainTableDotForm(t *testing.T) {
	tbl := blobTable(t, 10)

	m, err := TrainTable(tbl, "y ~ .", Opt("KernelFunction", "linear"))
	require.NoError(t, err)

	_, p := m.state.Dimensions()
	assert.Equal(t, 2, p)
}

func TestTrainTableMissingColumns(t *testing.T) {
	tbl := blobTable(t, 5)

	_, err := TrainTable(tbl, "z ~ x1")
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Formula", valErr.ParamName)

	_, err = TrainTable(tbl, "y ~ x9")
	assert.True(t, errors.As(err, &valErr))

	_, err = TrainTable(nil, "y ~ x1")
	assert.Error(t, err)
}
