package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), values)
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		score []float64
		want  float64
	}{
		{"perfect ranking", []float64{0, 0, 0, 1, 1, 1}, []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}, 1.0},
		{"inverted ranking", []float64{0, 0, 0, 1, 1, 1}, []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1}, 0.0},
		{"all ties score half", []float64{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}, 0.5},
		{"one misranked pair", []float64{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.75},
		// with a single class present the ranking is undefined; 0.5 by convention
		{"only positives", []float64{1, 1, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8}, 0.5},
		{"only negatives", []float64{0, 0, 0, 0}, []float64{0.1, 0.4, 0.35, 0.8}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(vec(tt.yTrue), vec(tt.score))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestAUCRejectsBadInput(t *testing.T) {
	// non-binary labels
	_, err := AUC(vec([]float64{0, 0.5, 1}), vec([]float64{0.1, 0.5, 0.9}))
	assert.Error(t, err)

	// length mismatch
	_, err = AUC(vec([]float64{0, 1}), vec([]float64{0.5}))
	assert.Error(t, err)

	// empty input
	_, err = AUC(nil, nil)
	assert.Error(t, err)
}

func TestAUCMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	score := mat.NewDense(4, 1, []float64{0.1, 0.4, 0.35, 0.8})

	got, err := AUCMatrix(yTrue, score)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-6)

	// extra columns are ignored; only the first column is ranked
	yTrueWide := mat.NewDense(4, 2, []float64{0, 9, 0, 9, 1, 9, 1, 9})
	scoreWide := mat.NewDense(4, 2, []float64{0.1, 9, 0.4, 9, 0.35, 9, 0.8, 9})
	got, err = AUCMatrix(yTrueWide, scoreWide)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-6)

	_, err = AUCMatrix(nil, mat.NewDense(1, 1, []float64{0.5}))
	assert.Error(t, err)
	_, err = AUCMatrix(&mat.Dense{}, &mat.Dense{})
	assert.Error(t, err)
}

func TestBinaryLogLoss(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		prob  []float64
		want  float64
	}{
		// hard 0/1 predictions are clipped away from log(0), so the loss
		// is a small epsilon rather than exactly zero
		{"perfect predictions", []float64{0, 0, 1, 1}, []float64{0, 0, 1, 1}, 0.0},
		{"confident and right", []float64{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}, 0.164252},
		{"confident and wrong", []float64{0, 0, 1, 1}, []float64{0.9, 0.9, 0.1, 0.1}, 2.3025851},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryLogLoss(vec(tt.yTrue), vec(tt.prob))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}

	_, err := BinaryLogLoss(vec([]float64{0, 0.5, 1}), vec([]float64{0.1, 0.5, 0.9}))
	assert.Error(t, err, "non-binary labels")
	_, err = BinaryLogLoss(nil, nil)
	assert.Error(t, err, "empty input")
}

func TestAccuracyAndClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		wantAcc float64
	}{
		{"all correct", []float64{0, 1, 2, 1, 0}, []float64{0, 1, 2, 1, 0}, 1.0},
		{"one of five wrong", []float64{0, 1, 2, 1, 0}, []float64{0, 1, 1, 1, 0}, 0.8},
		{"all wrong", []float64{0, 0, 0}, []float64{1, 1, 1}, 0.0},
		{"half wrong", []float64{0, 0, 1, 1}, []float64{0, 1, 1, 0}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accuracy(vec(tt.yTrue), vec(tt.yPred))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantAcc, acc, 1e-6)

			// the error rate is the exact complement
			cerr, err := ClassificationError(vec(tt.yTrue), vec(tt.yPred))
			require.NoError(t, err)
			assert.InDelta(t, 1-tt.wantAcc, cerr, 1e-6)
		})
	}

	_, err := Accuracy(nil, nil)
	assert.Error(t, err)
	_, err = ClassificationError(vec([]float64{0, 1}), vec([]float64{0}))
	assert.Error(t, err)
}

func TestLogLossWorstCaseMatchesClipBound(t *testing.T) {
	// a maximally wrong hard prediction costs -ln(eps) per observation;
	// with the 1e-15 clip that dominates any soft prediction
	loss, err := BinaryLogLoss(vec([]float64{1}), vec([]float64{0}))
	require.NoError(t, err)
	assert.Greater(t, loss, -math.Log(1e-14))
}
