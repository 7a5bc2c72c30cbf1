// Package metrics provides evaluation metrics for the classification-model
// family. The Score methods of the model objects are thin wrappers over
// Accuracy.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/pkg/errors"
)

// AUC computes the area under the ROC curve for binary labels.
// yTrue must contain only 0 and 1. Ties in yPred receive half credit.
// Degenerate inputs with a single class present return 0.5.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewModelError("metrics.AUC", "empty input", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewModelError("metrics.AUC", "empty input", errors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.AUC", n, yPred.Len(), 0)
	}

	var pos, neg []float64
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 0:
			neg = append(neg, yPred.AtVec(i))
		case 1:
			pos = append(pos, yPred.AtVec(i))
		default:
			return 0, errors.NewValidationError("yTrue", "labels must be 0 or 1", yTrue.AtVec(i))
		}
	}

	// AUC is undefined with a single class; 0.5 is the conventional answer.
	if len(pos) == 0 || len(neg) == 0 {
		return 0.5, nil
	}

	var score float64
	for _, p := range pos {
		for _, q := range neg {
			switch {
			case p > q:
				score += 1
			case p == q:
				score += 0.5
			}
		}
	}
	return score / float64(len(pos)*len(neg)), nil
}

// AUCMatrix computes AUC over the first column of matrix inputs.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := firstColumn("metrics.AUC", yTrue)
	if err != nil {
		return 0, err
	}
	pv, err := firstColumn("metrics.AUC", yPred)
	if err != nil {
		return 0, err
	}
	return AUC(tv, pv)
}

// BinaryLogLoss computes the mean negative log-likelihood of binary labels
// under predicted probabilities. Probabilities are clipped to
// [eps, 1-eps] to keep the loss finite at 0 and 1.
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewModelError("metrics.BinaryLogLoss", "empty input", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewModelError("metrics.BinaryLogLoss", "empty input", errors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.BinaryLogLoss", n, yPred.Len(), 0)
	}

	const eps = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		label := yTrue.AtVec(i)
		if label != 0 && label != 1 {
			return 0, errors.NewValidationError("yTrue", "labels must be 0 or 1", label)
		}
		p := math.Min(math.Max(yPred.AtVec(i), eps), 1-eps)
		if label == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}

// ClassificationError returns the fraction of misclassified observations.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// Accuracy returns the fraction of exact label matches.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewModelError("metrics.Accuracy", "empty input", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewModelError("metrics.Accuracy", "empty input", errors.ErrEmptyData)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.Accuracy", n, yPred.Len(), 0)
	}

	var correct int
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewModelError(op, "nil input", errors.ErrEmptyData)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
