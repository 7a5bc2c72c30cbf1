package svm

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/internal/solver"
	"github.com/scistats/classify/pkg/errors"
)

const predictOp = "svm.Predict"

// predictConfig holds the options recognized by the predict entry points.
type predictConfig struct {
	probability bool
}

// parsePredictOptions validates predict-time name/value pairs against their
// own closed set. Unrecognized names are rejected, matching the documented
// contract.
func parsePredictOptions(op string, opts []Option) (predictConfig, error) {
	var cfg predictConfig
	for _, o := range opts {
		switch strings.ToLower(o.Name) {
		case "probabilityestimates":
			b, err := boolValue(op, "ProbabilityEstimates", o.Value)
			if err != nil {
				return predictConfig{}, err
			}
			cfg.probability = b
		default:
			return predictConfig{}, errors.NewUnknownOptionError(op, o.Name)
		}
	}
	return cfg, nil
}

// validatePredictInput applies the full documented contract: the model must
// be fitted, the input non-empty and NaN-free, and the feature count must
// match training.
func (m *Model) validatePredictInput(op string, X mat.Matrix) (*mat.Dense, error) {
	if m == nil || m.state == nil || !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVMModel", "Predict")
	}
	if X == nil {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	_, p := m.state.Dimensions()
	if c != p {
		return nil, errors.NewDimensionError(op, p, c, 1)
	}
	if err := errors.CheckMissing(op, X); err != nil {
		return nil, err
	}

	Xd := mat.DenseCopyOf(X)
	if m.Scaler != nil {
		return m.Scaler.Transform(Xd)
	}
	return Xd, nil
}

// Predict classifies each row of X and returns one label per observation.
// The only recognized predict option is ProbabilityEstimates; when it is on
// the labels come from the probability path, which requires a model trained
// with ProbabilityEstimates.
func (m *Model) Predict(X mat.Matrix, opts ...Option) (*mat.VecDense, error) {
	pcfg, err := parsePredictOptions(predictOp, opts)
	if err != nil {
		return nil, err
	}
	Xd, err := m.validatePredictInput(predictOp, X)
	if err != nil {
		return nil, err
	}

	if pcfg.probability {
		_, labels, err := m.predictProbability(predictOp, Xd)
		if err != nil {
			return nil, err
		}
		return labels, nil
	}

	n, p := Xd.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, solver.Predict(m.svmModel, rowNodes(Xd, i, p)))
	}
	return out, nil
}

// DecisionFunction returns the raw pairwise decision values, one row per
// observation and one column per class pair (a single column for one-class
// models).
func (m *Model) DecisionFunction(X mat.Matrix) (*mat.Dense, error) {
	Xd, err := m.validatePredictInput("svm.DecisionFunction", X)
	if err != nil {
		return nil, err
	}

	nPairs := m.NClasses * (m.NClasses - 1) / 2
	if m.Config.SVMType == OneClass {
		nPairs = 1
	}
	if nPairs == 0 {
		nPairs = 1
	}

	n, p := Xd.Dims()
	out := mat.NewDense(n, nPairs, nil)
	values := make([]float64, nPairs)
	for i := 0; i < n; i++ {
		solver.PredictValues(m.svmModel, rowNodes(Xd, i, p), values)
		out.SetRow(i, values)
	}
	return out, nil
}

// PredictProba returns class-membership probability estimates, one column
// per class in Classes order. The model must have been trained with
// ProbabilityEstimates.
func (m *Model) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	const op = "svm.PredictProba"
	Xd, err := m.validatePredictInput(op, X)
	if err != nil {
		return nil, err
	}
	proba, _, err := m.predictProbability(op, Xd)
	if err != nil {
		return nil, err
	}
	return proba, nil
}

func (m *Model) predictProbability(op string, Xd *mat.Dense) (*mat.Dense, *mat.VecDense, error) {
	if !m.Config.Probability || len(m.ProbA) == 0 {
		return nil, nil, errors.NewModelError(op,
			"model was not trained with ProbabilityEstimates", nil)
	}

	n, p := Xd.Dims()
	proba := mat.NewDense(n, m.NClasses, nil)
	labels := mat.NewVecDense(n, nil)
	estimates := make([]float64, m.NClasses)
	for i := 0; i < n; i++ {
		labels.SetVec(i, solver.PredictProbability(m.svmModel, rowNodes(Xd, i, p), estimates))
		proba.SetRow(i, estimates)
	}
	return proba, labels, nil
}
