package net

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/core/model"
	"github.com/scistats/classify/metrics"
	"github.com/scistats/classify/pkg/errors"
	"github.com/scistats/classify/pkg/log"
	"github.com/scistats/classify/preprocessing"
)

const (
	trainOp   = "net.Train"
	predictOp = "net.Predict"
)

var _ model.Classifier = (*Model)(nil)

// Model is a trained neural-network classifier. It is created once per
// Train call and never mutated afterwards; Predict and its variants only
// read.
type Model struct {
	state *model.StateManager

	// Config is the resolved configuration the model was trained with.
	Config Config

	// ClassNames lists the distinct class labels in ascending order, the
	// column order of PredictProba.
	ClassNames []float64

	// NClasses is the number of distinct classes seen during training.
	NClasses int

	// Loss is the training loss at the final iteration.
	Loss float64

	// Iterations is the number of gradient-descent iterations performed,
	// at most IterationLimit.
	Iterations int

	// Scaler is non-nil when the Standardize option was on; prediction
	// inputs pass through it before reaching the network.
	Scaler *preprocessing.StandardScaler

	net *network
}

// Train validates the inputs and options, fits a feedforward network
// synchronously on the caller's goroutine, and returns the trained model.
// Any validation failure aborts before training starts and no model is
// produced.
//
// X is N observations by P features; Y is N class labels in a single
// column. With no options the defaults apply: one hidden layer of 10
// units, relu activation, LearnRate 0.1, IterationLimit 1000.
func Train(X, Y mat.Matrix, opts ...Option) (*Model, error) {
	start := time.Now()

	if X == nil || Y == nil {
		return nil, errors.NewModelError(trainOp, "empty input", errors.ErrEmptyData)
	}
	n, p := X.Dims()
	ny, cy := Y.Dims()
	if n == 0 || p == 0 {
		return nil, errors.NewModelError(trainOp, "empty input", errors.ErrEmptyData)
	}
	if cy != 1 {
		return nil, errors.NewDimensionError(trainOp, 1, cy, 1)
	}
	if ny != n {
		return nil, errors.NewDimensionError(trainOp, n, ny, 0)
	}
	if err := errors.CheckMissing(trainOp, X); err != nil {
		return nil, err
	}

	cfg, err := parseOptions(trainOp, opts)
	if err != nil {
		return nil, err
	}

	y := make([]float64, n)
	seen := make(map[float64]bool)
	for i := 0; i < n; i++ {
		v := Y.At(i, 0)
		if math.IsNaN(v) {
			return nil, errors.NewMissingValueError(trainOp, i, 0)
		}
		if v != math.Trunc(v) {
			return nil, errors.NewValidationError("Y", "class labels must be integer-valued", v)
		}
		y[i] = v
		seen[v] = true
	}

	classes := make([]float64, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Float64s(classes)
	index := make(map[float64]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	Xd := mat.DenseCopyOf(X)
	var scaler *preprocessing.StandardScaler
	if cfg.Standardize {
		scaler = preprocessing.NewStandardScalerDefault()
		Xd, err = scaler.FitTransform(Xd)
		if err != nil {
			return nil, err
		}
	}

	k := len(classes)
	T := mat.NewDense(n, k, nil)
	for i, v := range y {
		T.Set(i, index[v], 1)
	}

	logger := log.GetLogger().With(
		log.ModelNameKey, "NetModel",
		log.OperationKey, "train",
	)
	logger.Debug("starting gradient descent",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ClassesKey, k,
	)

	nw := newNetwork(p, cfg.LayerSizes, k, cfg.Activation, cfg.RandomSeed)
	loss, iters := nw.fit(Xd, T, cfg)

	m := &Model{
		state:      model.NewStateManager(),
		Config:     cfg,
		ClassNames: classes,
		NClasses:   k,
		Loss:       loss,
		Iterations: iters,
		Scaler:     scaler,
		net:        nw,
	}
	m.state.SetFitted(n, p)

	logger.Info("training complete",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ClassesKey, k,
		"iterations", iters,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// validatePredictInput applies the same contract as the svm package: the
// model must be fitted, the input non-empty and NaN-free, and the feature
// count must match training.
func (m *Model) validatePredictInput(op string, X mat.Matrix) (*mat.Dense, error) {
	if m == nil || m.state == nil || !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("NetModel", "Predict")
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

// Predict classifies each row of X and returns one label per observation,
// the class with the highest softmax probability.
func (m *Model) Predict(X mat.Matrix) (*mat.VecDense, error) {
	Xd, err := m.validatePredictInput(predictOp, X)
	if err != nil {
		return nil, err
	}

	proba := m.net.predict(Xd)
	n, k := proba.Dims()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		best := 0
		for j := 1; j < k; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		out.SetVec(i, m.ClassNames[best])
	}
	return out, nil
}

// PredictProba returns class-membership probabilities, one column per class
// in Classes order. Each row sums to 1 by construction of the softmax
// output.
func (m *Model) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	Xd, err := m.validatePredictInput("net.PredictProba", X)
	if err != nil {
		return nil, err
	}
	return m.net.predict(Xd), nil
}

// Classes returns the distinct class labels seen during training, in
// ascending order.
func (m *Model) Classes() []float64 {
	return append([]float64(nil), m.ClassNames...)
}

// IsFitted reports whether the constructor completed.
func (m *Model) IsFitted() bool {
	return m.state.IsFitted()
}

// Score returns the mean accuracy of Predict(X) against y.
func (m *Model) Score(X mat.Matrix, y mat.Matrix) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	truth := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		truth.SetVec(i, y.At(i, 0))
	}
	return metrics.Accuracy(truth, pred)
}
