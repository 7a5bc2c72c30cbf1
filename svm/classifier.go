package svm

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/core/model"
	"github.com/scistats/classify/internal/solver"
	"github.com/scistats/classify/metrics"
	"github.com/scistats/classify/pkg/errors"
	"github.com/scistats/classify/pkg/log"
	"github.com/scistats/classify/preprocessing"
)

// Model is a trained SVM classifier. It is created once per Train call and
// never mutated afterwards; Predict and its variants only read. Every array
// is a copy owned by the model, with no aliasing into solver buffers.
type Model struct {
	state *model.StateManager

	// X and Y are the training data as seen by the solver (standardized
	// when the Standardize option was on).
	X *mat.Dense
	Y []float64

	// Config is the resolved configuration the model was trained with.
	Config Config

	// NClasses is the number of classes reported by the solver. One-class
	// models report 2, the solver's convention.
	NClasses int

	// ClassNames lists the distinct class labels in solver order. Nil for
	// one-class models.
	ClassNames []float64

	// TotalSV is the support-vector count.
	TotalSV int

	// Rho holds the decision-function bias terms, one per class pair.
	Rho []float64

	// SVIndices are 1-based indices of the support vectors into the
	// original training set.
	SVIndices []int

	// NSVPerClass is the per-class support-vector count. Nil for
	// one-class models.
	NSVPerClass []int

	// Alpha holds the support-vector dual coefficients.
	Alpha [][]float64

	// SupportVectors are the support vectors themselves, TotalSV x P.
	SupportVectors *mat.Dense

	// ProbA and ProbB are the pairwise probability-calibration terms,
	// present only when ProbabilityEstimates was on.
	ProbA []float64
	ProbB []float64

	// SolverName records which solver the configuration targeted.
	SolverName string

	// SolverOptions is the serialized option string sent across the
	// foreign boundary, kept as a compatibility surface.
	SolverOptions string

	// Scaler is non-nil when the Standardize option was on; prediction
	// inputs pass through it before reaching the solver.
	Scaler *preprocessing.StandardScaler

	svmModel *solver.Model
}

const trainOp = "svm.Train"

// Train validates the inputs and options, trains the external solver
// synchronously on the caller's goroutine, and returns the trained model.
// Any validation failure aborts before the solver is invoked and no model
// is produced.
//
// X is N observations by P features; Y is N class labels in a single
// column. With no options the defaults apply: classification SVM, rbf
// kernel, BoxConstraint 1, Tolerance 1e-3, KFold 10.
func Train(X, Y mat.Matrix, opts ...Option) (*Model, error) {
	start := time.Now()

	ctx, err := prepare(trainOp, X, Y, opts)
	if err != nil {
		return nil, err
	}

	logger := log.GetLogger().With(
		log.ModelNameKey, "SVMModel",
		log.OperationKey, "train",
	)
	n, p := ctx.X.Dims()
	logger.Debug("invoking solver",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.SolverKey, ctx.cfg.Solver.String(),
	)

	param := ctx.req.parameter()
	if msg := solver.CheckParameter(ctx.prob, param); msg != "" {
		return nil, errors.NewModelError(trainOp, "invalid configuration", errors.New(msg))
	}

	trained, err := trainSolver(trainOp, ctx.prob, param)
	if err != nil {
		return nil, err
	}

	m := &Model{
		state:         model.NewStateManager(),
		X:             ctx.X,
		Y:             ctx.y,
		Config:        ctx.cfg,
		SolverName:    ctx.cfg.Solver.String(),
		SolverOptions: ctx.req.optionString(),
		Scaler:        ctx.scaler,
		svmModel:      trained,
	}
	m.copySolverOutput(trained, p)
	m.state.SetFitted(n, p)

	logger.Info("training complete",
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ClassesKey, m.NClasses,
		log.SupportVectorsKey, m.TotalSV,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// trainContext carries the validated inputs shared by Train and
// CrossValidate.
type trainContext struct {
	cfg    Config
	X      *mat.Dense
	y      []float64
	prob   *solver.Problem
	req    solverRequest
	scaler *preprocessing.StandardScaler
}

// prepare runs the full precondition chain: argument presence, shape
// agreement, missing-value scan, option folding, label normalization and
// standardization. The solver request it returns is guaranteed valid.
func prepare(op string, X, Y mat.Matrix, opts []Option) (*trainContext, error) {
	if X == nil || Y == nil {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	n, p := X.Dims()
	ny, cy := Y.Dims()
	if n == 0 || p == 0 {
		return nil, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	if cy != 1 {
		return nil, errors.NewDimensionError(op, 1, cy, 1)
	}
	if ny != n {
		return nil, errors.NewDimensionError(op, n, ny, 0)
	}
	if err := errors.CheckMissing(op, X); err != nil {
		return nil, err
	}

	cfg, err := parseOptions(op, opts)
	if err != nil {
		return nil, err
	}

	y := make([]float64, n)
	classes := make(map[float64]bool)
	for i := 0; i < n; i++ {
		v := Y.At(i, 0)
		if math.IsNaN(v) {
			return nil, errors.NewMissingValueError(op, i, 0)
		}
		if v != math.Trunc(v) {
			return nil, errors.NewValidationError("Y", "class labels must be integer-valued", v)
		}
		y[i] = v
		classes[v] = true
	}

	// The solver only warns about a weight label absent from Y; here it
	// is a validation error, caught before training starts.
	for label := range cfg.Weights {
		if cfg.SVMType != OneClass && !classes[label] {
			return nil, errors.NewValidationError("Weights",
				"class label not present in Y", label)
		}
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

	req := newSolverRequest(cfg, p)
	return &trainContext{
		cfg:    cfg,
		X:      Xd,
		y:      y,
		prob:   buildProblem(Xd, y),
		req:    req,
		scaler: scaler,
	}, nil
}

// copySolverOutput copies the solver's result structure verbatim into the
// model's public attributes.
func (m *Model) copySolverOutput(out *solver.Model, nFeatures int) {
	m.NClasses = out.NrClass
	m.TotalSV = out.L
	m.Rho = append([]float64(nil), out.Rho...)
	m.SVIndices = append([]int(nil), out.SVIndices...)
	m.ProbA = append([]float64(nil), out.ProbA...)
	m.ProbB = append([]float64(nil), out.ProbB...)

	if out.Label != nil {
		m.ClassNames = make([]float64, len(out.Label))
		for i, l := range out.Label {
			m.ClassNames[i] = float64(l)
		}
	}
	if out.NSV != nil {
		m.NSVPerClass = append([]int(nil), out.NSV...)
	}

	m.Alpha = make([][]float64, len(out.SVCoef))
	for i, row := range out.SVCoef {
		m.Alpha[i] = append([]float64(nil), row...)
	}

	// A degenerate single-class fit can come back with zero support
	// vectors; keep the matrix allocatable either way.
	sv := mat.NewDense(maxInt(out.L, 1), nFeatures, nil)
	for i := 0; i < out.L; i++ {
		for _, node := range out.SV[i] {
			if node.Index >= 1 && node.Index <= nFeatures {
				sv.Set(i, node.Index-1, node.Value)
			}
		}
	}
	m.SupportVectors = sv
}

// Classes returns the distinct class labels seen during training, in the
// order used by PredictProba columns.
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
