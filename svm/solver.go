package svm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/internal/solver"
	"github.com/scistats/classify/pkg/errors"
)

// solverRequest is the well-typed boundary to the solver. A validated
// Config maps onto it once the feature count is known; from there it
// marshals both to the solver's parameter struct and to the classic
// flag-letter option string.
type solverRequest struct {
	svmType int
	kernel  int

	degree      int
	gamma       float64
	coef0       float64
	cost        float64
	nu          float64
	cacheSize   float64
	tolerance   float64
	shrinking   int
	probability int

	// weight tokens, sorted by class label for deterministic output
	weightLabels []int
	weights      []float64

	folds int
}

var svmTypeCodes = map[SVMType]int{
	CSVC:     solver.CSVC,
	NuSVC:    solver.NuSVC,
	OneClass: solver.OneClass,
}

var kernelCodes = map[KernelFunc]int{
	Linear:      solver.Linear,
	Polynomial:  solver.Poly,
	RBF:         solver.RBF,
	Sigmoid:     solver.Sigmoid,
	Precomputed: solver.Precomputed,
}

// newSolverRequest maps a validated configuration onto the solver's calling
// convention. Gamma left at auto resolves to 1/nfeatures. For ISDA the
// solver's single stopping knob carries the KKT tolerance, since that is
// the criterion ISDA stops on.
func newSolverRequest(cfg Config, nFeatures int) solverRequest {
	gamma := cfg.Gamma
	if gamma == 0 && nFeatures > 0 {
		gamma = 1 / float64(nFeatures)
	}

	tol := cfg.Tolerance
	if cfg.Solver == SolverISDA {
		tol = cfg.KKTTolerance
	}

	req := solverRequest{
		svmType:   svmTypeCodes[cfg.SVMType],
		kernel:    kernelCodes[cfg.Kernel],
		degree:    cfg.Degree,
		gamma:     gamma,
		coef0:     cfg.Coef0,
		cost:      cfg.BoxConstraint,
		nu:        cfg.Nu,
		cacheSize: cfg.CacheSize,
		tolerance: tol,
		folds:     cfg.KFold,
	}
	if cfg.Shrinking {
		req.shrinking = 1
	}
	if cfg.Probability {
		req.probability = 1
	}

	labels := make([]int, 0, len(cfg.Weights))
	for label := range cfg.Weights {
		labels = append(labels, int(label))
	}
	sort.Ints(labels)
	for _, label := range labels {
		req.weightLabels = append(req.weightLabels, label)
		req.weights = append(req.weights, cfg.Weights[float64(label)])
	}

	return req
}

// optionString serializes the request into the solver's positional option
// grammar. The token order and formatting are a compatibility contract:
// integers for -s -t -d -h -b -v, floating point for -g -r -c -n -m -e,
// per-class weight entries appended as repeated -w<label> tokens.
func (r solverRequest) optionString() string {
	var b strings.Builder

	b.WriteString("-s ")
	b.WriteString(strconv.Itoa(r.svmType))
	b.WriteString(" -t ")
	b.WriteString(strconv.Itoa(r.kernel))
	b.WriteString(" -d ")
	b.WriteString(strconv.Itoa(r.degree))
	b.WriteString(" -g ")
	b.WriteString(formatFloat(r.gamma))
	b.WriteString(" -r ")
	b.WriteString(formatFloat(r.coef0))
	b.WriteString(" -c ")
	b.WriteString(formatFloat(r.cost))
	b.WriteString(" -n ")
	b.WriteString(formatFloat(r.nu))
	b.WriteString(" -m ")
	b.WriteString(formatFloat(r.cacheSize))
	b.WriteString(" -e ")
	b.WriteString(formatFloat(r.tolerance))
	b.WriteString(" -h ")
	b.WriteString(strconv.Itoa(r.shrinking))
	b.WriteString(" -b ")
	b.WriteString(strconv.Itoa(r.probability))

	for i, label := range r.weightLabels {
		fmt.Fprintf(&b, " -w%d %s", label, formatFloat(r.weights[i]))
	}

	b.WriteString(" -v ")
	b.WriteString(strconv.Itoa(r.folds))

	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parameter builds the solver's native parameter struct. The option string
// and this struct are two renderings of the same request.
func (r solverRequest) parameter() *solver.Parameter {
	return &solver.Parameter{
		SVMType:     r.svmType,
		Kernel:      r.kernel,
		Degree:      r.degree,
		Gamma:       r.gamma,
		Coef0:       r.coef0,
		C:           r.cost,
		Nu:          r.nu,
		CacheSize:   r.cacheSize,
		Eps:         r.tolerance,
		Shrinking:   r.shrinking == 1,
		Probability: r.probability == 1,
		WeightLabel: r.weightLabels,
		Weight:      r.weights,
	}
}

// rowNodes converts one dense row into the solver's sparse node encoding
// with 1-based feature indices. Zeros are kept so the precomputed-kernel
// layout survives untouched.
func rowNodes(X mat.Matrix, i, nFeatures int) []solver.Node {
	nodes := make([]solver.Node, nFeatures)
	for j := 0; j < nFeatures; j++ {
		nodes[j] = solver.Node{Index: j + 1, Value: X.At(i, j)}
	}
	return nodes
}

// buildProblem assembles the solver's training problem from the predictor
// matrix and label vector.
func buildProblem(X mat.Matrix, y []float64) *solver.Problem {
	n, p := X.Dims()
	prob := &solver.Problem{
		L: n,
		Y: append([]float64(nil), y...),
		X: make([][]solver.Node, n),
	}
	for i := 0; i < n; i++ {
		prob.X[i] = rowNodes(X, i, p)
	}
	return prob
}

// trainSolver performs the blocking solver call. A panic inside the solver
// surfaces as a wrapped error instead of tearing down the caller.
func trainSolver(op string, prob *solver.Problem, param *solver.Parameter) (m *solver.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = errors.NewModelError(op, "solver failure", errors.Newf("%v", r))
		}
	}()
	return solver.Train(prob, param), nil
}
