// Package solver implements the sequential-minimal-optimization training
// and prediction routines backing the svm package: C-SVC, nu-SVC and
// one-class formulations with the classic kernel family, Platt probability
// calibration and stratified cross-validation.
//
// The package descends from the LIBSVM lineage of solvers. It is internal
// on purpose: the svm package is the supported surface, and the types here
// follow its calling convention rather than the historical C one.
package solver

// SVM formulation codes, in option-string order.
const (
	CSVC = iota
	NuSVC
	OneClass
)

// Kernel codes, in option-string order.
const (
	Linear = iota
	Poly
	RBF
	Sigmoid
	Precomputed
)

// Node is one sparse feature: a 1-based index and its value.
type Node struct {
	Index int
	Value float64
}

// Problem is a training set of L rows with labels Y and sparse features X.
type Problem struct {
	L int
	Y []float64
	X [][]Node
}

// Parameter is the full solver configuration. Weight and WeightLabel are
// parallel slices mapping class labels to box-constraint multipliers.
type Parameter struct {
	SVMType int
	Kernel  int

	Degree int
	Gamma  float64
	Coef0  float64

	CacheSize float64 // megabytes
	Eps       float64 // stopping tolerance
	C         float64
	Nu        float64

	Shrinking   bool
	Probability bool

	WeightLabel []int
	Weight      []float64
}

// Clone returns a deep copy. Probability calibration trains sub-models on
// modified copies, so the slices must not alias.
func (p *Parameter) Clone() *Parameter {
	q := *p
	q.WeightLabel = append([]int(nil), p.WeightLabel...)
	q.Weight = append([]float64(nil), p.Weight...)
	return &q
}

// Model is a trained solver model. Field layout follows the classic
// support-vector model: SVCoef has NrClass-1 rows, row ordering and the
// pairwise Rho/ProbA/ProbB layout match the pairwise classifier ordering
// (0,1), (0,2), ..., (1,2), ...
type Model struct {
	Param   *Parameter
	NrClass int
	L       int // total support vectors

	SV        [][]Node
	SVCoef    [][]float64
	Rho       []float64
	ProbA     []float64
	ProbB     []float64
	SVIndices []int // 1-based indices into the training set

	// Label and NSV are per-class (nil for one-class models).
	Label []int
	NSV   []int
}
