package svm

// SVMType selects the SVM formulation.
type SVMType int

const (
	// CSVC is standard soft-margin classification.
	CSVC SVMType = iota
	// NuSVC is classification with the nu reparameterization.
	NuSVC
	// OneClass is unsupervised outlier detection.
	OneClass
)

func (t SVMType) String() string {
	switch t {
	case CSVC:
		return "classification"
	case NuSVC:
		return "nu-classification"
	case OneClass:
		return "one-class"
	}
	return "unknown"
}

// KernelFunc selects the kernel family.
type KernelFunc int

const (
	// Linear is the dot-product kernel.
	Linear KernelFunc = iota
	// Polynomial is (gamma*u'*v + coef0)^degree.
	Polynomial
	// RBF is exp(-gamma*|u-v|^2), the radial-basis kernel.
	RBF
	// Sigmoid is tanh(gamma*u'*v + coef0).
	Sigmoid
	// Precomputed means X holds kernel values rather than predictors.
	Precomputed
)

func (k KernelFunc) String() string {
	switch k {
	case Linear:
		return "linear"
	case Polynomial:
		return "polynomial"
	case RBF:
		return "rbf"
	case Sigmoid:
		return "sigmoid"
	case Precomputed:
		return "precomputed"
	}
	return "unknown"
}

// SolverKind identifies the optimization routine the configuration targets.
// The two kinds carry different defaults for the kernel offset and the
// stopping tolerances.
type SolverKind int

const (
	// SolverSMO is sequential minimal optimization.
	SolverSMO SolverKind = iota
	// SolverISDA is iterative single data algorithm.
	SolverISDA
)

func (s SolverKind) String() string {
	if s == SolverISDA {
		return "ISDA"
	}
	return "SMO"
}

// Config is the validated, normalized hyperparameter set governing one
// training run. It is built by folding option pairs over the defaults and
// is immutable once Train returns; a Config that fails validation never
// reaches the solver.
type Config struct {
	SVMType SVMType
	Kernel  KernelFunc

	// Degree is the polynomial kernel order.
	Degree int

	// Gamma is the kernel scale. Zero means "resolve at fit time" to
	// 1/nfeatures, the solver's own convention; an explicitly supplied
	// value must be strictly positive.
	Gamma float64

	// Coef0 is the kernel offset for polynomial and sigmoid kernels.
	// Default is solver-dependent: 0 for SMO, 0.1 for ISDA.
	Coef0 float64

	// BoxConstraint is the misclassification cost C.
	BoxConstraint float64

	// Nu bounds the fraction of margin errors for NuSVC and OneClass.
	Nu float64

	// CacheSize is the solver kernel cache in megabytes.
	CacheSize float64

	// Tolerance is the convergence tolerance. Default is solver-dependent:
	// 1e-3 for SMO, 0 for ISDA (which stops on KKTTolerance instead).
	Tolerance float64

	// KKTTolerance is the Karush-Kuhn-Tucker violation tolerance used by
	// ISDA. Default 1e-3 for ISDA, 0 for SMO.
	KKTTolerance float64

	Shrinking   bool
	Probability bool

	// Weights maps a class label to a positive multiplier on
	// BoxConstraint for that class.
	Weights map[float64]float64

	// KFold is the fold count used by CrossValidate.
	KFold int

	Solver      SolverKind
	Standardize bool
}

// defaultConfig returns the configuration used when no options are
// supplied. Solver-dependent fields are filled in by resolveDefaults after
// option folding, once the solver choice is known.
func defaultConfig() Config {
	return Config{
		SVMType:       CSVC,
		Kernel:        RBF,
		Degree:        3,
		Gamma:         0, // auto: 1/nfeatures
		BoxConstraint: 1,
		Nu:            0.5,
		CacheSize:     100,
		Shrinking:     true,
		Probability:   false,
		KFold:         10,
		Solver:        SolverSMO,
	}
}

// resolveDefaults fills the solver-dependent defaults for every option the
// caller did not supply.
func resolveDefaults(cfg *Config, set map[optionKind]bool) {
	isda := cfg.Solver == SolverISDA
	if !set[optCoef0] {
		if isda {
			cfg.Coef0 = 0.1
		} else {
			cfg.Coef0 = 0
		}
	}
	if !set[optTolerance] {
		if isda {
			cfg.Tolerance = 0
		} else {
			cfg.Tolerance = 1e-3
		}
	}
	if !set[optKKTTolerance] {
		if isda {
			cfg.KKTTolerance = 1e-3
		} else {
			cfg.KKTTolerance = 0
		}
	}
}
