package svm

import (
	"math"
	"strconv"
	"strings"

	"github.com/scistats/classify/pkg/errors"
)

// Option is one name/value hyperparameter pair. Names are matched
// case-insensitively against the closed option set below.
type Option struct {
	Name  string
	Value interface{}
}

// Opt is shorthand for constructing an Option.
func Opt(name string, value interface{}) Option {
	return Option{Name: name, Value: value}
}

// optionKind is the closed enumeration of recognized training options.
// Every kind is handled by exactly one case in applyOption, so adding or
// removing an option is a compile-time-checked change.
type optionKind int

const (
	optSVMType optionKind = iota
	optKernel
	optDegree
	optGamma
	optCoef0
	optBoxConstraint
	optNu
	optCacheSize
	optTolerance
	optKKTTolerance
	optShrinking
	optProbability
	optWeights
	optKFold
	optSolver
	optStandardize
)

// optionKinds maps lowercased option names (and their aliases) to kinds.
var optionKinds = map[string]optionKind{
	"svmtype":              optSVMType,
	"kernelfunction":       optKernel,
	"polynomialorder":      optDegree,
	"kernelscale":          optGamma,
	"gamma":                optGamma,
	"kerneloffset":         optCoef0,
	"boxconstraint":        optBoxConstraint,
	"nu":                   optNu,
	"cachesize":            optCacheSize,
	"tolerance":            optTolerance,
	"kkttolerance":         optKKTTolerance,
	"shrinking":            optShrinking,
	"probabilityestimates": optProbability,
	"weights":              optWeights,
	"kfold":                optKFold,
	"solver":               optSolver,
	"standardize":          optStandardize,
}

// canonicalOptionName is used in error messages so the caller sees the
// documented spelling regardless of the casing or alias they supplied.
var canonicalOptionName = map[optionKind]string{
	optSVMType:       "SVMType",
	optKernel:        "KernelFunction",
	optDegree:        "PolynomialOrder",
	optGamma:         "KernelScale",
	optCoef0:         "KernelOffset",
	optBoxConstraint: "BoxConstraint",
	optNu:            "Nu",
	optCacheSize:     "CacheSize",
	optTolerance:     "Tolerance",
	optKKTTolerance:  "KKTTolerance",
	optShrinking:     "Shrinking",
	optProbability:   "ProbabilityEstimates",
	optWeights:       "Weights",
	optKFold:         "KFold",
	optSolver:        "Solver",
	optStandardize:   "Standardize",
}

// parseOptions folds a sequence of option pairs over the defaults and
// returns the normalized configuration. Options are processed in the order
// supplied; the last occurrence of a repeated option wins. An unrecognized
// name or an invalid value aborts immediately.
func parseOptions(op string, opts []Option) (Config, error) {
	cfg := defaultConfig()
	set := make(map[optionKind]bool, len(opts))

	for _, o := range opts {
		kind, ok := optionKinds[strings.ToLower(o.Name)]
		if !ok {
			return Config{}, errors.NewUnknownOptionError(op, o.Name)
		}
		if err := applyOption(op, &cfg, kind, o.Value); err != nil {
			return Config{}, err
		}
		set[kind] = true
	}

	resolveDefaults(&cfg, set)
	return cfg, nil
}

// applyOption validates one value against its option's constraint and
// stores it. The switch is total over optionKind.
func applyOption(op string, cfg *Config, kind optionKind, value interface{}) error {
	name := canonicalOptionName[kind]

	switch kind {
	case optSVMType:
		s, ok := value.(string)
		if !ok {
			return errors.NewTypeError(op, name, "a string", value)
		}
		switch strings.ToLower(s) {
		case "classification":
			cfg.SVMType = CSVC
		case "nu-classification":
			cfg.SVMType = NuSVC
		case "one-class":
			cfg.SVMType = OneClass
		default:
			return errors.NewUnsupportedValueError(op, name, s,
				[]string{"classification", "nu-classification", "one-class"})
		}

	case optKernel:
		s, ok := value.(string)
		if !ok {
			return errors.NewTypeError(op, name, "a string", value)
		}
		switch strings.ToLower(s) {
		case "linear":
			cfg.Kernel = Linear
		case "polynomial":
			cfg.Kernel = Polynomial
		case "rbf", "radial-basis":
			cfg.Kernel = RBF
		case "sigmoid":
			cfg.Kernel = Sigmoid
		case "precomputed":
			cfg.Kernel = Precomputed
		default:
			return errors.NewUnsupportedValueError(op, name, s,
				[]string{"linear", "polynomial", "rbf", "sigmoid", "precomputed"})
		}

	case optDegree:
		d, err := intValue(op, name, value)
		if err != nil {
			return err
		}
		if d <= 0 {
			return errors.NewValidationError(name, "must be a positive integer", value)
		}
		cfg.Degree = d

	case optGamma:
		g, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if g <= 0 || math.IsInf(g, 0) {
			return errors.NewValidationError(name, "must be a positive scalar", value)
		}
		cfg.Gamma = g

	case optCoef0:
		r, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if r < 0 || math.IsInf(r, 0) {
			return errors.NewValidationError(name, "must be a non-negative scalar", value)
		}
		cfg.Coef0 = r

	case optBoxConstraint:
		c, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if c <= 0 || math.IsInf(c, 0) {
			return errors.NewValidationError(name, "must be a positive scalar", value)
		}
		cfg.BoxConstraint = c

	case optNu:
		n, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if n <= 0 || n > 1 {
			return errors.NewValidationError(name, "must be in (0, 1]", value)
		}
		cfg.Nu = n

	case optCacheSize:
		m, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if m <= 0 || math.IsInf(m, 0) {
			return errors.NewValidationError(name, "must be a positive scalar", value)
		}
		cfg.CacheSize = m

	case optTolerance:
		e, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if e < 0 || math.IsInf(e, 0) {
			return errors.NewValidationError(name, "must be a non-negative scalar", value)
		}
		cfg.Tolerance = e

	case optKKTTolerance:
		e, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if e < 0 || math.IsInf(e, 0) {
			return errors.NewValidationError(name, "must be a non-negative scalar", value)
		}
		cfg.KKTTolerance = e

	case optShrinking:
		b, err := boolValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.Shrinking = b

	case optProbability:
		b, err := boolValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.Probability = b

	case optWeights:
		w, err := weightsValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.Weights = w

	case optKFold:
		k, err := intValue(op, name, value)
		if err != nil {
			return err
		}
		if k <= 1 {
			return errors.NewValidationError(name, "must be an integer greater than 1", value)
		}
		cfg.KFold = k

	case optSolver:
		s, ok := value.(string)
		if !ok {
			return errors.NewTypeError(op, name, "a string", value)
		}
		switch strings.ToUpper(s) {
		case "SMO":
			cfg.Solver = SolverSMO
		case "ISDA":
			cfg.Solver = SolverISDA
		default:
			return errors.NewUnsupportedValueError(op, name, s, []string{"SMO", "ISDA"})
		}

	case optStandardize:
		b, err := boolValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.Standardize = b
	}

	return nil
}

// floatValue coerces a numeric scalar of any width to float64.
func floatValue(op, name string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, errors.NewValidationError(name, "must not be NaN", value)
		}
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errors.NewTypeError(op, name, "a numeric scalar", value)
}

// intValue coerces an integer-valued scalar. A float with a fractional part
// is a domain error, not a type error: the value is numeric but outside the
// integer domain.
func intValue(op, name string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || v != math.Trunc(v) {
			return 0, errors.NewValidationError(name, "must be an integer", value)
		}
		return int(v), nil
	case float32:
		f := float64(v)
		if f != math.Trunc(f) {
			return 0, errors.NewValidationError(name, "must be an integer", value)
		}
		return int(f), nil
	}
	return 0, errors.NewTypeError(op, name, "an integer scalar", value)
}

// boolValue accepts a bool or the boolean-equivalent scalars 0 and 1.
func boolValue(op, name string, value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
		return false, errors.NewValidationError(name, "must be 0 or 1", value)
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
		return false, errors.NewValidationError(name, "must be 0 or 1", value)
	}
	return false, errors.NewTypeError(op, name, "a boolean or 0/1 scalar", value)
}

// weightsValue normalizes the per-class weight mapping. Keys must parse as
// numeric class labels and every weight must be a positive finite scalar.
func weightsValue(op, name string, value interface{}) (map[float64]float64, error) {
	out := make(map[float64]float64)

	put := func(label, weight float64) error {
		if err := errors.CheckFinite(name, []float64{weight}); err != nil {
			return err
		}
		if weight <= 0 {
			return errors.NewValidationError(name, "weights must be positive scalars", weight)
		}
		out[label] = weight
		return nil
	}

	switch m := value.(type) {
	case map[float64]float64:
		for label, weight := range m {
			if err := put(label, weight); err != nil {
				return nil, err
			}
		}
	case map[int]float64:
		for label, weight := range m {
			if err := put(float64(label), weight); err != nil {
				return nil, err
			}
		}
	case map[string]float64:
		for key, weight := range m {
			label, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
			if err != nil {
				return nil, errors.NewTypeError(op, name,
					"a map whose keys parse as numeric class labels", key)
			}
			if err := put(label, weight); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.NewTypeError(op, name,
			"a map from numeric class labels to positive weights", value)
	}

	return out, nil
}
