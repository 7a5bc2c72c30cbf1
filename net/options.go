package net

import (
	"math"
	"strings"

	"github.com/scistats/classify/pkg/errors"
)

// Activation selects the hidden-layer transfer function. The output layer
// is always softmax.
type Activation int

const (
	ReLU Activation = iota
	Tanh
	Sigmoid
)

func (a Activation) String() string {
	switch a {
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	default:
		return "relu"
	}
}

// Config is the resolved training configuration. LayerSizes lists the
// hidden-layer widths only; the input and output widths come from the data.
type Config struct {
	LayerSizes     []int
	Activation     Activation
	Lambda         float64
	IterationLimit int
	LearnRate      float64
	LossTolerance  float64
	Standardize    bool
	RandomSeed     int64
}

func defaultConfig() Config {
	return Config{
		LayerSizes:     []int{10},
		Activation:     ReLU,
		Lambda:         0,
		IterationLimit: 1000,
		LearnRate:      0.1,
		LossTolerance:  1e-6,
	}
}

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
// Every kind is handled by exactly one case in applyOption.
type optionKind int

const (
	optLayerSizes optionKind = iota
	optActivation
	optLambda
	optIterationLimit
	optLearnRate
	optLossTolerance
	optStandardize
	optRandomSeed
)

var optionKinds = map[string]optionKind{
	"layersizes":     optLayerSizes,
	"activation":     optActivation,
	"lambda":         optLambda,
	"iterationlimit": optIterationLimit,
	"learnrate":      optLearnRate,
	"losstolerance":  optLossTolerance,
	"standardize":    optStandardize,
	"randomseed":     optRandomSeed,
}

var canonicalOptionName = map[optionKind]string{
	optLayerSizes:     "LayerSizes",
	optActivation:     "Activation",
	optLambda:         "Lambda",
	optIterationLimit: "IterationLimit",
	optLearnRate:      "LearnRate",
	optLossTolerance:  "LossTolerance",
	optStandardize:    "Standardize",
	optRandomSeed:     "RandomSeed",
}

// parseOptions folds a sequence of option pairs over the defaults. Options
// are processed in order; the last occurrence of a repeated option wins. An
// unrecognized name or an invalid value aborts immediately.
func parseOptions(op string, opts []Option) (Config, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		kind, ok := optionKinds[strings.ToLower(o.Name)]
		if !ok {
			return Config{}, errors.NewUnknownOptionError(op, o.Name)
		}
		if err := applyOption(op, &cfg, kind, o.Value); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// applyOption validates one value against its option's constraint and
// stores it. The switch is total over optionKind.
func applyOption(op string, cfg *Config, kind optionKind, value interface{}) error {
	name := canonicalOptionName[kind]

	switch kind {
	case optLayerSizes:
		sizes, err := layerSizesValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.LayerSizes = sizes

	case optActivation:
		s, ok := value.(string)
		if !ok {
			return errors.NewTypeError(op, name, "a string", value)
		}
		switch strings.ToLower(s) {
		case "relu":
			cfg.Activation = ReLU
		case "tanh":
			cfg.Activation = Tanh
		case "sigmoid":
			cfg.Activation = Sigmoid
		default:
			return errors.NewUnsupportedValueError(op, name, s,
				[]string{"relu", "tanh", "sigmoid"})
		}

	case optLambda:
		l, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if l < 0 || math.IsInf(l, 0) {
			return errors.NewValidationError(name, "must be a non-negative scalar", value)
		}
		cfg.Lambda = l

	case optIterationLimit:
		n, err := intValue(op, name, value)
		if err != nil {
			return err
		}
		if n <= 0 {
			return errors.NewValidationError(name, "must be a positive integer", value)
		}
		cfg.IterationLimit = n

	case optLearnRate:
		r, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if r <= 0 || math.IsInf(r, 0) {
			return errors.NewValidationError(name, "must be a positive scalar", value)
		}
		cfg.LearnRate = r

	case optLossTolerance:
		t, err := floatValue(op, name, value)
		if err != nil {
			return err
		}
		if t < 0 || math.IsInf(t, 0) {
			return errors.NewValidationError(name, "must be a non-negative scalar", value)
		}
		cfg.LossTolerance = t

	case optStandardize:
		b, err := boolValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.Standardize = b

	case optRandomSeed:
		s, err := intValue(op, name, value)
		if err != nil {
			return err
		}
		cfg.RandomSeed = int64(s)
	}

	return nil
}

// layerSizesValue normalizes the hidden-layer width list. A bare integer is
// a single hidden layer; a float slice is accepted when every entry is
// integer-valued.
func layerSizesValue(op, name string, value interface{}) ([]int, error) {
	check := func(sizes []int) ([]int, error) {
		if len(sizes) == 0 {
			return nil, errors.NewValidationError(name, "must name at least one hidden layer", value)
		}
		for _, s := range sizes {
			if s <= 0 {
				return nil, errors.NewValidationError(name, "layer sizes must be positive integers", s)
			}
		}
		return sizes, nil
	}

	switch v := value.(type) {
	case []int:
		return check(append([]int(nil), v...))
	case []float64:
		sizes := make([]int, len(v))
		for i, f := range v {
			if math.IsNaN(f) || f != math.Trunc(f) {
				return nil, errors.NewValidationError(name, "layer sizes must be positive integers", f)
			}
			sizes[i] = int(f)
		}
		return check(sizes)
	case int:
		return check([]int{v})
	}
	return nil, errors.NewTypeError(op, name, "an integer slice", value)
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
// is a domain error, not a type error.
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
