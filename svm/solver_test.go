package svm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scistats/classify/internal/solver"
)

func TestOptionStringDefaults(t *testing.T) {
	cfg, err := parseOptions("svm.Train", nil)
	require.NoError(t, err)

	req := newSolverRequest(cfg, 2)
	want := "-s 0 -t 2 -d 3 -g 0.5 -r 0 -c 1 -n 0.5 -m 100 -e 0.001 -h 1 -b 0 -v 10"
	assert.Equal(t, want, req.optionString())
}

func TestOptionStringFullConfiguration(t *testing.T) {
	cfg, err := parseOptions("svm.Train", []Option{
		Opt("SVMType", "nu-classification"),
		Opt("KernelFunction", "polynomial"),
		Opt("PolynomialOrder", 4),
		Opt("KernelScale", 0.25),
		Opt("KernelOffset", 1.5),
		Opt("BoxConstraint", 10.0),
		Opt("Nu", 0.3),
		Opt("CacheSize", 200.0),
		Opt("Tolerance", 1e-4),
		Opt("Shrinking", false),
		Opt("ProbabilityEstimates", true),
		Opt("KFold", 5),
	})
	require.NoError(t, err)

	req := newSolverRequest(cfg, 3)
	want := "-s 1 -t 1 -d 4 -g 0.25 -r 1.5 -c 10 -n 0.3 -m 200 -e 0.0001 -h 0 -b 1 -v 5"
	assert.Equal(t, want, req.optionString())
}

func TestOptionStringWeights(t *testing.T) {
	cfg, err := parseOptions("svm.Train", []Option{
		Opt("Weights", map[float64]float64{1: 0.5, 0: 2}),
	})
	require.NoError(t, err)

	req := newSolverRequest(cfg, 2)
	s := req.optionString()

	// Weight tokens are keyed by class label, sorted ascending, and sit
	// between -b and -v.
	assert.Contains(t, s, " -b 0 -w0 2 -w1 0.5 -v 10")
}

func TestOptionStringOneTokenPerFlag(t *testing.T) {
	cfg, err := parseOptions("svm.Train", nil)
	require.NoError(t, err)

	s := newSolverRequest(cfg, 4).optionString()
	for _, flag := range []string{"-s ", "-t ", "-d ", "-g ", "-r ", "-c ", "-n ", "-m ", "-e ", "-h ", "-b ", "-v "} {
		assert.Equal(t, 1, strings.Count(s, flag), "flag %q", flag)
	}
}

func TestGammaAutoResolution(t *testing.T) {
	cfg, err := parseOptions("svm.Train", nil)
	require.NoError(t, err)

	// Auto gamma resolves to 1/nfeatures at request-build time.
	assert.Equal(t, 0.25, newSolverRequest(cfg, 4).gamma)
	assert.Equal(t, 0.5, newSolverRequest(cfg, 2).gamma)

	// Explicit gamma survives untouched.
	cfg, err = parseOptions("svm.Train", []Option{Opt("KernelScale", 3.0)})
	require.NoError(t, err)
	assert.Equal(t, 3.0, newSolverRequest(cfg, 4).gamma)
}

func TestISDARequestUsesKKTTolerance(t *testing.T) {
	cfg, err := parseOptions("svm.Train", []Option{Opt("Solver", "ISDA")})
	require.NoError(t, err)

	// ISDA stops on the KKT tolerance; that is what crosses the boundary.
	req := newSolverRequest(cfg, 2)
	assert.Equal(t, 1e-3, req.tolerance)
}

func TestSolverParameterMirrorsOptionString(t *testing.T) {
	cfg, err := parseOptions("svm.Train", []Option{
		Opt("SVMType", "one-class"),
		Opt("KernelFunction", "sigmoid"),
		Opt("Nu", 0.1),
	})
	require.NoError(t, err)

	req := newSolverRequest(cfg, 2)
	param := req.parameter()

	assert.Equal(t, solver.OneClass, param.SVMType)
	assert.Equal(t, solver.Sigmoid, param.Kernel)
	assert.Equal(t, 0.1, param.Nu)
	assert.Equal(t, req.gamma, param.Gamma)
	assert.Equal(t, req.tolerance, param.Eps)
}
