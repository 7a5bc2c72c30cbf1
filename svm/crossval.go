package svm

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/scistats/classify/internal/solver"
	"github.com/scistats/classify/pkg/errors"
	"github.com/scistats/classify/pkg/log"
)

const crossvalOp = "svm.CrossValidate"

// CrossValidate runs k-fold cross-validation through the external solver
// and returns the held-out accuracy. The fold count comes from the KFold
// option (default 10) and must not exceed the number of observations.
// Validation is identical to Train: an invalid configuration never reaches
// the solver.
func CrossValidate(X, Y mat.Matrix, opts ...Option) (float64, error) {
	start := time.Now()

	ctx, err := prepare(crossvalOp, X, Y, opts)
	if err != nil {
		return 0, err
	}
	n, _ := ctx.X.Dims()
	if ctx.cfg.KFold > n {
		return 0, errors.NewValidationError("KFold",
			"must not exceed the number of observations", ctx.cfg.KFold)
	}

	param := ctx.req.parameter()
	if msg := solver.CheckParameter(ctx.prob, param); msg != "" {
		return 0, errors.NewModelError(crossvalOp, "invalid configuration", errors.New(msg))
	}

	target := make([]float64, n)
	if err := runCrossValidation(ctx.prob, param, ctx.cfg.KFold, target); err != nil {
		return 0, err
	}

	var correct int
	for i, pred := range target {
		if pred == ctx.y[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(n)

	log.GetLogger().Info("cross-validation complete",
		log.ModelNameKey, "SVMModel",
		log.OperationKey, "crossval",
		log.SamplesKey, n,
		log.AccuracyKey, accuracy,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return accuracy, nil
}

func runCrossValidation(prob *solver.Problem, param *solver.Parameter, folds int, target []float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewModelError(crossvalOp, "solver failure", errors.Newf("%v", r))
		}
	}()
	solver.CrossValidation(prob, param, folds, target)
	return nil
}
