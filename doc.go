// Package classify provides a family of classification-model objects for
// statistical computing, mirroring the constructor-plus-predict API of the
// established commercial statistics toolboxes.
//
// Each model type exposes a training constructor that validates and
// normalizes hyperparameters supplied as name/value option pairs, trains an
// underlying solver synchronously, and stores the results in a uniform,
// read-only property set. Trained models answer Predict, PredictProba,
// DecisionFunction and Score.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/scistats/classify/svm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0, 1, 1, 0, 1, 1})
//	    Y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    model, err := svm.Train(X, Y,
//	        svm.Option{Name: "KernelFunction", Value: "linear"},
//	        svm.Option{Name: "BoxConstraint", Value: 10.0},
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    labels, err := model.Predict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(labels))
//	}
//
// # Packages
//
//   - svm: support vector machine classification backed by a LIBSVM-style
//     solver (C-SVC, nu-SVC and one-class variants)
//   - net: feedforward neural-network classification
//   - metrics: classification metrics (accuracy, AUC, log loss)
//   - preprocessing: data standardization used by the Standardize option
//   - core/model: shared estimator interfaces, state tracking, persistence
package classify
