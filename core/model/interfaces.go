package model

import "gonum.org/v1/gonum/mat"

// Predictor is a trained model that can classify new observations.
type Predictor interface {
	// Predict returns one predicted class label per row of X.
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Classifier is the full surface shared by the classification-model family.
type Classifier interface {
	Predictor

	// PredictProba returns class-membership probability estimates, one row
	// per observation and one column per class in Classes order.
	PredictProba(X mat.Matrix) (*mat.Dense, error)

	// Classes returns the distinct class labels seen during training, in
	// the order used by PredictProba columns.
	Classes() []float64

	// Score returns the mean accuracy of Predict(X) against y.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}
