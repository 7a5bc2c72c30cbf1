// Package log defines standard attribute keys for model operations.
//
// Using these keys consistently across constructors and predict entry points
// keeps the structured output filterable: every fit emits model.name,
// ml.operation, data.samples and data.features with the same spelling.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "SVMModel", "NetModel".
	ModelNameKey = "model.name"

	// OperationKey names the operation: "train", "predict", "crossval".
	OperationKey = "ml.operation"

	// SolverKey records the solver identifier used for training.
	SolverKey = "ml.solver"
)

// Data shape.
const (
	// SamplesKey is the number of observations (rows).
	SamplesKey = "data.samples"

	// FeaturesKey is the number of predictors (columns).
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct class labels.
	ClassesKey = "data.classes"
)

// Results.
const (
	// SupportVectorsKey is the total support-vector count after training.
	SupportVectorsKey = "result.support_vectors"

	// AccuracyKey reports cross-validation or scoring accuracy.
	AccuracyKey = "result.accuracy"

	// DurationMsKey is the wall-clock duration of an operation in ms.
	DurationMsKey = "duration_ms"
)
