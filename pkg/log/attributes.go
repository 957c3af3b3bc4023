// Package log defines standard attribute keys for tree induction.
//
// Using these keys keeps log output from the trainer, the estimators and the
// command line tool consistent. Keys follow a dotted naming convention
// (e.g. "model.name", "tree.height") so output can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "DecisionTreeClassifier", "DecisionTreeRegressor"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of rows reaching an operation or node.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of feature columns.
	FeaturesKey = "data.features"

	// TargetsKey indicates the number of target outputs.
	TargetsKey = "data.targets"

	// ClassesKey indicates the number of classes for classification.
	ClassesKey = "data.classes"
)

// Tree Structure
const (
	// HeightKey is the height of the node being expanded (the root is 1).
	HeightKey = "tree.height"

	// ColumnKey names the column a node splits on.
	ColumnKey = "tree.column"

	// ConditionKey is the textual form of a branch condition.
	ConditionKey = "tree.condition"

	// NodeErrorKey is the target error of a node before splitting.
	NodeErrorKey = "tree.node_error"

	// SplitErrorKey is the weighted error of the chosen split.
	SplitErrorKey = "tree.split_error"

	// LeafKey reports whether a node was left unexpanded.
	LeafKey = "tree.leaf"

	// LeavesKey is the number of leaves of a fitted tree.
	LeavesKey = "tree.leaves"

	// NodesKey is the number of nodes of a fitted tree.
	NodesKey = "tree.nodes"

	// CriterionKey names the target error measure.
	CriterionKey = "tree.criterion"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy.
	AccuracyKey = "metrics.accuracy"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Hyperparameters
const (
	// HyperParamsKey contains estimator hyperparameters.
	HyperParamsKey = "model.hyperparams"
)

const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorUnsupportedKind   = "UNSUPPORTED_KIND"
)
