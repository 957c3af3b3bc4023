package tree

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/preprocessing"
	scitree "github.com/YuminosukeSato/scitree/tree"
)

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
	_ model.FrameEstimator  = (*DecisionTreeClassifier)(nil)
)

// DecisionTreeClassifier grows an entropy tree over labelled rows.
// Labels are arbitrary float64 values; they are encoded to 0..k-1 in
// ascending order and PredictProba columns follow that order.
type DecisionTreeClassifier struct {
	state *model.StateManager
	params

	// Learned
	tree_         *scitree.Tree
	classes_      []float64
	nClasses_     int
	nFeatures_    int
	featureNames_ []string
	categorical_  []int
}

// NewDecisionTreeClassifier creates a classifier. Defaults: criterion
// "entropy", splitter "best", no depth limit, min_samples_split 5,
// min_samples_leaf 5, min_error_decrease 0.
func NewDecisionTreeClassifier(opts ...Option) (*DecisionTreeClassifier, error) {
	p := params{
		criterion:       "entropy",
		splitter:        "best",
		minSamplesSplit: 5,
		minSamplesLeaf:  5,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate("entropy", true); err != nil {
		return nil, err
	}
	return &DecisionTreeClassifier{state: model.NewStateManager(), params: p}, nil
}

// Fit trains the classifier. y must be a single column of labels.
func (c *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeClassifier.Fit")

	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yCols, 1)
	}
	frame, err := scitree.FrameFromMatrix(X, c.featureNames, c.categorical)
	if err != nil {
		return err
	}
	return c.fit(frame, y)
}

// FitFrame trains the classifier on a table with named, typed columns.
func (c *DecisionTreeClassifier) FitFrame(x *scitree.Frame, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeClassifier.FitFrame")

	if x == nil || y == nil {
		return errors.Wrap(errors.ErrEmptyData, "DecisionTreeClassifier.FitFrame")
	}
	yRows, yCols := y.Dims()
	if x.Rows() != yRows {
		return errors.NewDimensionError("DecisionTreeClassifier.FitFrame", x.Rows(), yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DecisionTreeClassifier.FitFrame", 1, yCols, 1)
	}
	return c.fit(x, y)
}

func (c *DecisionTreeClassifier) fit(x *scitree.Frame, y mat.Matrix) error {
	start := time.Now()
	c.state.Reset()

	encoder := preprocessing.NewLabelEncoder[float64]()
	codes, err := encoder.FitTransform(mat.Col(nil, 0, y))
	if err != nil {
		return err
	}
	k := encoder.NClasses()
	if k < 2 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "can't train classifier with one class")
	}
	weights, err := c.orderedClassWeights(encoder.Classes())
	if err != nil {
		return err
	}
	metric, err := scitree.NewTargetError(c.criterion, k, weights)
	if err != nil {
		return err
	}
	trainer, err := c.trainer(metric)
	if err != nil {
		return err
	}

	target := mat.NewDense(len(codes), 1, nil)
	for i, code := range codes {
		target.Set(i, 0, float64(code))
	}

	logger := log.GetLoggerWithName("tree.classifier")
	hooks := scitree.Hooks{}
	if c.verbose {
		logger.Info("Training DecisionTreeClassifier",
			log.OperationKey, log.OperationFit,
			log.SamplesKey, x.Rows(),
			log.FeaturesKey, x.NumColumns(),
			log.ClassesKey, k,
			log.CriterionKey, c.criterion,
		)
		hooks = scitree.LoggingHooks(logger)
	}

	root, err := trainer.FitWithHooks(x, target, hooks)
	if err != nil {
		return err
	}

	c.tree_ = root
	c.classes_ = encoder.Classes()
	c.nClasses_ = k
	c.nFeatures_ = x.NumColumns()
	c.featureNames_ = x.Names()
	c.categorical_ = nominalIndices(x)
	c.state.MarkFitted(x.NumColumns(), x.Rows())

	if c.verbose {
		logger.Info("Training completed",
			log.HeightKey, root.Height(),
			log.LeavesKey, root.Leaves(),
			log.NodesKey, root.Nodes(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// orderedClassWeights lines class_weight up with the encoded classes.
func (c *DecisionTreeClassifier) orderedClassWeights(classes []float64) ([]float64, error) {
	if c.classWeight == nil {
		return nil, nil
	}
	weights := make([]float64, len(classes))
	for i, label := range classes {
		w, ok := c.classWeight[label]
		if !ok {
			return nil, errors.NewValueError("DecisionTreeClassifier.Fit", fmt.Sprintf("class_weight has no weight for class %v", label))
		}
		weights[i] = w
	}
	return weights, nil
}

// PredictProba returns one row per sample and one column per class.
func (c *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted("DecisionTreeClassifier", "PredictProba"); err != nil {
		return nil, err
	}
	frame, err := inputFrame("DecisionTreeClassifier.PredictProba", X, c.featureNames_, c.categorical_)
	if err != nil {
		return nil, err
	}
	return predictRows(c.tree_, frame), nil
}

// PredictProbaFrame is PredictProba for a table. Columns are matched by
// name; a missing column stops descent at the node that needs it.
func (c *DecisionTreeClassifier) PredictProbaFrame(x *scitree.Frame) (mat.Matrix, error) {
	if err := c.state.RequireFitted("DecisionTreeClassifier", "PredictProbaFrame"); err != nil {
		return nil, err
	}
	return predictRows(c.tree_, x), nil
}

// Predict returns the most probable label of each sample.
func (c *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted("DecisionTreeClassifier", "Predict"); err != nil {
		return nil, err
	}
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return c.labels(proba), nil
}

// PredictFrame is Predict for a table.
func (c *DecisionTreeClassifier) PredictFrame(x *scitree.Frame) (mat.Matrix, error) {
	proba, err := c.PredictProbaFrame(x)
	if err != nil {
		return nil, err
	}
	return c.labels(proba), nil
}

func (c *DecisionTreeClassifier) labels(proba mat.Matrix) mat.Matrix {
	rows, _ := proba.Dims()
	if rows == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, c.nClasses_)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, proba)
		out.Set(i, 0, c.classes_[floats.MaxIdx(row)])
	}
	return out
}

// Score returns the accuracy of Predict(X) against y.
func (c *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// ScoreFrame is Score for a table.
func (c *DecisionTreeClassifier) ScoreFrame(x *scitree.Frame, y mat.Matrix) (float64, error) {
	pred, err := c.PredictFrame(x)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(y, pred)
}

// Classes returns the labels in PredictProba column order.
func (c *DecisionTreeClassifier) Classes() []float64 {
	return append([]float64(nil), c.classes_...)
}

// IsFitted reports whether Fit has completed.
func (c *DecisionTreeClassifier) IsFitted() bool { return c.state.IsFitted() }

// Tree returns the fitted root, or nil before Fit.
func (c *DecisionTreeClassifier) Tree() *scitree.Tree { return c.tree_ }

// FeatureNames returns the column names seen during Fit.
func (c *DecisionTreeClassifier) FeatureNames() []string {
	return append([]string(nil), c.featureNames_...)
}

// NFeaturesIn returns the number of columns seen during Fit, 0 before.
func (c *DecisionTreeClassifier) NFeaturesIn() int {
	n, _ := c.state.Dimensions()
	return n
}

// GetDepth returns the height of the fitted tree, 0 before Fit.
func (c *DecisionTreeClassifier) GetDepth() int {
	if c.tree_ == nil {
		return 0
	}
	return c.tree_.Height()
}

// GetNLeaves returns the number of leaves, 0 before Fit.
func (c *DecisionTreeClassifier) GetNLeaves() int {
	if c.tree_ == nil {
		return 0
	}
	return c.tree_.Leaves()
}

// GetFeatureImportances returns the normalized error decrease per feature.
func (c *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	if c.tree_ == nil {
		return nil
	}
	return scitree.FeatureImportances(c.tree_, c.featureNames_)
}

// ExportText renders the fitted tree as indented text.
func (c *DecisionTreeClassifier) ExportText() (string, error) {
	if err := c.state.RequireFitted("DecisionTreeClassifier", "ExportText"); err != nil {
		return "", err
	}
	return c.tree_.String(), nil
}

// GetParams returns the hyperparameters.
func (c *DecisionTreeClassifier) GetParams() map[string]interface{} {
	p := c.getParams()
	var weights map[float64]float64
	if c.classWeight != nil {
		weights = c.clone().classWeight
	}
	p["class_weight"] = weights
	return p
}

// SetParams updates hyperparameters. Nothing changes if any value is
// invalid. A fitted model keeps its tree until the next Fit.
func (c *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	next := c.clone()
	for key, value := range params {
		if err := next.set(key, value); err != nil {
			return err
		}
	}
	if err := next.validate("entropy", true); err != nil {
		return err
	}
	c.params = next
	return nil
}

// Clone returns an unfitted classifier with the same hyperparameters.
func (c *DecisionTreeClassifier) Clone() *DecisionTreeClassifier {
	return &DecisionTreeClassifier{state: model.NewStateManager(), params: c.clone()}
}

func nominalIndices(x *scitree.Frame) []int {
	var indices []int
	for j, k := range x.Kinds() {
		if k == scitree.Nominal {
			indices = append(indices, j)
		}
	}
	return indices
}
