package tree

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/metrics"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	scitree "github.com/YuminosukeSato/scitree/tree"
)

var (
	_ model.Regressor       = (*DecisionTreeRegressor)(nil)
	_ model.ParameterGetter = (*DecisionTreeRegressor)(nil)
	_ model.ParameterSetter = (*DecisionTreeRegressor)(nil)
	_ model.FrameEstimator  = (*DecisionTreeRegressor)(nil)
)

// DecisionTreeRegressor grows a standard deviation tree. y may have several
// columns; all outputs share one tree and Predict returns one column per
// output.
type DecisionTreeRegressor struct {
	state *model.StateManager
	params

	// Learned
	tree_         *scitree.Tree
	nOutputs_     int
	nFeatures_    int
	featureNames_ []string
	categorical_  []int
}

// NewDecisionTreeRegressor creates a regressor. Defaults: criterion "std",
// splitter "best", no depth limit, min_samples_split 2, min_samples_leaf 1,
// min_error_decrease 0.
func NewDecisionTreeRegressor(opts ...Option) (*DecisionTreeRegressor, error) {
	p := params{
		criterion:       "std",
		splitter:        "best",
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.validate("std", false); err != nil {
		return nil, err
	}
	return &DecisionTreeRegressor{state: model.NewStateManager(), params: p}, nil
}

// Fit trains the regressor.
func (r *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Fit")

	rows, _ := X.Dims()
	yRows, _ := y.Dims()
	if rows != yRows {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", rows, yRows, 0)
	}
	frame, err := scitree.FrameFromMatrix(X, r.featureNames, r.categorical)
	if err != nil {
		return err
	}
	return r.fit(frame, y)
}

// FitFrame trains the regressor on a table with named, typed columns.
func (r *DecisionTreeRegressor) FitFrame(x *scitree.Frame, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.FitFrame")

	if x == nil || y == nil {
		return errors.Wrap(errors.ErrEmptyData, "DecisionTreeRegressor.FitFrame")
	}
	return r.fit(x, y)
}

func (r *DecisionTreeRegressor) fit(x *scitree.Frame, y mat.Matrix) error {
	start := time.Now()
	r.state.Reset()

	metric, err := scitree.NewTargetError(r.criterion, 0, nil)
	if err != nil {
		return err
	}
	trainer, err := r.trainer(metric)
	if err != nil {
		return err
	}

	_, outputs := y.Dims()
	logger := log.GetLoggerWithName("tree.regressor")
	hooks := scitree.Hooks{}
	if r.verbose {
		logger.Info("Training DecisionTreeRegressor",
			log.OperationKey, log.OperationFit,
			log.SamplesKey, x.Rows(),
			log.FeaturesKey, x.NumColumns(),
			log.TargetsKey, outputs,
			log.CriterionKey, r.criterion,
		)
		hooks = scitree.LoggingHooks(logger)
	}

	root, err := trainer.FitWithHooks(x, y, hooks)
	if err != nil {
		return err
	}

	r.tree_ = root
	r.nOutputs_ = outputs
	r.nFeatures_ = x.NumColumns()
	r.featureNames_ = x.Names()
	r.categorical_ = nominalIndices(x)
	r.state.MarkFitted(x.NumColumns(), x.Rows())

	if r.verbose {
		logger.Info("Training completed",
			log.HeightKey, root.Height(),
			log.LeavesKey, root.Leaves(),
			log.NodesKey, root.Nodes(),
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
	return nil
}

// Predict returns one row per sample and one column per output.
func (r *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.state.RequireFitted("DecisionTreeRegressor", "Predict"); err != nil {
		return nil, err
	}
	frame, err := inputFrame("DecisionTreeRegressor.Predict", X, r.featureNames_, r.categorical_)
	if err != nil {
		return nil, err
	}
	return predictRows(r.tree_, frame), nil
}

// PredictFrame is Predict for a table.
func (r *DecisionTreeRegressor) PredictFrame(x *scitree.Frame) (mat.Matrix, error) {
	if err := r.state.RequireFitted("DecisionTreeRegressor", "PredictFrame"); err != nil {
		return nil, err
	}
	return predictRows(r.tree_, x), nil
}

// Score returns the R² of Predict(X) averaged over outputs. An output whose
// true values are constant scores 1 when predicted exactly and 0 otherwise,
// and raises an UndefinedMetricWarning.
func (r *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMultioutput(y, pred)
}

// ScoreFrame is Score for a table.
func (r *DecisionTreeRegressor) ScoreFrame(x *scitree.Frame, y mat.Matrix) (float64, error) {
	pred, err := r.PredictFrame(x)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMultioutput(y, pred)
}

// IsFitted reports whether Fit has completed.
func (r *DecisionTreeRegressor) IsFitted() bool { return r.state.IsFitted() }

// Tree returns the fitted root, or nil before Fit.
func (r *DecisionTreeRegressor) Tree() *scitree.Tree { return r.tree_ }

// FeatureNames returns the column names seen during Fit.
func (r *DecisionTreeRegressor) FeatureNames() []string {
	return append([]string(nil), r.featureNames_...)
}

// NOutputs returns the number of target columns seen during Fit.
func (r *DecisionTreeRegressor) NOutputs() int { return r.nOutputs_ }

// NFeaturesIn returns the number of columns seen during Fit, 0 before.
func (r *DecisionTreeRegressor) NFeaturesIn() int {
	n, _ := r.state.Dimensions()
	return n
}

// GetDepth returns the height of the fitted tree, 0 before Fit.
func (r *DecisionTreeRegressor) GetDepth() int {
	if r.tree_ == nil {
		return 0
	}
	return r.tree_.Height()
}

// GetNLeaves returns the number of leaves, 0 before Fit.
func (r *DecisionTreeRegressor) GetNLeaves() int {
	if r.tree_ == nil {
		return 0
	}
	return r.tree_.Leaves()
}

// GetFeatureImportances returns the normalized error decrease per feature.
func (r *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if r.tree_ == nil {
		return nil
	}
	return scitree.FeatureImportances(r.tree_, r.featureNames_)
}

// ExportText renders the fitted tree as indented text.
func (r *DecisionTreeRegressor) ExportText() (string, error) {
	if err := r.state.RequireFitted("DecisionTreeRegressor", "ExportText"); err != nil {
		return "", err
	}
	return r.tree_.String(), nil
}

// GetParams returns the hyperparameters.
func (r *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return r.getParams()
}

// SetParams updates hyperparameters. Nothing changes if any value is
// invalid.
func (r *DecisionTreeRegressor) SetParams(params map[string]interface{}) error {
	next := r.clone()
	for key, value := range params {
		if err := next.set(key, value); err != nil {
			return err
		}
	}
	if err := next.validate("std", false); err != nil {
		return err
	}
	r.params = next
	return nil
}

// Clone returns an unfitted regressor with the same hyperparameters.
func (r *DecisionTreeRegressor) Clone() *DecisionTreeRegressor {
	return &DecisionTreeRegressor{state: model.NewStateManager(), params: r.clone()}
}
