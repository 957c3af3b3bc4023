package tree

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	scitree "github.com/YuminosukeSato/scitree/tree"
)

// params holds the hyperparameters shared by the classifier and the
// regressor. maxDepth 0 means the depth is unbounded.
type params struct {
	criterion        string
	splitter         interface{}
	maxDepth         int
	minSamplesSplit  int
	minSamplesLeaf   int
	minErrorDecrease float64
	classWeight      map[float64]float64
	categorical      []int
	featureNames     []string
	verbose          bool
}

// Option configures a DecisionTreeClassifier or DecisionTreeRegressor.
type Option func(*params)

// WithCriterion sets the error measure: "entropy" for the classifier,
// "std" for the regressor.
func WithCriterion(criterion string) Option {
	return func(p *params) {
		p.criterion = criterion
	}
}

// WithSplitter sets the per-column evaluation budget of the numeric
// threshold search: "best" for an exhaustive search or a positive integer.
func WithSplitter(splitter interface{}) Option {
	return func(p *params) {
		p.splitter = splitter
	}
}

// WithMaxDepth bounds the height of the tree; the root alone has depth 1.
// 0 removes the bound.
func WithMaxDepth(depth int) Option {
	return func(p *params) {
		p.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the number of rows a node needs to be split.
func WithMinSamplesSplit(n int) Option {
	return func(p *params) {
		p.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the number of rows a branch needs to be kept.
func WithMinSamplesLeaf(n int) Option {
	return func(p *params) {
		p.minSamplesLeaf = n
	}
}

// WithMinErrorDecrease sets the error decrease a split must achieve.
func WithMinErrorDecrease(v float64) Option {
	return func(p *params) {
		p.minErrorDecrease = v
	}
}

// WithClassWeight weights each class label when estimating class
// distributions. Only the classifier accepts it.
func WithClassWeight(weights map[float64]float64) Option {
	return func(p *params) {
		p.classWeight = weights
	}
}

// WithCategoricalFeatures marks columns of X that hold category codes
// instead of numbers.
func WithCategoricalFeatures(indices ...int) Option {
	return func(p *params) {
		p.categorical = indices
	}
}

// WithFeatureNames names the columns of X. Defaults to feature0, feature1, ...
func WithFeatureNames(names ...string) Option {
	return func(p *params) {
		p.featureNames = names
	}
}

// WithVerbose logs training progress and every node at debug level.
func WithVerbose(verbose bool) Option {
	return func(p *params) {
		p.verbose = verbose
	}
}

func (p params) clone() params {
	c := p
	c.categorical = slices.Clone(p.categorical)
	c.featureNames = slices.Clone(p.featureNames)
	if p.classWeight != nil {
		c.classWeight = make(map[float64]float64, len(p.classWeight))
		for k, v := range p.classWeight {
			c.classWeight[k] = v
		}
	}
	return c
}

// validate checks the configuration against the single criterion the
// estimator supports.
func (p *params) validate(criterion string, classifier bool) error {
	if p.criterion != criterion {
		return errors.NewValidationError("criterion", fmt.Sprintf("expected %q", criterion), p.criterion)
	}
	if _, err := scitree.ParseSplitter(p.splitter); err != nil {
		return err
	}
	if p.maxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be positive, or 0 for no limit", p.maxDepth)
	}
	if _, err := p.pruneCriteria(); err != nil {
		return err
	}
	if !classifier && p.classWeight != nil {
		return errors.NewValidationError("class_weight", "only supported for classification", p.classWeight)
	}
	for label, w := range p.classWeight {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.NewValidationError("class_weight", fmt.Sprintf("weight of class %v must be finite and non-negative", label), w)
		}
	}
	for _, j := range p.categorical {
		if j < 0 {
			return errors.NewValidationError("categorical_features", "index must be non-negative", j)
		}
	}
	return nil
}

func (p *params) pruneCriteria() (*scitree.PruneCriteria, error) {
	opts := []scitree.PruneOption{
		scitree.WithMinErrorDecrease(p.minErrorDecrease),
		scitree.WithMinSamplesLeaf(p.minSamplesLeaf),
		scitree.WithMinSamplesSplit(p.minSamplesSplit),
	}
	if p.maxDepth > 0 {
		opts = append(opts, scitree.WithMaxHeight(p.maxDepth))
	}
	return scitree.NewPruneCriteria(opts...)
}

func (p *params) trainer(metric scitree.TargetError) (*scitree.Trainer, error) {
	evals, err := scitree.ParseSplitter(p.splitter)
	if err != nil {
		return nil, err
	}
	strategy, err := scitree.NewOptimizingDiscretization(evals)
	if err != nil {
		return nil, err
	}
	prune, err := p.pruneCriteria()
	if err != nil {
		return nil, err
	}
	return scitree.NewTrainer(scitree.NewGlobalError(metric, scitree.DefaultSplitters(strategy)), prune), nil
}

func (p *params) getParams() map[string]interface{} {
	var maxDepth interface{}
	if p.maxDepth > 0 {
		maxDepth = p.maxDepth
	}
	return map[string]interface{}{
		"criterion":            p.criterion,
		"splitter":             p.splitter,
		"max_depth":            maxDepth,
		"min_samples_split":    p.minSamplesSplit,
		"min_samples_leaf":     p.minSamplesLeaf,
		"min_error_decrease":   p.minErrorDecrease,
		"categorical_features": slices.Clone(p.categorical),
		"feature_names":        slices.Clone(p.featureNames),
		"verbose":              p.verbose,
	}
}

// set applies one named parameter. Integers may arrive as int, int64 or an
// integral float64, as produced by YAML and JSON decoders.
func (p *params) set(key string, value interface{}) error {
	switch key {
	case "criterion":
		s, ok := value.(string)
		if !ok {
			return errors.NewValidationError(key, "must be a string", value)
		}
		p.criterion = s
	case "splitter":
		p.splitter = value
	case "max_depth":
		if value == nil {
			p.maxDepth = 0
			return nil
		}
		n, err := toInt(key, value)
		if err != nil {
			return err
		}
		p.maxDepth = n
	case "min_samples_split":
		n, err := toInt(key, value)
		if err != nil {
			return err
		}
		p.minSamplesSplit = n
	case "min_samples_leaf":
		n, err := toInt(key, value)
		if err != nil {
			return err
		}
		p.minSamplesLeaf = n
	case "min_error_decrease":
		v, err := toFloat(key, value)
		if err != nil {
			return err
		}
		p.minErrorDecrease = v
	case "class_weight":
		switch w := value.(type) {
		case nil:
			p.classWeight = nil
		case map[float64]float64:
			p.classWeight = w
		default:
			return errors.NewValidationError(key, "must be a map from class label to weight", value)
		}
	case "categorical_features":
		indices, ok := value.([]int)
		if !ok && value != nil {
			return errors.NewValidationError(key, "must be a list of column indices", value)
		}
		p.categorical = indices
	case "feature_names":
		names, ok := value.([]string)
		if !ok && value != nil {
			return errors.NewValidationError(key, "must be a list of names", value)
		}
		p.featureNames = names
	case "verbose":
		b, ok := value.(bool)
		if !ok {
			return errors.NewValidationError(key, "must be a bool", value)
		}
		p.verbose = b
	default:
		return errors.NewValidationError(key, "unknown parameter", value)
	}
	return nil
}

func toInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), nil
		}
	}
	return 0, errors.NewValidationError(key, "must be an integer", value)
}

func toFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, errors.NewValidationError(key, "must be a number", value)
}

// inputFrame converts X with the column layout seen at fit time.
func inputFrame(op string, X mat.Matrix, names []string, categorical []int) (*scitree.Frame, error) {
	_, cols := X.Dims()
	if cols != len(names) {
		return nil, errors.NewDimensionError(op, len(names), cols, 1)
	}
	return scitree.FrameFromMatrix(X, names, categorical)
}

// predictRows stacks the tree prediction of every row of x.
func predictRows(root *scitree.Tree, x *scitree.Frame) *mat.Dense {
	if x.Rows() == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(x.Rows(), len(root.Prediction), nil)
	for i := 0; i < x.Rows(); i++ {
		out.SetRow(i, root.Predict(x.Row(i)))
	}
	return out
}
