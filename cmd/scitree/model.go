package main

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
	"github.com/YuminosukeSato/scitree/preprocessing"
	sktree "github.com/YuminosukeSato/scitree/sklearn/tree"
)

// result is what a trained job reports back to the commands.
type result struct {
	task        string
	tree        string
	classes     []string
	score       float64
	names       []string
	importances []float64
}

// scoreName is the training metric label printed for the task.
func (r *result) scoreName() string {
	if r.task == taskRegression {
		return "training r2"
	}
	return "training accuracy"
}

// train loads the job's data and fits the estimator it asks for.
func train(j *job, verbose bool) (*result, error) {
	t, err := loadTable(j)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("cli").Info("Training set loaded",
		log.SamplesKey, t.features.Rows(),
		log.FeaturesKey, t.features.NumColumns(),
		"target", j.Target,
		"task", j.Task,
	)
	if j.Task == taskRegression {
		return trainRegressor(j, t, verbose)
	}
	return trainClassifier(j, t, verbose)
}

func trainClassifier(j *job, t *table, verbose bool) (*result, error) {
	encoder := preprocessing.NewLabelEncoder[string]()
	codes, err := encoder.FitTransform(t.target)
	if err != nil {
		return nil, errors.Wrap(err, "encoding target")
	}
	clf, err := sktree.NewDecisionTreeClassifier(sktree.WithVerbose(verbose))
	if err != nil {
		return nil, err
	}
	if err := clf.SetParams(j.Params); err != nil {
		return nil, errors.Wrap(err, "params")
	}
	if len(j.ClassWeight) > 0 {
		weights := make(map[float64]float64, len(j.ClassWeight))
		for label, w := range j.ClassWeight {
			code, err := encoder.Transform([]string{label})
			if err != nil {
				return nil, errors.Wrap(err, "class_weight")
			}
			weights[float64(code[0])] = w
		}
		if err := clf.SetParams(map[string]interface{}{"class_weight": weights}); err != nil {
			return nil, err
		}
	}

	y := mat.NewDense(len(codes), 1, nil)
	for i, code := range codes {
		y.Set(i, 0, float64(code))
	}
	res := &result{task: taskClassification, classes: encoder.Classes()}
	if err := fitAndDescribe(clf, t, y, res); err != nil {
		return nil, err
	}
	return res, nil
}

func trainRegressor(j *job, t *table, verbose bool) (*result, error) {
	values, err := parseFloats(t.target)
	if err != nil {
		return nil, errors.Wrapf(err, "target column %q", j.Target)
	}
	reg, err := sktree.NewDecisionTreeRegressor(sktree.WithVerbose(verbose))
	if err != nil {
		return nil, err
	}
	if err := reg.SetParams(j.Params); err != nil {
		return nil, errors.Wrap(err, "params")
	}

	y := mat.NewDense(len(values), 1, values)
	res := &result{task: taskRegression}
	if err := fitAndDescribe(reg, t, y, res); err != nil {
		return nil, err
	}
	return res, nil
}

// fitAndDescribe fits est on the table and fills the tree text, training
// score and importances of res.
func fitAndDescribe(est model.FrameEstimator, t *table, y mat.Matrix, res *result) error {
	if err := est.FitFrame(t.features, y); err != nil {
		return err
	}
	score, err := est.ScoreFrame(t.features, y)
	if err != nil {
		return err
	}
	if res.tree, err = est.ExportText(); err != nil {
		return err
	}
	res.score = score
	res.names = est.FeatureNames()
	res.importances = est.GetFeatureImportances()
	return nil
}
