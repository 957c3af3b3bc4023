package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/tree"
)

const (
	taskClassification = "classification"
	taskRegression     = "regression"
)

// job is one training run as described by a YAML file:
//
//	data: weather.csv
//	target: play
//	task: classification
//	features:
//	  outlook: nominal
//	  humidity: numeric
//	params:
//	  max_depth: 3
//	  min_samples_leaf: 2
//	class_weight:
//	  "yes": 1
//	  "no": 2
//
// Columns missing from features are skipped when features is set, otherwise
// every non-target column is used and its kind inferred from the values.
type job struct {
	Data        string                 `yaml:"data"`
	Target      string                 `yaml:"target"`
	Task        string                 `yaml:"task"`
	Features    map[string]string      `yaml:"features"`
	Params      map[string]interface{} `yaml:"params"`
	ClassWeight map[string]float64     `yaml:"class_weight"`
}

// readJobFile parses the job at path. A relative data path is resolved
// against the directory holding the job file.
func readJobFile(path string) (*job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading job file %s", path)
	}
	j, err := parseJob(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing job file %s", path)
	}
	if !filepath.IsAbs(j.Data) {
		j.Data = filepath.Join(filepath.Dir(path), j.Data)
	}
	return j, nil
}

func parseJob(raw []byte) (*job, error) {
	j := &job{}
	if err := yaml.Unmarshal(raw, j); err != nil {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if j.Task == "" {
		j.Task = taskClassification
	}
	if err := j.validate(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *job) validate() error {
	if j.Data == "" {
		return errors.NewValidationError("data", "is required", j.Data)
	}
	if j.Target == "" {
		return errors.NewValidationError("target", "is required", j.Target)
	}
	switch j.Task {
	case taskClassification, taskRegression:
	default:
		return errors.NewValidationError("task", "must be classification or regression", j.Task)
	}
	if j.Task == taskRegression && len(j.ClassWeight) > 0 {
		return errors.NewValidationError("class_weight", "only applies to classification", j.ClassWeight)
	}
	if _, ok := j.Features[j.Target]; ok {
		return errors.NewValidationError("features", "must not list the target column", j.Target)
	}
	for name, kind := range j.Features {
		if _, err := tree.ParseKind(kind); err != nil {
			return errors.Wrapf(err, "feature %q", name)
		}
	}
	return nil
}
