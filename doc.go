// Package scitree grows decision trees over tables that mix numeric and
// nominal columns, for classification and for single or multi-output
// regression.
//
// scitree offers a scikit-learn-like API on top of a small induction engine
// whose parts (error measure, column splitters, pruning) can be replaced
// independently.
//
// # Features
//
// - Mixed feature types: numeric thresholds and one branch per category
// - Entropy with class weights, or standard deviation over several outputs
// - Bounded search: cap the cut points evaluated per numeric column
// - Observable: hooks for every node and branch, zerolog-backed logging
// - Structured errors with stack traces (cockroachdb/errors)
//
// # Installation
//
//	go get github.com/YuminosukeSato/scitree
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    sktree "github.com/YuminosukeSato/scitree/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
//	    y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
//
//	    clf, err := sktree.NewDecisionTreeClassifier(
//	        sktree.WithMinSamplesSplit(2),
//	        sktree.WithMinSamplesLeaf(1),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := clf.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    text, _ := clf.ExportText()
//	    fmt.Print(text)
//	}
//
// # Packages
//
//   - tree: the induction engine (Frame, TargetError, splitters, Trainer, Tree)
//   - sklearn/tree: DecisionTreeClassifier and DecisionTreeRegressor
//   - metrics: Evaluation metrics (accuracy, MSE, RMSE, MAE, R²)
//   - preprocessing: LabelEncoder
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: structured errors and logging
//
// The scitree command (cmd/scitree) fits a tree described by a YAML job
// file against a CSV file and can chart the feature importances.
//
// # Performance
//
// Candidate columns of a node are scored in parallel once there are enough
// of them (see tree.WithParallelThreshold). Trees are identical for any
// threshold.
//
// # License
//
// scitree is released under the MIT License.
package scitree
