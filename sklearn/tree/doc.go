// Package tree provides scikit-learn style estimators on top of the
// decision-tree induction engine in github.com/YuminosukeSato/scitree/tree.
//
// DecisionTreeClassifier grows an entropy tree over labelled rows and
// DecisionTreeRegressor grows a standard-deviation tree over one or more
// numeric outputs. Both accept gonum matrices, where columns listed with
// WithCategoricalFeatures are treated as nominal, or a *tree.Frame with
// named, typed columns.
//
// # Classification
//
//	clf, err := tree.NewDecisionTreeClassifier(
//	    tree.WithMaxDepth(4),
//	    tree.WithMinSamplesLeaf(2),
//	    tree.WithClassWeight(map[float64]float64{0: 1, 1: 3}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := clf.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	proba, _ := clf.PredictProba(XTest) // columns follow clf.Classes()
//	acc, _ := clf.Score(XTest, yTest)
//
// # Regression
//
//	reg, _ := tree.NewDecisionTreeRegressor(tree.WithSplitter(16))
//	if err := reg.Fit(X, Y); err != nil { // Y may have several columns
//	    log.Fatal(err)
//	}
//	r2, _ := reg.Score(XTest, YTest)
//
// # Hyperparameters
//
// GetParams and SetParams expose the same settings as the options under
// their scikit-learn names: criterion, splitter, max_depth,
// min_samples_split, min_samples_leaf, min_error_decrease,
// categorical_features, feature_names, verbose and, for the classifier,
// class_weight. SetParams validates the whole update before applying it.
//
// With WithVerbose(true) fitting logs its progress and every grown node
// through github.com/YuminosukeSato/scitree/pkg/log.
package tree
