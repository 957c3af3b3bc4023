// Package tree implements greedy decision-tree induction over mixed
// numeric and nominal feature tables.
//
// A Trainer grows a Tree by recursively partitioning the rows of a Frame so
// that the aggregate TargetError of the branches decreases. The search is
// assembled from small, replaceable parts:
//
//   - TargetError scores the purity (EntropyMetric) or dispersion
//     (DeviationMetric) of a set of targets and produces the node prediction.
//   - ColumnSplitter proposes a partition for one feature. Nominal columns
//     get one branch per category; numeric columns are cut by a
//     DiscretizationStrategy under an evaluation budget.
//   - GlobalError evaluates the node and every remaining feature, dispatching
//     on the feature Kind.
//   - PruneCriteria decides when a node stays a leaf, before and after the
//     best split is known.
//
// Example:
//
//	metric, _ := tree.NewEntropyMetric(2, nil)
//	strategy, _ := tree.NewOptimizingDiscretization(tree.UnboundedEvals)
//	global := tree.NewGlobalError(metric, tree.DefaultSplitters(strategy))
//	prune, _ := tree.NewPruneCriteria(tree.WithMaxHeight(4))
//	root, err := tree.NewTrainer(global, prune).Fit(frame, y)
//	if err != nil {
//		return err
//	}
//	proba := root.Predict(frame.Row(0))
package tree
