package tree

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"github.com/YuminosukeSato/scitree/pkg/log"
)

func entropyTrainer(t *testing.T, classes int, opts ...PruneOption) *Trainer {
	t.Helper()
	prune, err := NewPruneCriteria(opts...)
	require.NoError(t, err)
	return NewTrainer(NewGlobalError(mustEntropy(t, classes), exhaustiveSplitters(t)), prune)
}

func numericFrame(t *testing.T, name string, values ...float64) *Frame {
	t.Helper()
	f, err := NewFrame(NumericColumn(name, values))
	require.NoError(t, err)
	return f
}

// alternatingData has 16 rows where x0 = i, x1 = i mod 4 and y = i mod 2.
func alternatingData(t *testing.T) (*Frame, *mat.Dense) {
	t.Helper()
	x0 := make([]float64, 16)
	x1 := make([]float64, 16)
	y := make([]float64, 16)
	for i := range x0 {
		x0[i] = float64(i)
		x1[i] = float64(i % 4)
		y[i] = float64(i % 2)
	}
	f, err := NewFrame(NumericColumn("x0", x0), NumericColumn("x1", x1))
	require.NoError(t, err)
	return f, column(y...)
}

func TestTrainerSeparatingThreshold(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 4, 5, 6, 7, 8)
	y := column(0, 0, 0, 0, 1, 1, 1, 1)

	root, err := entropyTrainer(t, 2, WithMinSamplesLeaf(1), WithMinErrorDecrease(0)).Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, "x", root.Column)
	assert.Equal(t, 3, root.Nodes())
	assert.Equal(t, 2, root.Leaves())
	assert.InDelta(t, 1.0, root.Error, 1e-12)
	require.Len(t, root.Branches, 2)
	for _, b := range root.Branches {
		assert.True(t, b.Child.IsLeaf())
		assert.InDelta(t, 0.0, b.Child.Error, 1e-12)
		assert.Equal(t, 4, b.Child.Samples)
	}
	assert.Equal(t, RangeCondition{Name: "x", Low: math.Inf(-1), High: 4.5}, root.Branches[0].Condition)

	assert.InDeltaSlice(t, []float64{1, 0}, root.Predict(Row{"x": Num(3)}), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1}, root.Predict(Row{"x": Num(5)}), 1e-12)
}

func TestTrainerMinSamplesSplitLeavesRootUnsplit(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 4)
	y := column(0, 0, 1, 1)

	prune, err := NewPruneCriteria(WithMinSamplesSplit(5))
	require.NoError(t, err)
	calls := 0
	counting := map[Kind]ColumnSplitter{Numeric: splitterFunc(func(d *Dataset, feature int, m TargetError) (ColumnSplit, bool) {
		calls++
		return ColumnSplit{}, false
	})}
	trainer := NewTrainer(NewGlobalError(mustEntropy(t, 2), counting), prune)

	var events []NodeEvent
	root, err := trainer.FitWithHooks(x, y, Hooks{Node: []NodeHook{func(e NodeEvent) { events = append(events, e) }}})
	require.NoError(t, err)

	assert.True(t, root.IsLeaf())
	assert.Equal(t, 4, root.Samples)
	assert.Zero(t, calls, "no column is evaluated")
	require.Len(t, events, 1)
	assert.True(t, events[0].Leaf)
	assert.Nil(t, events[0].ColumnErrors)
	assert.Nil(t, events[0].Best)
	assert.Equal(t, 1, events[0].Height)
}

type splitterFunc func(d *Dataset, feature int, m TargetError) (ColumnSplit, bool)

func (f splitterFunc) Split(d *Dataset, feature int, m TargetError) (ColumnSplit, bool) {
	return f(d, feature, m)
}

func TestTrainerRespectsMaxHeight(t *testing.T) {
	x, y := alternatingData(t)
	for _, h := range []int{1, 2, 3, 4} {
		root, err := entropyTrainer(t, 2, WithMaxHeight(h), WithMinErrorDecrease(0)).Fit(x, y)
		require.NoError(t, err)
		root.Walk(func(node *Tree, height int) bool {
			assert.LessOrEqual(t, height, h)
			return true
		})
		assert.LessOrEqual(t, root.Height(), h)
	}

	root, err := entropyTrainer(t, 2, WithMaxHeight(1)).Fit(x, y)
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
}

func TestTrainerMinErrorDecrease(t *testing.T) {
	x, y := alternatingData(t)
	const minDecrease = 0.05

	var events []NodeEvent
	_, err := entropyTrainer(t, 2, WithMinErrorDecrease(minDecrease)).
		FitWithHooks(x, y, Hooks{Node: []NodeHook{func(e NodeEvent) { events = append(events, e) }}})
	require.NoError(t, err)
	require.NotEmpty(t, events)

	for _, e := range events {
		if !e.Leaf {
			require.NotNil(t, e.Best)
			assert.GreaterOrEqual(t, e.Node.Error-e.Best.Error, minDecrease)
			continue
		}
		if e.Best != nil {
			assert.Less(t, e.Node.Error-e.Best.Error, minDecrease)
		}
	}
}

func TestTrainerIsDeterministic(t *testing.T) {
	x, y := alternatingData(t)
	prune, err := NewPruneCriteria(WithMinErrorDecrease(0))
	require.NoError(t, err)
	trainer := NewTrainer(NewGlobalError(mustEntropy(t, 2), exhaustiveSplitters(t), WithParallelThreshold(0)), prune)

	first, err := trainer.Fit(x, y)
	require.NoError(t, err)
	second, err := trainer.Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.String(), second.String())
}

func TestTrainerPureLeavesPredictOneHot(t *testing.T) {
	x, y := alternatingData(t)
	root, err := entropyTrainer(t, 2, WithMinErrorDecrease(0)).Fit(x, y)
	require.NoError(t, err)

	for i := 0; i < x.Rows(); i++ {
		leaf := deepest(root, x.Row(i))
		if leaf.Error != 0 {
			continue
		}
		want := []float64{0, 0}
		want[int(y.At(i, 0))] = 1
		assert.InDeltaSlice(t, want, root.Predict(x.Row(i)), 1e-12, "row %d", i)
	}
}

func deepest(t *Tree, row Row) *Tree {
	node := t
	for !node.IsLeaf() {
		next := node.match(row[node.Column])
		if next == nil {
			return node
		}
		node = next
	}
	return node
}

func TestTrainerDiscardsSmallBranches(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 4, 5, 6, 7)
	y := column(0, 0, 0, 0, 0, 0, 1)

	root, err := entropyTrainer(t, 2, WithMinSamplesLeaf(2), WithMinErrorDecrease(0)).Fit(x, y)
	require.NoError(t, err)

	assert.Equal(t, "x", root.Column)
	require.Len(t, root.Branches, 1, "the single-row branch is dropped")
	assert.Equal(t, RangeCondition{Name: "x", Low: math.Inf(-1), High: 6.5}, root.Branches[0].Condition)
	assert.Equal(t, 6, root.Branches[0].Child.Samples)

	leafRows := 0
	root.Walk(func(node *Tree, _ int) bool {
		if node.IsLeaf() {
			leafRows += node.Samples
		}
		return true
	})
	assert.Equal(t, 6, leafRows, "rows of the dropped branch belong to no leaf")

	// A value routed to the dropped branch falls back to the root prediction.
	assert.InDeltaSlice(t, []float64{6.0 / 7, 1.0 / 7}, root.Predict(Row{"x": Num(7)}), 1e-12)
}

func TestTrainerAllBranchesDiscardedLeavesALeaf(t *testing.T) {
	x := numericFrame(t, "x", 1, 2)
	y := column(0, 1)

	root, err := entropyTrainer(t, 2, WithMinSamplesLeaf(2), WithMinErrorDecrease(0)).Fit(x, y)
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Empty(t, root.Branches)
}

func TestTrainerNominalFallbackAndRemoval(t *testing.T) {
	x, err := NewFrame(
		NominalColumn("color", []string{"red", "red", "blue", "blue", "red", "blue"}),
		NumericColumn("size", []float64{1, 2, 3, 4, 5, 6}),
	)
	require.NoError(t, err)
	y := column(0, 0, 1, 1, 0, 1)

	var branchFeatures [][]string
	root, err := entropyTrainer(t, 2, WithMinErrorDecrease(0)).FitWithHooks(x, y, Hooks{
		Branch: []BranchHook{func(e BranchEvent) {
			branchFeatures = append(branchFeatures, e.Branch.FeatureNames())
		}},
	})
	require.NoError(t, err)

	require.Equal(t, "color", root.Column)
	assert.Equal(t, [][]string{{"size"}, {"size"}}, branchFeatures, "the nominal column is removed below its split")

	assert.InDeltaSlice(t, []float64{1, 0}, root.Predict(Row{"color": Str("red")}), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, root.Predict(Row{"color": Str("green")}), 1e-12, "unseen category")
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, root.Predict(Row{"size": Num(2)}), 1e-12, "missing column")
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, root.Predict(Row{"color": Num(1)}), 1e-12, "kind mismatch")
}

func TestTrainerHookOrder(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 4)
	y := column(0, 0, 1, 1)

	var trace []string
	hooks := Hooks{
		Node: []NodeHook{func(e NodeEvent) {
			trace = append(trace, fmt.Sprintf("node h=%d leaf=%v", e.Height, e.Leaf))
		}},
		Branch: []BranchHook{func(e BranchEvent) {
			trace = append(trace, fmt.Sprintf("branch h=%d %s n=%d", e.Height, e.Condition, e.Branch.Len()))
		}},
	}
	_, err := entropyTrainer(t, 2, WithMinErrorDecrease(0)).FitWithHooks(x, y, hooks)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"node h=1 leaf=false",
		"branch h=1 x <= 2.5 n=2",
		"node h=2 leaf=true",
		"branch h=1 x > 2.5 n=2",
		"node h=2 leaf=true",
	}, trace)
}

func TestTrainerPostSplitPruneCarriesColumnErrors(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 4)
	y := column(0, 1, 0, 1)

	var events []NodeEvent
	root, err := entropyTrainer(t, 2, WithMinErrorDecrease(0.9)).
		FitWithHooks(x, y, Hooks{Node: []NodeHook{func(e NodeEvent) { events = append(events, e) }}})
	require.NoError(t, err)

	assert.True(t, root.IsLeaf())
	require.Len(t, events, 1)
	assert.True(t, events[0].Leaf)
	require.NotNil(t, events[0].ColumnErrors)
	require.NotNil(t, events[0].Best)
	assert.Equal(t, "x", events[0].Best.Column)
}

func TestTrainerRegressionMultiOutput(t *testing.T) {
	x := numericFrame(t, "x", 1, 2, 3, 10, 11, 12)
	y := mat.NewDense(6, 2, []float64{
		1, 2,
		1, 2,
		1, 2,
		5, 8,
		5, 8,
		5, 8,
	})
	prune, err := NewPruneCriteria()
	require.NoError(t, err)
	trainer := NewTrainer(NewGlobalError(NewDeviationMetric(), exhaustiveSplitters(t)), prune)

	root, err := trainer.Fit(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, root.Error, 1e-12)
	assert.Equal(t, 2, root.Leaves())
	assert.InDeltaSlice(t, []float64{1, 2}, root.Predict(Row{"x": Num(0)}), 1e-12)
	assert.InDeltaSlice(t, []float64{5, 8}, root.Predict(Row{"x": Num(100)}), 1e-12)
	assert.InDeltaSlice(t, []float64{3, 5}, root.Prediction, 1e-12)
}

func TestTrainerFitValidation(t *testing.T) {
	trainer := entropyTrainer(t, 2)

	x := numericFrame(t, "x", 1, 2, 3)
	_, err := trainer.Fit(x, column(0, 1))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = trainer.Fit(x, column(0, 1, 2))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr), "class code out of range")

	prune, err := NewPruneCriteria()
	require.NoError(t, err)
	regression := NewTrainer(NewGlobalError(NewDeviationMetric(), exhaustiveSplitters(t)), prune)
	_, err = regression.Fit(x, column(1, math.Inf(1), 2))
	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &numErr))
}

func TestTrainerPropagatesUnregisteredKind(t *testing.T) {
	x, err := NewFrame(NominalColumn("c", []string{"a", "b"}))
	require.NoError(t, err)
	prune, err := NewPruneCriteria()
	require.NoError(t, err)
	trainer := NewTrainer(NewGlobalError(mustEntropy(t, 2), map[Kind]ColumnSplitter{}), prune)

	_, err = trainer.Fit(x, column(0, 1))
	var modelErr *errors.ModelError
	assert.True(t, errors.As(err, &modelErr))
}

func TestLoggingHooks(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	x := numericFrame(t, "x", 1, 2, 3, 4)
	y := column(0, 0, 1, 1)

	hooks := LoggingHooks(logger)
	var nodes int
	hooks = hooks.Merge(Hooks{Node: []NodeHook{func(NodeEvent) { nodes++ }}})

	_, err := entropyTrainer(t, 2, WithMinErrorDecrease(0)).FitWithHooks(x, y, hooks)
	require.NoError(t, err)

	assert.Equal(t, 3, nodes)
	assert.True(t, logger.ContainsMessage("Node split"))
	assert.True(t, logger.ContainsMessage("Leaf created"))
	assert.True(t, logger.ContainsMessage("Branch created"))
	assert.True(t, logger.ContainsField(log.ColumnKey, "x"))
	assert.True(t, logger.ContainsField(log.ConditionKey, "x > 2.5"))
}

func TestTrainerString(t *testing.T) {
	trainer := entropyTrainer(t, 2)
	assert.Equal(t,
		"TreeTrainer(GlobalError(EntropyMetric(classes=2)), Prune(min_error_decrease=1e-05, min_samples_leaf=1, min_samples_split=1, max_height=none, error_tolerance=1e-16))",
		trainer.String())
}
