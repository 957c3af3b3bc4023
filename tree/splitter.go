package tree

// ColumnSplit is the partition a ColumnSplitter proposes for one column.
type ColumnSplit struct {
	Column string
	// Error is Σ (n_b / n) · Evaluate(y_b) over the branches.
	Error      float64
	Conditions []Condition
	// Remove excludes the column from every descendant of the split.
	Remove bool
}

// ColumnSplitter proposes a split of the rows of d along one feature.
// ok is false when the column cannot produce at least two non-empty
// branches.
type ColumnSplitter interface {
	Split(d *Dataset, feature int, metric TargetError) (split ColumnSplit, ok bool)
}

// NominalSplitter isolates every category present at the node into its own
// branch, in order of first appearance.
type NominalSplitter struct{}

func (NominalSplitter) Split(d *Dataset, feature int, metric TargetError) (ColumnSplit, bool) {
	col := d.frame.columns[feature]
	if col.Kind != Nominal {
		return ColumnSplit{}, false
	}
	var order []string
	groups := make(map[string][]int)
	for _, r := range d.rows {
		v := col.Nominal[r]
		if _, seen := groups[v]; !seen {
			order = append(order, v)
		}
		groups[v] = append(groups[v], r)
	}
	if len(order) < 2 {
		return ColumnSplit{}, false
	}

	n := float64(d.Len())
	var score float64
	conditions := make([]Condition, len(order))
	for i, v := range order {
		rows := groups[v]
		score += float64(len(rows)) / n * metric.Evaluate(d.targetsOf(rows))
		conditions[i] = ValueCondition{Name: col.Name, Value: v}
	}
	return ColumnSplit{Column: col.Name, Error: score, Conditions: conditions, Remove: true}, true
}

// NumericSplitter cuts a numeric column into intervals found by Strategy.
type NumericSplitter struct {
	Strategy DiscretizationStrategy
}

// NewNumericSplitter creates a splitter backed by strategy.
func NewNumericSplitter(strategy DiscretizationStrategy) *NumericSplitter {
	return &NumericSplitter{Strategy: strategy}
}

func (s *NumericSplitter) Split(d *Dataset, feature int, metric TargetError) (ColumnSplit, bool) {
	col := d.frame.columns[feature]
	if col.Kind != Numeric {
		return ColumnSplit{}, false
	}
	values := make([]float64, d.Len())
	for i, r := range d.rows {
		values[i] = col.Numeric[r]
	}
	cuts, score, ok := s.Strategy.Discretize(values, d.Targets(), metric)
	if !ok || len(cuts) == 0 {
		return ColumnSplit{}, false
	}
	return ColumnSplit{
		Column:     col.Name,
		Error:      score,
		Conditions: rangeConditions(col.Name, cuts),
		Remove:     false,
	}, true
}

// DefaultSplitters registers a NominalSplitter and a NumericSplitter backed
// by strategy.
func DefaultSplitters(strategy DiscretizationStrategy) map[Kind]ColumnSplitter {
	return map[Kind]ColumnSplitter{
		Numeric: NewNumericSplitter(strategy),
		Nominal: NominalSplitter{},
	}
}
