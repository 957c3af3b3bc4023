package tree

import (
	"strconv"
	"strings"

	"github.com/YuminosukeSato/scitree/core/parallel"
	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// DefaultParallelThreshold is the feature count above which column errors
// are computed concurrently.
const DefaultParallelThreshold = 8

// GlobalErrorResult is the error and prediction of all rows at a node.
type GlobalErrorResult struct {
	Prediction []float64
	Error      float64
}

// ColumnErrors holds the usable splits of a node in feature order.
type ColumnErrors struct {
	splits []ColumnSplit
	index  map[string]int
}

func newColumnErrors(splits []ColumnSplit) *ColumnErrors {
	index := make(map[string]int, len(splits))
	for i, s := range splits {
		index[s.Column] = i
	}
	return &ColumnErrors{splits: splits, index: index}
}

// Len returns the number of usable splits.
func (c *ColumnErrors) Len() int { return len(c.splits) }

// All returns the splits in feature order.
func (c *ColumnErrors) All() []ColumnSplit { return c.splits }

// Get returns the split proposed for column.
func (c *ColumnErrors) Get(column string) (ColumnSplit, bool) {
	i, ok := c.index[column]
	if !ok {
		return ColumnSplit{}, false
	}
	return c.splits[i], true
}

// Best returns the split with the lowest error. The first one in feature
// order wins ties.
func (c *ColumnErrors) Best() (ColumnSplit, bool) {
	if len(c.splits) == 0 {
		return ColumnSplit{}, false
	}
	best := 0
	for i := 1; i < len(c.splits); i++ {
		if c.splits[i].Error < c.splits[best].Error {
			best = i
		}
	}
	return c.splits[best], true
}

func (c *ColumnErrors) String() string {
	parts := make([]string, len(c.splits))
	for i, s := range c.splits {
		parts[i] = s.Column + "=" + strconv.FormatFloat(s.Error, 'g', 6, 64)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// GlobalError scores a node and dispatches each available feature to the
// splitter registered for its Kind.
type GlobalError struct {
	metric            TargetError
	splitters         map[Kind]ColumnSplitter
	parallelThreshold int
}

// GlobalErrorOption configures a GlobalError.
type GlobalErrorOption func(*GlobalError)

// WithParallelThreshold sets the number of features above which column
// errors are computed on several goroutines.
func WithParallelThreshold(n int) GlobalErrorOption {
	return func(g *GlobalError) {
		g.parallelThreshold = n
	}
}

// NewGlobalError creates an aggregator for metric and the splitter table.
func NewGlobalError(metric TargetError, splitters map[Kind]ColumnSplitter, opts ...GlobalErrorOption) *GlobalError {
	table := make(map[Kind]ColumnSplitter, len(splitters))
	for k, s := range splitters {
		table[k] = s
	}
	g := &GlobalError{
		metric:            metric,
		splitters:         table,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Metric returns the target error used for scoring.
func (g *GlobalError) Metric() TargetError { return g.metric }

// Global scores all rows of d.
func (g *GlobalError) Global(d *Dataset) GlobalErrorResult {
	y := d.Targets()
	return GlobalErrorResult{Prediction: g.metric.Predict(y), Error: g.metric.Evaluate(y)}
}

// ColumnErrors evaluates every feature still available in d. Columns that
// cannot be split usefully are left out. A feature whose Kind has no
// registered splitter is an error.
func (g *GlobalError) ColumnErrors(d *Dataset) (*ColumnErrors, error) {
	features := d.Features()
	splitters := make([]ColumnSplitter, len(features))
	for i, j := range features {
		col := d.frame.columns[j]
		s, ok := g.splitters[col.Kind]
		if !ok {
			return nil, errors.NewModelError("GlobalError.ColumnErrors", "unsupported column kind",
				errors.Newf("no splitter registered for column %q of kind %v", col.Name, col.Kind))
		}
		splitters[i] = s
	}

	slots := make([]ColumnSplit, len(features))
	usable := make([]bool, len(features))
	parallel.Each(len(features), g.parallelThreshold, func(i int) {
		slots[i], usable[i] = splitters[i].Split(d, features[i], g.metric)
	})

	splits := make([]ColumnSplit, 0, len(features))
	for i, ok := range usable {
		if ok {
			splits = append(splits, slots[i])
		}
	}
	return newColumnErrors(splits), nil
}

func (g *GlobalError) String() string {
	return "GlobalError(" + g.metric.String() + ")"
}
