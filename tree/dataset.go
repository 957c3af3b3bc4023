package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// Dataset is the view of the training data that reaches one node: a subset
// of the root rows and the features still available for splitting. Views
// share the root Frame and target matrix and are never modified after
// creation, so sibling branches cannot observe each other.
type Dataset struct {
	frame    *Frame
	y        *mat.Dense
	rows     []int
	features []int
}

// NewDataset builds the root view over every row and column.
func NewDataset(x *Frame, y mat.Matrix) (*Dataset, error) {
	if x == nil || y == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewDataset")
	}
	r, c := y.Dims()
	if r != x.Rows() {
		return nil, errors.NewDimensionError("NewDataset", x.Rows(), r, 0)
	}
	if r == 0 || c == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "NewDataset: targets have shape (%d, %d)", r, c)
	}
	rows := make([]int, r)
	for i := range rows {
		rows[i] = i
	}
	features := make([]int, x.NumColumns())
	for j := range features {
		features[j] = j
	}
	return &Dataset{frame: x, y: mat.DenseCopyOf(y), rows: rows, features: features}, nil
}

// Len returns the number of rows in the view.
func (d *Dataset) Len() int { return len(d.rows) }

// Outputs returns the number of target columns.
func (d *Dataset) Outputs() int {
	_, c := d.y.Dims()
	return c
}

// Frame returns the root feature table.
func (d *Dataset) Frame() *Frame { return d.frame }

// Rows returns the root row indices in the view.
func (d *Dataset) Rows() []int { return d.rows }

// Features returns the indices of the root columns still available.
func (d *Dataset) Features() []int { return d.features }

// FeatureNames returns the names of the available columns.
func (d *Dataset) FeatureNames() []string {
	names := make([]string, len(d.features))
	for i, j := range d.features {
		names[i] = d.frame.columns[j].Name
	}
	return names
}

// Targets copies the target rows of the view into a new matrix. An empty
// view yields a zero-sized matrix.
func (d *Dataset) Targets() *mat.Dense {
	return d.targetsOf(d.rows)
}

func (d *Dataset) targetsOf(rows []int) *mat.Dense {
	if len(rows) == 0 {
		return &mat.Dense{}
	}
	_, c := d.y.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		out.SetRow(i, d.y.RawRowView(r))
	}
	return out
}

// subset keeps the feature view and restricts rows.
func (d *Dataset) subset(rows []int) *Dataset {
	return &Dataset{frame: d.frame, y: d.y, rows: rows, features: d.features}
}

// without drops a column from the feature view by name.
func (d *Dataset) without(column string) *Dataset {
	features := make([]int, 0, len(d.features))
	for _, j := range d.features {
		if d.frame.columns[j].Name != column {
			features = append(features, j)
		}
	}
	return &Dataset{frame: d.frame, y: d.y, rows: d.rows, features: features}
}

// partition routes every row to the first condition it satisfies. Rows
// matching no condition are dropped.
func (d *Dataset) partition(column string, conditions []Condition) []*Dataset {
	col, _ := d.frame.ColumnByName(column)
	buckets := make([][]int, len(conditions))
	for _, r := range d.rows {
		v := col.Value(r)
		for b, cond := range conditions {
			if cond.Match(v) {
				buckets[b] = append(buckets[b], r)
				break
			}
		}
	}
	out := make([]*Dataset, len(conditions))
	for b, rows := range buckets {
		out[b] = d.subset(rows)
	}
	return out
}
