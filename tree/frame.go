package tree

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// Kind tags a feature column with the splitter family that handles it.
type Kind int

const (
	// Numeric columns hold float64 values and are split on thresholds.
	Numeric Kind = iota
	// Nominal columns hold category labels and are split one branch per label.
	Nominal
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Nominal:
		return "nominal"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind resolves a textual column type. "categorical" and "category"
// are accepted as aliases of nominal, "number" of numeric.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "float":
		return Numeric, nil
	case "nominal", "categorical", "category", "string":
		return Nominal, nil
	default:
		return 0, errors.NewValidationError("kind", "must be numeric or nominal", s)
	}
}

// Value is a single cell of a Row. Its Kind must match the column it is
// tested against, otherwise no condition matches it.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Num wraps a numeric cell.
func Num(v float64) Value { return Value{kind: Numeric, num: v} }

// Str wraps a nominal cell.
func Str(s string) Value { return Value{kind: Nominal, str: s} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) Float() float64   { return v.num }
func (v Value) Category() string { return v.str }

func (v Value) String() string {
	if v.kind == Numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.str
}

// Row is one record keyed by column name, as consumed by Tree.Predict.
type Row map[string]Value

// Column is a named, typed feature column.
type Column struct {
	Name    string
	Kind    Kind
	Numeric []float64
	Nominal []string
}

// NumericColumn builds a numeric column.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: Numeric, Numeric: values}
}

// NominalColumn builds a nominal column.
func NominalColumn(name string, values []string) Column {
	return Column{Name: name, Kind: Nominal, Nominal: values}
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	if c.Kind == Nominal {
		return len(c.Nominal)
	}
	return len(c.Numeric)
}

// Value returns cell i.
func (c Column) Value(i int) Value {
	if c.Kind == Nominal {
		return Str(c.Nominal[i])
	}
	return Num(c.Numeric[i])
}

// Frame is an ordered collection of equally long, uniquely named columns.
// It is read-only once built.
type Frame struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewFrame validates and assembles columns into a Frame. Numeric columns
// must hold finite values.
func NewFrame(columns ...Column) (*Frame, error) {
	f := &Frame{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c.Name == "" {
			return nil, errors.NewValidationError("column_name", "must not be empty", i)
		}
		if _, dup := f.index[c.Name]; dup {
			return nil, errors.NewValidationError("column_name", "duplicate column", c.Name)
		}
		if c.Kind != Numeric && c.Kind != Nominal {
			return nil, errors.NewModelError("NewFrame", "unsupported column kind", errors.Newf("column %q has kind %v", c.Name, c.Kind))
		}
		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, errors.NewDimensionError("NewFrame", f.rows, c.Len(), 0)
		}
		if c.Kind == Numeric {
			for r, v := range c.Numeric {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.NewValidationError(c.Name, "numeric column contains a non-finite value", r)
				}
			}
		}
		f.columns[i] = c
		f.index[c.Name] = i
	}
	return f, nil
}

// FrameFromMatrix converts a dense feature matrix into a Frame. Columns
// whose index is listed in nominal are stored as category labels using the
// shortest float formatting, so 1 and 1.0 are the same category.
// Names default to feature0, feature1, ...
func FrameFromMatrix(x mat.Matrix, names []string, nominal []int) (*Frame, error) {
	rows, cols := x.Dims()
	if names == nil {
		names = DefaultFeatureNames(cols)
	}
	if len(names) != cols {
		return nil, errors.NewDimensionError("FrameFromMatrix", cols, len(names), 1)
	}
	isNominal := make(map[int]bool, len(nominal))
	for _, j := range nominal {
		if j < 0 || j >= cols {
			return nil, errors.NewValidationError("categorical_features", "index out of range", j)
		}
		isNominal[j] = true
	}

	columns := make([]Column, cols)
	for j := 0; j < cols; j++ {
		values := mat.Col(nil, j, x)
		if !isNominal[j] {
			columns[j] = NumericColumn(names[j], values)
			continue
		}
		labels := make([]string, rows)
		for i, v := range values {
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		columns[j] = NominalColumn(names[j], labels)
	}
	return NewFrame(columns...)
}

// DefaultFeatureNames returns feature0 ... feature{n-1}.
func DefaultFeatureNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "feature" + strconv.Itoa(i)
	}
	return names
}

func (f *Frame) Rows() int       { return f.rows }
func (f *Frame) NumColumns() int { return len(f.columns) }

// Column returns the i-th column.
func (f *Frame) Column(i int) Column { return f.columns[i] }

// ColumnByName looks a column up by name.
func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.columns[i], true
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Kinds returns the column kinds in order.
func (f *Frame) Kinds() []Kind {
	kinds := make([]Kind, len(f.columns))
	for i, c := range f.columns {
		kinds[i] = c.Kind
	}
	return kinds
}

// Row materializes record i.
func (f *Frame) Row(i int) Row {
	row := make(Row, len(f.columns))
	for _, c := range f.columns {
		row[c.Name] = c.Value(i)
	}
	return row
}
