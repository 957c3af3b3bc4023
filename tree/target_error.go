package tree

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// probabilityFloor bounds probabilities away from zero before the logarithm.
const probabilityFloor = 1e-32

// TargetError scores a set of target rows and produces the prediction a
// leaf holding them would return. Implementations are stateless and safe
// for concurrent use.
type TargetError interface {
	// Evaluate returns the impurity or dispersion of y. Lower is better.
	Evaluate(y mat.Matrix) float64
	// Predict returns the leaf prediction for y.
	Predict(y mat.Matrix) []float64
	// Validate checks that y can be scored by the metric.
	Validate(y mat.Matrix) error
	String() string
}

// EntropyMetric is the classification metric. Targets hold integer class
// codes in their first column. The entropy logarithm uses the number of
// classes as base, so a uniform distribution scores exactly 1.
type EntropyMetric struct {
	classes int
	weights []float64
}

// NewEntropyMetric creates an entropy metric over classes classes. weights,
// when non-nil, rescales the class counts before normalization and must
// have one non-negative entry per class.
func NewEntropyMetric(classes int, weights []float64) (*EntropyMetric, error) {
	if classes < 2 {
		return nil, errors.NewValidationError("classes", "entropy needs at least two classes", classes)
	}
	if weights != nil {
		if len(weights) != classes {
			return nil, errors.NewDimensionError("NewEntropyMetric", classes, len(weights), 1)
		}
		for _, w := range weights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, errors.NewValidationError("class_weight", "weights must be finite and non-negative", weights)
			}
		}
		weights = append([]float64(nil), weights...)
	}
	return &EntropyMetric{classes: classes, weights: weights}, nil
}

// Classes returns the number of classes.
func (m *EntropyMetric) Classes() int { return m.classes }

// Predict returns the (weighted) class distribution of y. Empty input, or
// input whose weighted counts are all zero, yields the uniform distribution.
func (m *EntropyMetric) Predict(y mat.Matrix) []float64 {
	counts := make([]float64, m.classes)
	r, _ := dims(y)
	for i := 0; i < r; i++ {
		c := int(y.At(i, 0))
		if c >= 0 && c < m.classes {
			counts[c]++
		}
	}
	if m.weights != nil {
		floats.Mul(counts, m.weights)
	}
	total := floats.Sum(counts)
	if total == 0 {
		for i := range counts {
			counts[i] = 1 / float64(m.classes)
		}
		return counts
	}
	floats.Scale(1/total, counts)
	return counts
}

// Evaluate returns -Σ p·log_k(max(p, 1e-32)).
func (m *EntropyMetric) Evaluate(y mat.Matrix) float64 {
	p := m.Predict(y)
	base := math.Log(float64(m.classes))
	var h float64
	for _, pi := range p {
		h -= pi * math.Log(math.Max(pi, probabilityFloor)) / base
	}
	return h
}

// Validate rejects codes that are not integers in [0, classes).
func (m *EntropyMetric) Validate(y mat.Matrix) error {
	r, c := dims(y)
	if c < 1 {
		return errors.NewDimensionError("EntropyMetric.Validate", 1, c, 1)
	}
	for i := 0; i < r; i++ {
		v := y.At(i, 0)
		if v != math.Trunc(v) || v < 0 || v >= float64(m.classes) {
			return errors.NewValidationError("y", "class codes must be integers in [0, classes)", v)
		}
	}
	return nil
}

func (m *EntropyMetric) String() string {
	return "EntropyMetric(classes=" + strconv.Itoa(m.classes) + ")"
}

// DeviationMetric is the regression metric: the sum over outputs of the
// population standard deviation. An empty set scores +Inf.
type DeviationMetric struct{}

// NewDeviationMetric creates a deviation metric.
func NewDeviationMetric() *DeviationMetric { return &DeviationMetric{} }

// Predict returns the per-output mean. Empty input has no outputs and
// yields nil.
func (DeviationMetric) Predict(y mat.Matrix) []float64 {
	r, c := dims(y)
	if r == 0 {
		return nil
	}
	means := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, y)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

func (DeviationMetric) Evaluate(y mat.Matrix) float64 {
	r, c := dims(y)
	if r == 0 {
		return math.Inf(1)
	}
	var total float64
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, y)
		_, variance := stat.PopMeanVariance(col, nil)
		total += math.Sqrt(math.Max(variance, 0))
	}
	return total
}

// Validate rejects NaN and infinite targets.
func (DeviationMetric) Validate(y mat.Matrix) error {
	r, c := dims(y)
	return errors.CheckMatrix("target_validation", y, r, c)
}

func (DeviationMetric) String() string { return "DeviationMetric" }

// dims tolerates nil and zero-value matrices.
func dims(y mat.Matrix) (int, int) {
	if y == nil {
		return 0, 0
	}
	if d, ok := y.(*mat.Dense); ok && d.IsEmpty() {
		return 0, 0
	}
	return y.Dims()
}

type targetErrorFactory func(classes int, weights []float64) (TargetError, error)

var targetErrors = map[string]targetErrorFactory{
	"entropy": func(classes int, weights []float64) (TargetError, error) {
		m, err := NewEntropyMetric(classes, weights)
		if err != nil {
			return nil, err
		}
		return m, nil
	},
	"std": func(int, []float64) (TargetError, error) {
		return NewDeviationMetric(), nil
	},
}

// NewTargetError looks a metric up by name. "entropy" uses classes and
// weights; "std" ignores them.
func NewTargetError(name string, classes int, weights []float64) (TargetError, error) {
	factory, ok := targetErrors[name]
	if !ok {
		return nil, errors.NewValidationError("criterion", "unknown error function, expected one of "+criterionNames(), name)
	}
	return factory(classes, weights)
}

func criterionNames() string {
	names := make([]string, 0, len(targetErrors))
	for name := range targetErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, n := range names {
		names[i] = strconv.Quote(n)
	}
	return strings.Join(names, ", ")
}
