package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

func column(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}

func TestEntropyMetric(t *testing.T) {
	metric, err := NewEntropyMetric(2, nil)
	require.NoError(t, err)

	t.Run("constant vector has zero entropy", func(t *testing.T) {
		assert.InDelta(t, 0.0, metric.Evaluate(column(1, 1, 1)), 1e-12)
		assert.InDeltaSlice(t, []float64{0, 1}, metric.Predict(column(1, 1, 1)), 1e-12)
	})

	t.Run("balanced binary target", func(t *testing.T) {
		y := column(0, 0, 1, 1)
		assert.InDelta(t, 1.0, metric.Evaluate(y), 1e-12)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, metric.Predict(y), 1e-12)
	})

	t.Run("empty input is uniform", func(t *testing.T) {
		assert.Equal(t, []float64{0.5, 0.5}, metric.Predict(&mat.Dense{}))
		assert.InDelta(t, 1.0, metric.Evaluate(&mat.Dense{}), 1e-12)
	})
}

func TestEntropyMetricUniformIsOneForAnyClassCount(t *testing.T) {
	for _, k := range []int{2, 3, 5, 10} {
		metric, err := NewEntropyMetric(k, nil)
		require.NoError(t, err)
		values := make([]float64, k)
		for i := range values {
			values[i] = float64(i)
		}
		assert.InDelta(t, 1.0, metric.Evaluate(column(values...)), 1e-12, "k=%d", k)
	}
}

func TestEntropyMetricWeights(t *testing.T) {
	metric, err := NewEntropyMetric(2, []float64{1, 3})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.4, 0.6}, metric.Predict(column(0, 0, 1)), 1e-12)

	zeroed, err := NewEntropyMetric(2, []float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, zeroed.Predict(column(0, 0)), "all-zero weighted counts fall back to uniform")
}

func TestNewEntropyMetricValidation(t *testing.T) {
	_, err := NewEntropyMetric(1, nil)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = NewEntropyMetric(3, []float64{1, 1})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = NewEntropyMetric(2, []float64{1, -1})
	assert.True(t, errors.As(err, &valErr))
}

func TestEntropyMetricValidate(t *testing.T) {
	metric, err := NewEntropyMetric(3, nil)
	require.NoError(t, err)

	assert.NoError(t, metric.Validate(column(0, 1, 2)))
	assert.Error(t, metric.Validate(column(0, 1.5)))
	assert.Error(t, metric.Validate(column(0, 3)))
	assert.Error(t, metric.Validate(column(-1)))
}

func TestDeviationMetric(t *testing.T) {
	metric := NewDeviationMetric()

	assert.Equal(t, 0.0, metric.Evaluate(column(4, 4, 4)))
	assert.True(t, math.IsInf(metric.Evaluate(&mat.Dense{}), 1))
	assert.Nil(t, metric.Predict(&mat.Dense{}))

	// Population form: std([1 3]) = 1.
	assert.InDelta(t, 1.0, metric.Evaluate(column(1, 3)), 1e-12)

	y := mat.NewDense(6, 2, []float64{
		1, 2,
		1, 2,
		1, 2,
		5, 8,
		5, 8,
		5, 8,
	})
	assert.InDelta(t, 5.0, metric.Evaluate(y), 1e-12, "errors of the outputs add up")
	assert.InDeltaSlice(t, []float64{3, 5}, metric.Predict(y), 1e-12)
}

func TestDeviationMetricValidate(t *testing.T) {
	metric := NewDeviationMetric()
	assert.NoError(t, metric.Validate(column(1, 2)))

	err := metric.Validate(column(1, math.NaN()))
	var numErr *errors.NumericalInstabilityError
	require.True(t, errors.As(err, &numErr))
	assert.Equal(t, 1, numErr.Index)
}

func TestNewTargetError(t *testing.T) {
	m, err := NewTargetError("entropy", 3, nil)
	require.NoError(t, err)
	assert.IsType(t, &EntropyMetric{}, m)

	m, err = NewTargetError("std", 0, nil)
	require.NoError(t, err)
	assert.IsType(t, &DeviationMetric{}, m)

	m, err = NewTargetError("entropy", 1, nil)
	assert.Error(t, err)
	assert.Nil(t, m)

	_, err = NewTargetError("gini", 2, nil)
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "criterion", valErr.ParamName)
	assert.Contains(t, err.Error(), `"entropy", "std"`)
}
