package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

func TestAccuracyAndClassificationError(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"play tennis labels all right", vec(0, 1, 1, 0, 1), vec(0, 1, 1, 0, 1), 1},
		{"one miss in five", vec(0, 1, 2, 1, 0), vec(0, 1, 1, 1, 0), 0.8},
		{"all wrong", vec(0, 0, 0), vec(1, 1, 1), 0},
		{"encoded labels keep their values", vec(-5, 7.5), vec(-5, -5), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := Accuracy(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, acc, 1e-12)

			miss, err := ClassificationError(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, 1-tt.want, miss, 1e-12)
		})
	}
}

func TestAccuracyInvalidInput(t *testing.T) {
	_, err := Accuracy(nil, nil)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	_, err = ClassificationError(vec(0, 1), vec(0))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestAccuracyScore(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 1, 1, 2})

	got, err := AccuracyScore(yTrue, mat.NewDense(4, 1, []float64{0, 1, 2, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-12)

	_, err = AccuracyScore(yTrue, mat.NewDense(3, 1, []float64{0, 1, 1}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr), "got %v", err)

	_, err = AccuracyScore(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr), "multi-column input, got %v", err)
}

func BenchmarkAccuracy(b *testing.B) {
	n := 10000
	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yTrue.SetVec(i, float64(i%3))
		yPred.SetVec(i, float64(i%4))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Accuracy(yTrue, yPred)
	}
}
