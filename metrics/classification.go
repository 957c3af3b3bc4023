package metrics

import (
	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は予測ラベルが正解と一致した割合
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := pair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	hits := 0
	for i, v := range t {
		if p[i] == v {
			hits++
		}
	}
	return float64(hits) / float64(len(t)), nil
}

// ClassificationError は 1 - Accuracy
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AccuracyScore は分類器の Predict が返す n×1 行列どうしの Accuracy
func AccuracyScore(yTrue, yPred mat.Matrix) (float64, error) {
	r, c := yTrue.Dims()
	pr, pc := yPred.Dims()
	switch {
	case r == 0 || c == 0:
		return 0, errors.NewValueError("AccuracyScore", "empty matrix")
	case r != pr:
		return 0, errors.NewDimensionError("AccuracyScore", r, pr, 0)
	case c != 1 || pc != 1:
		return 0, errors.NewValueError("AccuracyScore", "must be a column vector (n×1 matrix)")
	}
	return Accuracy(mat.NewVecDense(r, mat.Col(nil, 0, yTrue)), mat.NewVecDense(pr, mat.Col(nil, 0, yPred)))
}
