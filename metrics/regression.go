package metrics

import (
	"math"

	"github.com/YuminosukeSato/scitree/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrZeroVariance は正解値がすべて同じで R² の分母が 0 になることを示します。
var ErrZeroVariance = errors.New("total sum of squares is zero (no variance in yTrue)")

// pair は長さを検証したうえで二つのベクトルの生データを返す
func pair(op string, yTrue, yPred *mat.VecDense) ([]float64, []float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return nil, nil, errors.NewValueError(op, "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return mat.Col(nil, 0, yTrue), mat.Col(nil, 0, yPred), nil
}

// MSE は平均二乗誤差
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := pair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(t, p, 2)
	return d * d / float64(len(t)), nil
}

// RMSE は MSE の平方根
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := pair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return floats.Distance(t, p, 1) / float64(len(t)), nil
}

// R2Score は決定係数 1 - RSS/TSS を返す。
// yTrue が定数のときは ErrZeroVariance を包んだエラーになる。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	t, p, err := pair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(t, nil)
	var tss float64
	for _, v := range t {
		tss += (v - mean) * (v - mean)
	}
	if tss == 0 {
		return 0, errors.Wrap(ErrZeroVariance, "R2Score")
	}
	rss := floats.Distance(t, p, 2)
	return 1 - rss*rss/tss, nil
}

// R2ScoreMultioutput は出力列ごとの R² を単純平均する。
// 分散のない列は、予測が完全一致なら 1、そうでなければ 0 として数え、
// UndefinedMetricWarning を通知する。
func R2ScoreMultioutput(yTrue, yPred mat.Matrix) (float64, error) {
	rows, cols := yTrue.Dims()
	pRows, pCols := yPred.Dims()
	if rows == 0 || cols == 0 {
		return 0, errors.NewValueError("R2ScoreMultioutput", "empty matrix")
	}
	if rows != pRows {
		return 0, errors.NewDimensionError("R2ScoreMultioutput", rows, pRows, 0)
	}
	if cols != pCols {
		return 0, errors.NewDimensionError("R2ScoreMultioutput", cols, pCols, 1)
	}

	total := 0.0
	for j := 0; j < cols; j++ {
		t := mat.NewVecDense(rows, mat.Col(nil, j, yTrue))
		p := mat.NewVecDense(rows, mat.Col(nil, j, yPred))
		r2, err := R2Score(t, p)
		if errors.Is(err, ErrZeroVariance) {
			r2 = 0
			if floats.Equal(t.RawVector().Data, p.RawVector().Data) {
				r2 = 1
			}
			errors.Warn(errors.NewUndefinedMetricWarning("r2_score", "no variance in y_true", r2))
		} else if err != nil {
			return 0, err
		}
		total += r2
	}
	return total / float64(cols), nil
}
