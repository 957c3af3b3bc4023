package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/tree"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類器なら正解率、回帰器なら決定係数R²を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator は教師あり学習モデルの基本インターフェース
type Estimator interface {
	Fitter
	Predictor
	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Estimator
	Scorer
}

// Classifier は分類モデルのインターフェース
type Classifier interface {
	Estimator
	Scorer

	// PredictProba は各クラスの確率を返す（列はClasses()の順）
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に見つかったクラスラベルを昇順で返す
	Classes() []float64
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はモデルのハイパーパラメータを返す
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータを変更できるモデルのインターフェース
type ParameterSetter interface {
	// SetParams はモデルのハイパーパラメータを設定する
	SetParams(params map[string]interface{}) error
}

// FrameEstimator は数値列と名義列が混在する表で学習する決定木の共通部分
type FrameEstimator interface {
	FitFrame(x *tree.Frame, y mat.Matrix) error
	ScoreFrame(x *tree.Frame, y mat.Matrix) (float64, error)

	// ExportText は学習済みの木をインデント付きテキストで返す
	ExportText() (string, error)
	FeatureNames() []string
	GetFeatureImportances() []float64
}
