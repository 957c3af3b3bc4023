package preprocessing

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/YuminosukeSato/scitree/core/model"
	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダー
// ラベルを昇順に並べたクラス一覧の位置（0..k-1）に変換する
type LabelEncoder[T cmp.Ordered] struct {
	state *model.StateManager

	classes []T
	index   map[T]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
//
// 使用例:
//
//	le := preprocessing.NewLabelEncoder[float64]()
//	codes, err := le.FitTransform([]float64{3, 1, 3})
//	// codes = [1 0 1], le.Classes() = [1 3]
func NewLabelEncoder[T cmp.Ordered]() *LabelEncoder[T] {
	return &LabelEncoder[T]{state: model.NewStateManager()}
}

// Fit はラベルの一覧からクラスを学習する
//
// パラメータ:
//   - labels: 学習に使うラベル（空は不可、NaNは不可）
//
// 戻り値:
//   - error: 入力が空またはNaNを含む場合のエラー
func (le *LabelEncoder[T]) Fit(labels []T) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}
	for i, l := range labels {
		// NaNは自分自身と等しくないためクラスにできない
		if l != l {
			return errors.NewValidationError("y", fmt.Sprintf("label at index %d is NaN", i), math.NaN())
		}
	}

	classes := slices.Clone(labels)
	slices.Sort(classes)
	classes = slices.Compact(classes)

	index := make(map[T]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	le.classes = classes
	le.index = index
	le.state.MarkFitted(1, len(labels))
	return nil
}

// Transform はラベルをクラス番号に変換する。未知のラベルはValueError
func (le *LabelEncoder[T]) Transform(labels []T) ([]int, error) {
	if err := le.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}
	codes := make([]int, len(labels))
	for i, l := range labels {
		code, ok := le.index[l]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", fmt.Sprintf("y contains previously unseen label %v", l))
		}
		codes[i] = code
	}
	return codes, nil
}

// FitTransform はFitとTransformを同時に実行する
func (le *LabelEncoder[T]) FitTransform(labels []T) ([]int, error) {
	if err := le.Fit(labels); err != nil {
		return nil, err
	}
	return le.Transform(labels)
}

// InverseTransform はクラス番号を元のラベルに戻す
func (le *LabelEncoder[T]) InverseTransform(codes []int) ([]T, error) {
	if err := le.state.RequireFitted("LabelEncoder", "InverseTransform"); err != nil {
		return nil, err
	}
	labels := make([]T, len(codes))
	for i, c := range codes {
		if c < 0 || c >= len(le.classes) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform", fmt.Sprintf("code %d is out of range [0, %d)", c, len(le.classes)))
		}
		labels[i] = le.classes[c]
	}
	return labels, nil
}

// Classes は学習したクラスを昇順で返す
func (le *LabelEncoder[T]) Classes() []T {
	return slices.Clone(le.classes)
}

// NClasses はクラス数を返す
func (le *LabelEncoder[T]) NClasses() int {
	return len(le.classes)
}

// IsFitted は学習済みかどうかを返す
func (le *LabelEncoder[T]) IsFitted() bool {
	return le.state.IsFitted()
}
