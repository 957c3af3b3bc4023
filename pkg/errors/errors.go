// Package errors は scitree 全体で使うエラー型と警告の仕組みをまとめたものです。
// 型付きエラーはすべて cockroachdb/errors でスタックトレースを付与して返され、
// errors.As で元の型を取り出せます。
package errors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// ---------------------------------------------------------------------------
// 警告
// ---------------------------------------------------------------------------

var (
	warnMu sync.Mutex
	// warningHandler は zerolog 側の出力先が未設定のときに使われます。
	warningHandler = func(w error) {
		zlog.Warn().Str("warning", w.Error()).Msg("scitree warning")
	}
	// zerologWarnFunc は pkg/log から注入されます（import の循環を避けるため）。
	zerologWarnFunc func(error)
)

// SetWarningHandler は警告の受け取り先を差し替えます。
//
//	errors.SetWarningHandler(func(w error) {}) // 警告を捨てる
func SetWarningHandler(handler func(w error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc は構造化ログ用の出力先を登録します。nil で解除します。
func SetZerologWarnFunc(fn func(warning error)) {
	warnMu.Lock()
	defer warnMu.Unlock()
	zerologWarnFunc = fn
}

// Warn は警告を一件通知します。zerolog の出力先があればそちらが優先されます。
func Warn(w error) {
	warnMu.Lock()
	defer warnMu.Unlock()
	switch {
	case zerologWarnFunc != nil:
		zerologWarnFunc(w)
	case warningHandler != nil:
		warningHandler(w)
	}
}

// UndefinedMetricWarning はスコアが定義できず代わりの値を返したことを示します。
// 目的変数がすべて同じ値で R² の分母が 0 になる場合などです。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("type", "UndefinedMetricWarning").
		Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result)
}

func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ---------------------------------------------------------------------------
// エラー型
// ---------------------------------------------------------------------------

// NotFittedError は学習前の推定器で Predict や ExportText を呼んだときに返ります。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("scitree: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

func (e *NotFittedError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", "NotFittedError").Str("model_name", e.ModelName).Str("method", e.Method)
}

func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は行数や列数が合わないときのエラーです。
// Axis は 0 が行、1 が列（特徴量）です。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("scitree: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", "DimensionError").
		Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("axis_name", e.axisName())
}

func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError はハイパーパラメータやジョブ定義の値が範囲外のときに返ります。
// ParamName には max_depth や min_samples_leaf などの名前が入ります。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scitree: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

func (e *ValidationError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", "ValidationError").
		Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value)
}

func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError はデータそのものが学習に使えないときのエラーです。
// 例: クラスが一種類しかない目的変数、列名の重複。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("scitree: %s: %s", e.Op, e.Message)
}

func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は木の構築中に起きた失敗を原因のエラーごと包みます。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("scitree: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("scitree: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は目的変数に NaN や Inf が含まれていたことを示します。
// Index は最初に見つかった行、Values はその行の有限でない値です。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Index     int
}

func (e *NumericalInstabilityError) Error() string {
	shown := make([]string, 0, len(e.Values))
	for i, v := range e.Values {
		if i == 5 {
			shown = append(shown, "...")
			break
		}
		shown = append(shown, fmt.Sprintf("%.6g", v))
	}
	return fmt.Sprintf("scitree: numerical instability detected in %s at index %d. Values: [%s]",
		e.Operation, e.Index, strings.Join(shown, ", "))
}

func (e *NumericalInstabilityError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", "NumericalInstabilityError").
		Str("operation", e.Operation).
		Int("index", e.Index).
		Floats64("values", e.Values)
}

func NewNumericalInstabilityError(operation string, values []float64, index int) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values, Index: index})
}

// ErrEmptyData は行のないデータを渡されたときの番兵エラーです。
var ErrEmptyData = New("empty data")

// ---------------------------------------------------------------------------
// cockroachdb/errors の薄いラッパー
// ---------------------------------------------------------------------------

func Is(err, target error) bool { return errors.Is(err, target) }
func As(err error, target interface{}) bool { return errors.As(err, target) }
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }
func Wrapf(err error, f string, a ...any) error { return errors.Wrapf(err, f, a...) }
func New(msg string) error { return errors.New(msg) }
func Newf(format string, args ...any) error { return errors.Newf(format, args...) }
func WithStack(err error) error { return errors.WithStack(err) }
