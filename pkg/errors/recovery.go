package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
)

// PanicError is a panic recovered at an API boundary such as Fit or
// Predict.
type PanicError struct {
	Operation string
	Value     interface{}
	Stack     string
	// Prior is the error the operation had already set when it panicked.
	Prior error
}

func (e *PanicError) Error() string {
	msg := fmt.Sprintf("panic in %s: %v", e.Operation, e.Value)
	if e.Prior != nil {
		msg += " (original error: " + e.Prior.Error() + ")"
	}
	return msg
}

// Unwrap exposes Prior, or the panic value itself when it was an error.
func (e *PanicError) Unwrap() error {
	if e.Prior != nil {
		return e.Prior
	}
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Format prints the captured stack with %+v.
func (e *PanicError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%s", e.Error(), e.Stack)
		return
	}
	fmt.Fprint(s, e.Error())
}

// NewPanicError captures the current goroutine stack.
func NewPanicError(operation string, value interface{}) *PanicError {
	return &PanicError{Operation: operation, Value: value, Stack: string(debug.Stack())}
}

// Recover turns a panic into *err. Use it deferred with a named result:
//
//	func (c *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "DecisionTreeClassifier.Fit")
//	    ...
//	}
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	p := NewPanicError(operation, r)
	p.Prior = *err
	*err = errors.WithStack(p)
}

// SafeExecute runs fn and reports a panic in it as a *PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
