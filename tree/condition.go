package tree

import (
	"math"
	"strconv"
)

// Condition is a predicate over one column that routes a row into a branch.
// The set of implementations is closed: ValueCondition for nominal columns
// and RangeCondition for numeric ones.
type Condition interface {
	// Column returns the name of the tested column.
	Column() string
	// Match reports whether v belongs to the branch. Values of the wrong
	// Kind never match.
	Match(v Value) bool
	String() string

	sealed()
}

// ValueCondition matches a single category.
type ValueCondition struct {
	Name  string
	Value string
}

func (c ValueCondition) Column() string { return c.Name }

func (c ValueCondition) Match(v Value) bool {
	return v.kind == Nominal && v.str == c.Value
}

func (c ValueCondition) String() string { return c.Name + " == " + c.Value }

func (ValueCondition) sealed() {}

// RangeCondition matches numeric values in the half open interval
// (Low, High]. Open ends use -Inf and +Inf.
type RangeCondition struct {
	Name string
	Low  float64
	High float64
}

func (c RangeCondition) Column() string { return c.Name }

func (c RangeCondition) Match(v Value) bool {
	return v.kind == Numeric && c.Low < v.num && v.num <= c.High
}

func (c RangeCondition) String() string {
	switch {
	case math.IsInf(c.Low, -1) && math.IsInf(c.High, 1):
		return c.Name + " is any"
	case math.IsInf(c.Low, -1):
		return c.Name + " <= " + formatFloat(c.High)
	case math.IsInf(c.High, 1):
		return c.Name + " > " + formatFloat(c.Low)
	default:
		return formatFloat(c.Low) + " < " + c.Name + " <= " + formatFloat(c.High)
	}
}

func (RangeCondition) sealed() {}

// rangeConditions turns ascending cut points into the intervals
// (-Inf, c0], (c0, c1], ..., (cn, +Inf).
func rangeConditions(column string, cuts []float64) []Condition {
	conditions := make([]Condition, 0, len(cuts)+1)
	low := math.Inf(-1)
	for _, c := range cuts {
		conditions = append(conditions, RangeCondition{Name: column, Low: low, High: c})
		low = c
	}
	return append(conditions, RangeCondition{Name: column, Low: low, High: math.Inf(1)})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
