package tree

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Branch pairs a condition with the subtree of the rows it selects.
type Branch struct {
	Condition Condition
	Child     *Tree
}

// Tree is a node of a fitted decision tree. A node is a leaf exactly when
// Column is empty and Branches is empty. Each node owns its children.
type Tree struct {
	// Prediction is the class distribution (classification) or the
	// per-output mean (regression) of the rows that reached the node.
	Prediction []float64
	// Error is the target error of those rows before any split.
	Error   float64
	Samples int
	// Column is the feature the node splits on.
	Column   string
	Branches []Branch
}

func newNode(r GlobalErrorResult, samples int) *Tree {
	return &Tree{Prediction: r.Prediction, Error: r.Error, Samples: samples}
}

// IsLeaf reports whether the node has no split.
func (t *Tree) IsLeaf() bool { return t.Column == "" }

// Predict walks the tree with row and returns a copy of the prediction of
// the deepest node reached. When the split column is missing from row or no
// branch condition matches its value, the prediction of the current node is
// returned.
func (t *Tree) Predict(row Row) []float64 {
	node := t
	for !node.IsLeaf() {
		v, ok := row[node.Column]
		if !ok {
			break
		}
		next := node.match(v)
		if next == nil {
			break
		}
		node = next
	}
	return append([]float64(nil), node.Prediction...)
}

func (t *Tree) match(v Value) *Tree {
	for _, b := range t.Branches {
		if b.Condition.Match(v) {
			return b.Child
		}
	}
	return nil
}

// Walk visits the nodes in depth-first pre-order together with their
// height. Returning false from fn skips the children of that node.
func (t *Tree) Walk(fn func(node *Tree, height int) bool) {
	t.walk(fn, 1)
}

func (t *Tree) walk(fn func(*Tree, int) bool, height int) {
	if !fn(t, height) {
		return
	}
	for _, b := range t.Branches {
		b.Child.walk(fn, height+1)
	}
}

// Height returns the height of the deepest node. A single leaf has height 1.
func (t *Tree) Height() int {
	max := 0
	t.Walk(func(_ *Tree, h int) bool {
		if h > max {
			max = h
		}
		return true
	})
	return max
}

// Leaves counts the leaf nodes.
func (t *Tree) Leaves() int {
	n := 0
	t.Walk(func(node *Tree, _ int) bool {
		if node.IsLeaf() {
			n++
		}
		return true
	})
	return n
}

// Nodes counts all nodes.
func (t *Tree) Nodes() int {
	n := 0
	t.Walk(func(*Tree, int) bool {
		n++
		return true
	})
	return n
}

// String renders the tree as indented text, one line per node.
func (t *Tree) String() string {
	var b strings.Builder
	b.WriteString(t.summary())
	b.WriteByte('\n')
	t.writeBranches(&b, "")
	return b.String()
}

func (t *Tree) writeBranches(b *strings.Builder, indent string) {
	for _, br := range t.Branches {
		fmt.Fprintf(b, "%s|--- %s: %s\n", indent, br.Condition, br.Child.summary())
		br.Child.writeBranches(b, indent+"|   ")
	}
}

func (t *Tree) summary() string {
	parts := make([]string, len(t.Prediction))
	for i, p := range t.Prediction {
		parts[i] = strconv.FormatFloat(p, 'g', 4, 64)
	}
	return fmt.Sprintf("prediction=[%s] error=%.4g samples=%d", strings.Join(parts, " "), t.Error, t.Samples)
}

// FeatureImportances returns, for each name, the total weighted error
// decrease of the splits on that column, normalized to sum to 1. Columns
// never split on score 0. A tree without splits yields all zeros.
func FeatureImportances(t *Tree, names []string) []float64 {
	importances := make([]float64, len(names))
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	t.Walk(func(node *Tree, _ int) bool {
		if node.IsLeaf() {
			return true
		}
		i, ok := index[node.Column]
		if !ok {
			return true
		}
		decrease := float64(node.Samples) * node.Error
		for _, b := range node.Branches {
			decrease -= float64(b.Child.Samples) * b.Child.Error
		}
		if decrease > 0 {
			importances[i] += decrease
		}
		return true
	})
	if total := floats.Sum(importances); total > 0 {
		floats.Scale(1/total, importances)
	}
	return importances
}
