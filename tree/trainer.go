package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// Trainer grows trees greedily. It keeps no state between calls and may be
// used from several goroutines.
type Trainer struct {
	global *GlobalError
	prune  *PruneCriteria
}

// NewTrainer creates a trainer from an aggregator and pruning policy.
func NewTrainer(global *GlobalError, prune *PruneCriteria) *Trainer {
	return &Trainer{global: global, prune: prune}
}

// Prune returns the pruning policy.
func (t *Trainer) Prune() *PruneCriteria { return t.prune }

// Fit grows a tree over x and y. y has one row per row of x and one column
// per output.
func (t *Trainer) Fit(x *Frame, y mat.Matrix) (*Tree, error) {
	return t.FitWithHooks(x, y, Hooks{})
}

// FitWithHooks is Fit with observers notified as nodes and branches are
// created.
func (t *Trainer) FitWithHooks(x *Frame, y mat.Matrix, hooks Hooks) (*Tree, error) {
	d, err := NewDataset(x, y)
	if err != nil {
		return nil, err
	}
	if err := t.global.Metric().Validate(d.y); err != nil {
		return nil, errors.Wrap(err, "Trainer.Fit")
	}
	return t.build(d, 1, hooks)
}

func (t *Trainer) build(d *Dataset, height int, hooks Hooks) (*Tree, error) {
	node := newNode(t.global.Global(d), d.Len())
	if t.prune.PreSplit(d, height, node) {
		hooks.node(NodeEvent{Node: node, Height: height, Leaf: true})
		return node, nil
	}

	columnErrors, err := t.global.ColumnErrors(d)
	if err != nil {
		return nil, err
	}
	best, ok := columnErrors.Best()
	if !ok {
		hooks.node(NodeEvent{Node: node, Height: height, Leaf: true})
		return node, nil
	}
	if t.prune.PostSplit(node, best) {
		hooks.node(NodeEvent{Node: node, Height: height, Leaf: true, ColumnErrors: columnErrors, Best: &best})
		return node, nil
	}
	hooks.node(NodeEvent{Node: node, Height: height, Leaf: false, ColumnErrors: columnErrors, Best: &best})

	node.Column = best.Column
	for i, branch := range d.partition(best.Column, best.Conditions) {
		// Rows of branches below the leaf minimum belong to no leaf.
		if branch.Len() < t.prune.MinSamplesLeaf() {
			continue
		}
		if best.Remove {
			branch = branch.without(best.Column)
		}
		hooks.branch(BranchEvent{Node: node, Split: best, Condition: best.Conditions[i], Branch: branch, Height: height})
		child, err := t.build(branch, height+1, hooks)
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, Branch{Condition: best.Conditions[i], Child: child})
	}
	if len(node.Branches) == 0 {
		// Every branch was below the leaf minimum.
		node.Column = ""
	}
	return node, nil
}

func (t *Trainer) String() string {
	return "TreeTrainer(" + t.global.String() + ", " + t.prune.String() + ")"
}
