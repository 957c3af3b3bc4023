package tree

import (
	"github.com/YuminosukeSato/scitree/pkg/log"
)

// NodeEvent is emitted once for every node, after the trainer has decided
// whether it becomes a leaf. ColumnErrors and Best are nil when the node was
// pruned before any column was evaluated or when no column could be split.
type NodeEvent struct {
	Node         *Tree
	Height       int
	Leaf         bool
	ColumnErrors *ColumnErrors
	Best         *ColumnSplit
}

// BranchEvent is emitted before the trainer descends into a kept branch.
type BranchEvent struct {
	Node      *Tree
	Split     ColumnSplit
	Condition Condition
	Branch    *Dataset
	// Height is the height of Node; the branch is built at Height+1.
	Height int
}

type (
	NodeHook   func(NodeEvent)
	BranchHook func(BranchEvent)
)

// Hooks are observers invoked synchronously, in order, during a fit. They
// must not modify the events they receive.
type Hooks struct {
	Node   []NodeHook
	Branch []BranchHook
}

func (h Hooks) node(e NodeEvent) {
	for _, fn := range h.Node {
		fn(e)
	}
}

func (h Hooks) branch(e BranchEvent) {
	for _, fn := range h.Branch {
		fn(e)
	}
}

// Merge appends the observers of other after those of h.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		Node:   append(append([]NodeHook(nil), h.Node...), other.Node...),
		Branch: append(append([]BranchHook(nil), h.Branch...), other.Branch...),
	}
}

// LoggingHooks reports node and branch events at debug level.
func LoggingHooks(logger log.Logger) Hooks {
	return Hooks{
		Node: []NodeHook{func(e NodeEvent) {
			fields := []any{
				log.HeightKey, e.Height,
				log.SamplesKey, e.Node.Samples,
				log.NodeErrorKey, e.Node.Error,
				log.LeafKey, e.Leaf,
			}
			if e.Best != nil {
				fields = append(fields, log.ColumnKey, e.Best.Column, log.SplitErrorKey, e.Best.Error)
			}
			if e.Leaf {
				logger.Debug("Leaf created", fields...)
				return
			}
			logger.Debug("Node split", fields...)
		}},
		Branch: []BranchHook{func(e BranchEvent) {
			logger.Debug("Branch created",
				log.HeightKey, e.Height+1,
				log.ConditionKey, e.Condition.String(),
				log.SamplesKey, e.Branch.Len(),
			)
		}},
	}
}
