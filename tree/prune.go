package tree

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// PruneCriteria decides when a node stays a leaf. It is immutable after
// construction.
type PruneCriteria struct {
	minErrorDecrease float64
	minSamplesLeaf   int
	minSamplesSplit  int
	maxHeight        int
	hasMaxHeight     bool
	errorTolerance   float64
}

// PruneOption configures PruneCriteria.
type PruneOption func(*PruneCriteria)

// WithMinErrorDecrease sets the least error reduction a split must achieve.
func WithMinErrorDecrease(v float64) PruneOption {
	return func(p *PruneCriteria) {
		p.minErrorDecrease = v
	}
}

// WithMinSamplesLeaf sets the least number of rows a branch must keep.
// Smaller branches are dropped.
func WithMinSamplesLeaf(n int) PruneOption {
	return func(p *PruneCriteria) {
		p.minSamplesLeaf = n
	}
}

// WithMinSamplesSplit sets the least number of rows a node needs to be split.
func WithMinSamplesSplit(n int) PruneOption {
	return func(p *PruneCriteria) {
		p.minSamplesSplit = n
	}
}

// WithMaxHeight bounds the height of every node. The root has height 1.
func WithMaxHeight(h int) PruneOption {
	return func(p *PruneCriteria) {
		p.maxHeight = h
		p.hasMaxHeight = true
	}
}

// WithErrorTolerance sets the node error at or below which a node is
// considered pure.
func WithErrorTolerance(v float64) PruneOption {
	return func(p *PruneCriteria) {
		p.errorTolerance = v
	}
}

// NewPruneCriteria applies opts over the defaults and validates the result.
func NewPruneCriteria(opts ...PruneOption) (*PruneCriteria, error) {
	p := &PruneCriteria{
		minErrorDecrease: 1e-5,
		minSamplesLeaf:   1,
		minSamplesSplit:  1,
		errorTolerance:   1e-16,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.hasMaxHeight && p.maxHeight <= 0 {
		return nil, errors.NewValidationError("max_height", "must be positive", p.maxHeight)
	}
	if p.minSamplesLeaf <= 0 {
		return nil, errors.NewValidationError("min_samples_leaf", "must be positive", p.minSamplesLeaf)
	}
	if p.minErrorDecrease < 0 {
		return nil, errors.NewValidationError("min_error_decrease", "must be non-negative", p.minErrorDecrease)
	}
	if p.minSamplesSplit < 0 {
		return nil, errors.NewValidationError("min_samples_split", "must be non-negative", p.minSamplesSplit)
	}
	return p, nil
}

func (p *PruneCriteria) MinErrorDecrease() float64 { return p.minErrorDecrease }
func (p *PruneCriteria) MinSamplesLeaf() int       { return p.minSamplesLeaf }
func (p *PruneCriteria) MinSamplesSplit() int      { return p.minSamplesSplit }
func (p *PruneCriteria) ErrorTolerance() float64   { return p.errorTolerance }

// MaxHeight returns the height bound and whether one is set.
func (p *PruneCriteria) MaxHeight() (int, bool) { return p.maxHeight, p.hasMaxHeight }

// PreSplit reports whether node should stay a leaf before any column is
// evaluated. The checks run in order: height bound, too few rows, no
// features left, node already pure.
func (p *PruneCriteria) PreSplit(d *Dataset, height int, node *Tree) bool {
	if p.hasMaxHeight && height >= p.maxHeight {
		return true
	}
	if d.Len() < p.minSamplesSplit {
		return true
	}
	if len(d.Features()) == 0 {
		return true
	}
	return node.Error <= p.errorTolerance
}

// PostSplit reports whether the best split fails to reduce the node error
// by at least the minimum decrease.
func (p *PruneCriteria) PostSplit(node *Tree, best ColumnSplit) bool {
	return node.Error-best.Error < p.minErrorDecrease
}

// Params returns the configuration keyed by parameter name. max_height is
// nil when unset.
func (p *PruneCriteria) Params() map[string]interface{} {
	var maxHeight interface{}
	if p.hasMaxHeight {
		maxHeight = p.maxHeight
	}
	return map[string]interface{}{
		"min_error_decrease": p.minErrorDecrease,
		"min_samples_leaf":   p.minSamplesLeaf,
		"min_samples_split":  p.minSamplesSplit,
		"max_height":         maxHeight,
		"error_tolerance":    p.errorTolerance,
	}
}

func (p *PruneCriteria) String() string {
	maxHeight := "none"
	if p.hasMaxHeight {
		maxHeight = fmt.Sprint(p.maxHeight)
	}
	parts := []string{
		fmt.Sprintf("min_error_decrease=%g", p.minErrorDecrease),
		fmt.Sprintf("min_samples_leaf=%d", p.minSamplesLeaf),
		fmt.Sprintf("min_samples_split=%d", p.minSamplesSplit),
		"max_height=" + maxHeight,
		fmt.Sprintf("error_tolerance=%g", p.errorTolerance),
	}
	return "Prune(" + strings.Join(parts, ", ") + ")"
}
