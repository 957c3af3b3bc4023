package tree

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// UnboundedEvals is the evaluation budget of an exhaustive search.
const UnboundedEvals = math.MaxInt

// DiscretizationStrategy searches cut points for one numeric column.
type DiscretizationStrategy interface {
	// Discretize returns ascending cut points for values and the weighted
	// error of the partition they induce. y holds the targets of the same
	// rows in the same order. ok is false when values cannot be cut.
	Discretize(values []float64, y mat.Matrix, metric TargetError) (cuts []float64, score float64, ok bool)
}

// OptimizingDiscretization evaluates binary cuts at the midpoints between
// consecutive distinct values and keeps the one with the lowest weighted
// error. When there are more candidates than MaxEvals, the candidates
// nearest to MaxEvals evenly spaced quantiles of the column are evaluated.
// Ties go to the smaller threshold.
type OptimizingDiscretization struct {
	MaxEvals int
}

// NewOptimizingDiscretization validates the evaluation budget.
func NewOptimizingDiscretization(maxEvals int) (*OptimizingDiscretization, error) {
	if maxEvals <= 0 {
		return nil, errors.NewValidationError("max_evals", "must be positive", maxEvals)
	}
	return &OptimizingDiscretization{MaxEvals: maxEvals}, nil
}

type cut struct {
	threshold float64
	// pos is the number of sorted rows at or below threshold.
	pos int
}

func (s *OptimizingDiscretization) Discretize(values []float64, y mat.Matrix, metric TargetError) ([]float64, float64, bool) {
	n := len(values)
	if n < 2 {
		return nil, 0, false
	}
	sorted := append([]float64(nil), values...)
	order := make([]int, n)
	floats.ArgsortStable(sorted, order)

	candidates := s.budget(candidateCuts(sorted), sorted)
	if len(candidates) == 0 {
		return nil, 0, false
	}

	_, c := y.Dims()
	ys := mat.NewDense(n, c, nil)
	row := make([]float64, c)
	for i, r := range order {
		ys.SetRow(i, mat.Row(row, r, y))
	}

	best, bestScore := -1, math.Inf(1)
	for k, cand := range candidates {
		left := ys.Slice(0, cand.pos, 0, c)
		right := ys.Slice(cand.pos, n, 0, c)
		score := (float64(cand.pos)*metric.Evaluate(left) + float64(n-cand.pos)*metric.Evaluate(right)) / float64(n)
		if best < 0 || score < bestScore {
			best, bestScore = k, score
		}
	}
	return []float64{candidates[best].threshold}, bestScore, true
}

func (s *OptimizingDiscretization) String() string {
	if s.MaxEvals == UnboundedEvals {
		return "OptimizingDiscretization(max_evals=best)"
	}
	return "OptimizingDiscretization(max_evals=" + strconv.Itoa(s.MaxEvals) + ")"
}

// candidateCuts lists the midpoints between consecutive distinct values of
// an ascending slice.
func candidateCuts(sorted []float64) []cut {
	var cuts []cut
	for i := 1; i < len(sorted); i++ {
		lo, hi := sorted[i-1], sorted[i]
		if lo == hi {
			continue
		}
		t := lo + (hi-lo)/2
		if t >= hi {
			t = lo
		}
		cuts = append(cuts, cut{threshold: t, pos: i})
	}
	return cuts
}

// budget keeps at most MaxEvals candidates, picking the one nearest to each
// of the quantiles 1/(m+1), ..., m/(m+1) of the sorted column.
func (s *OptimizingDiscretization) budget(cands []cut, sorted []float64) []cut {
	if len(cands) <= s.MaxEvals {
		return cands
	}
	chosen := make([]bool, len(cands))
	for j := 1; j <= s.MaxEvals; j++ {
		p := float64(j) / float64(s.MaxEvals+1)
		q := stat.Quantile(p, stat.Empirical, sorted, nil)
		chosen[nearestCut(cands, q)] = true
	}
	out := make([]cut, 0, s.MaxEvals)
	for i, ok := range chosen {
		if ok {
			out = append(out, cands[i])
		}
	}
	return out
}

// nearestCut returns the candidate closest to q, preferring the lower one.
func nearestCut(cands []cut, q float64) int {
	i := sort.Search(len(cands), func(i int) bool { return cands[i].threshold >= q })
	switch {
	case i == len(cands):
		return i - 1
	case i > 0 && q-cands[i-1].threshold <= cands[i].threshold-q:
		return i - 1
	default:
		return i
	}
}

// ParseSplitter converts the splitter setting into an evaluation budget.
// "best" means an exhaustive search; a positive integer bounds the number
// of candidate cuts evaluated per column and node.
func ParseSplitter(v interface{}) (int, error) {
	switch s := v.(type) {
	case string:
		if s == "best" {
			return UnboundedEvals, nil
		}
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n, nil
		}
	case int:
		if s > 0 {
			return s, nil
		}
	case int64:
		if s > 0 && s <= math.MaxInt {
			return int(s), nil
		}
	case float64:
		if s > 0 && s == math.Trunc(s) && s <= math.MaxInt32 {
			return int(s), nil
		}
	}
	return 0, errors.NewValidationError("splitter", "expected \"best\" or a positive integer", v)
}
