package finance

import (
	"fmt"
	"math"
	"sort"

	"nogus/server/internal/models"
)

const (
	DefaultIRRMaxIterations = 200
	DefaultIRRTolerance     = 1e-7
	DefaultIRRLowerBound    = -0.99
	DefaultIRRUpperBound    = 10.0
)

// bracketGrid holds the candidate rates scanned for an NPV sign change
var bracketGrid = []float64{
	-0.99, -0.95, -0.9, -0.8, -0.7, -0.6, -0.5, -0.4, -0.3, -0.2, -0.1, -0.05,
	0, 0.025, 0.05, 0.075, 0.1, 0.15, 0.2, 0.25, 0.3, 0.4, 0.5, 0.75,
	1, 1.5, 2, 3, 4, 5, 7.5, 10,
}

// IRRSolver finds the discount rate that zeroes a series' NPV.
//
// The solver scans [Lower, Upper] for an interval where NPV changes sign and
// refines it with Newton steps, falling back to bisection whenever a step
// would leave the bracket. It stops once |NPV| <= Tolerance, once the
// bracket has shrunk to floating-point width (large series whose NPV cannot
// get that close to zero), or when MaxIterations refinement steps are spent.
//
// A series whose sign changes more than once can have several rates that
// zero its NPV. The solver still returns one of them (the one bracketed
// closest to 0%) but sets IRRResult.MultipleRoots, and callers must not treat
// that rate as unique.
type IRRSolver struct {
	MaxIterations int
	Tolerance     float64
	Lower         float64
	Upper         float64
}

func NewIRRSolver() *IRRSolver {
	return &IRRSolver{
		MaxIterations: DefaultIRRMaxIterations,
		Tolerance:     DefaultIRRTolerance,
		Lower:         DefaultIRRLowerBound,
		Upper:         DefaultIRRUpperBound,
	}
}

// Solve returns the IRR of flows as a percentage. flows[0] must be an
// outlay and at least one later flow must be positive.
func (s *IRRSolver) Solve(flows []float64) (models.IRRResult, error) {
	if len(flows) < 2 {
		return models.IRRResult{}, &NoConvergenceError{Reason: "need at least two cash flows"}
	}
	if flows[0] >= 0 {
		return models.IRRResult{}, &NoConvergenceError{Reason: "first cash flow is not an outlay"}
	}
	hasInflow := false
	for _, cf := range flows[1:] {
		if cf > 0 {
			hasInflow = true
			break
		}
	}
	if !hasInflow {
		return models.IRRResult{}, &NoConvergenceError{Reason: "no positive cash flow after the outlay"}
	}

	result := models.IRRResult{SignChanges: signChanges(flows)}

	lo, hi, brackets := s.bracket(flows)
	if brackets == 0 {
		return models.IRRResult{}, &NoConvergenceError{Reason: fmt.Sprintf("no NPV sign change between %g%% and %g%%", s.Lower*100, s.Upper*100)}
	}
	result.MultipleRoots = result.SignChanges > 1 || brackets > 1

	tol := s.Tolerance
	fLo := npv(flows, lo)
	if math.Abs(fLo) <= tol {
		result.RatePct = lo * 100
		return result, nil
	}

	r := (lo + hi) / 2
	for i := 1; i <= s.MaxIterations; i++ {
		f, df := npvWithDerivative(flows, r)
		if math.Abs(f) <= tol {
			result.RatePct = r * 100
			result.Iterations = i
			return result, nil
		}

		if (f < 0) == (fLo < 0) {
			lo, fLo = r, f
		} else {
			hi = r
		}
		if hi-lo <= 1e-15 {
			result.RatePct = r * 100
			result.Iterations = i
			return result, nil
		}

		next := r - f/df
		if df == 0 || math.IsNaN(next) || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		r = next
	}

	return models.IRRResult{}, &NoConvergenceError{Reason: "iteration budget exhausted", Iterations: s.MaxIterations}
}

// bracket scans the grid for intervals where NPV changes sign and returns
// the one closest to 0% together with how many were found
func (s *IRRSolver) bracket(flows []float64) (lo, hi float64, found int) {
	grid := []float64{s.Lower, s.Upper}
	for _, g := range bracketGrid {
		if g > s.Lower && g < s.Upper {
			grid = append(grid, g)
		}
	}
	sort.Float64s(grid)

	best := math.Inf(1)
	consider := func(a, b float64) {
		found++
		if d := distanceFromZero(a, b); d < best {
			best, lo, hi = d, a, b
		}
	}

	prev, fPrev := grid[0], npv(flows, grid[0])
	if fPrev == 0 {
		consider(prev, prev)
	}
	for _, r := range grid[1:] {
		f := npv(flows, r)
		switch {
		case math.IsNaN(f) || math.IsNaN(fPrev):
		case f == 0:
			consider(r, r)
		case fPrev != 0 && (fPrev < 0) != (f < 0):
			consider(prev, r)
		}
		prev, fPrev = r, f
	}
	return lo, hi, found
}

func distanceFromZero(a, b float64) float64 {
	if a <= 0 && b >= 0 {
		return 0
	}
	return math.Min(math.Abs(a), math.Abs(b))
}

// NPV discounts flows at rate r, with flows[t] falling at the end of period t
func NPV(flows []float64, r float64) float64 {
	return npv(flows, r)
}

func npv(flows []float64, r float64) float64 {
	total := 0.0
	for t, cf := range flows {
		total += cf / math.Pow(1+r, float64(t))
	}
	return total
}

func npvWithDerivative(flows []float64, r float64) (f, df float64) {
	for t, cf := range flows {
		d := math.Pow(1+r, float64(t))
		f += cf / d
		df -= float64(t) * cf / (d * (1 + r))
	}
	return f, df
}

func signChanges(flows []float64) int {
	changes := 0
	prev := 0.0
	for _, cf := range flows {
		if cf == 0 {
			continue
		}
		if prev != 0 && (prev < 0) != (cf < 0) {
			changes++
		}
		prev = cf
	}
	return changes
}
