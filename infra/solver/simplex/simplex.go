// Package simplex solves the LP relaxation of a MILP with gonum's simplex
// implementation. Integrality is dropped entirely: when the relaxed optimum
// happens to be integral it is also the MILP optimum, which the planner
// exploits before falling back to an exact backend.
package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/groupsmith/syndicate/core/milp"
	"github.com/groupsmith/syndicate/core/solver"
)

const simplexTol = 1e-7

// Solver is the LP relaxation backend.
type Solver struct{}

// New returns a relaxation Solver.
func New() *Solver { return &Solver{} }

// Name implements solver.Solver.
func (*Solver) Name() string { return "simplex" }

// Solve translates the problem into gonum's general LP form and runs the
// simplex algorithm. The time limit is not enforced here: a single-phase
// simplex run on these problem sizes completes well inside any usable budget.
func (s *Solver) Solve(ctx context.Context, p milp.Problem, _ solver.Options) (solver.Result, error) {
	if err := ctx.Err(); err != nil {
		return solver.Result{Status: solver.Invalid}, err
	}
	start := time.Now()

	n := len(p.Vars)
	if n == 0 {
		return solver.Result{Status: solver.Invalid}, fmt.Errorf("problem has no variables")
	}

	c := make([]float64, n)
	for _, t := range p.Objective.Terms {
		if p.Sense == milp.Maximize {
			c[t.Var] -= t.Coeff
		} else {
			c[t.Var] += t.Coeff
		}
	}

	var (
		eqRows, eqB []float64
		leRows, leH []float64
	)
	appendEq := func(row []float64, rhs float64) {
		eqRows = append(eqRows, row...)
		eqB = append(eqB, rhs)
	}
	appendLe := func(row []float64, rhs float64) {
		leRows = append(leRows, row...)
		leH = append(leH, rhs)
	}

	for _, ct := range p.Constraints {
		row := make([]float64, n)
		for _, t := range ct.Expr.Terms {
			row[t.Var] += t.Coeff
		}
		lower, upper := ct.Lower-ct.Expr.Offset, ct.Upper-ct.Expr.Offset
		switch {
		case lower == upper:
			appendEq(row, lower)
		default:
			if !math.IsInf(upper, 1) {
				appendLe(row, upper)
			}
			if !math.IsInf(lower, -1) {
				appendLe(negate(row), -lower)
			}
		}
	}

	// Variable bounds become inequality rows: gonum's general form treats
	// variables as free.
	for _, v := range p.Vars {
		if !math.IsInf(v.Upper, 1) {
			appendLe(unit(n, v.Index, 1), v.Upper)
		}
		if !math.IsInf(v.Lower, -1) {
			appendLe(unit(n, v.Index, -1), -v.Lower)
		}
	}

	// Assignment models carry linearly dependent equalities (the per-student
	// and per-group sums both add up to the cohort size), and lp.Simplex
	// rejects a rank-deficient equality matrix as singular.
	eqRows, eqB, consistent := independentEqualities(eqRows, eqB, n)
	if !consistent {
		return solver.Result{Status: solver.Infeasible, WallTime: time.Since(start)}, nil
	}

	var a, g mat.Matrix
	if len(eqB) > 0 {
		a = mat.NewDense(len(eqB), n, eqRows)
	}
	if len(leH) > 0 {
		g = mat.NewDense(len(leH), n, leRows)
	}

	cStd, aStd, bStd := lp.Convert(c, g, leH, a, eqB)
	optF, sol, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	wall := time.Since(start)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return solver.Result{Status: solver.Infeasible, WallTime: wall}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return solver.Result{Status: solver.Unbounded, WallTime: wall}, nil
		default:
			return solver.Result{Status: solver.Invalid, WallTime: wall}, fmt.Errorf("simplex: %w", err)
		}
	}

	// Convert splits every free variable into a positive and a negative
	// part: x_i = sol[i] - sol[n+i].
	values := make([]float64, n)
	for i := range values {
		values[i] = sol[i] - sol[n+i]
	}

	objective := optF
	if p.Sense == milp.Maximize {
		objective = -objective
	}
	objective += p.Objective.Offset

	return solver.Result{
		Status:    solver.Optimal,
		Values:    values,
		Objective: objective,
		WallTime:  wall,
	}, nil
}

// depTol is the residual norm below which an equality row counts as a linear
// combination of the rows before it.
const depTol = 1e-9

// independentEqualities drops equality rows that are linear combinations of
// earlier ones, keeping the original rows of a maximal independent subset.
// A dependent row whose right-hand side disagrees with the combination proves
// the system infeasible.
func independentEqualities(rows, b []float64, n int) ([]float64, []float64, bool) {
	type reducedRow struct {
		coeffs []float64
		rhs    float64
		pivot  int
	}
	var (
		basis   []reducedRow
		outRows []float64
		outB    []float64
	)
	for i := range b {
		r := make([]float64, n)
		copy(r, rows[i*n:(i+1)*n])
		rhs := b[i]
		for _, br := range basis {
			f := r[br.pivot] / br.coeffs[br.pivot]
			if f == 0 {
				continue
			}
			for j, v := range br.coeffs {
				r[j] -= f * v
			}
			rhs -= f * br.rhs
		}
		pivot, max := -1, depTol
		for j, v := range r {
			if math.Abs(v) > max {
				pivot, max = j, math.Abs(v)
			}
		}
		if pivot >= 0 {
			basis = append(basis, reducedRow{coeffs: r, rhs: rhs, pivot: pivot})
			outRows = append(outRows, rows[i*n:(i+1)*n]...)
			outB = append(outB, b[i])
			continue
		}
		if math.Abs(rhs) > depTol {
			return nil, nil, false
		}
	}
	return outRows, outB, true
}

func negate(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}

func unit(n, index int, coeff float64) []float64 {
	row := make([]float64, n)
	row[index] = coeff
	return row
}
