// Package solver defines the contract between the model builder and the
// external MILP solver backends. Backends live under infra/solver and are
// substitutable without touching constraint construction.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/groupsmith/syndicate/core/milp"
)

// Status is the outcome class reported by a solver backend.
type Status int

const (
	// Optimal means the solver proved the returned assignment optimal.
	Optimal Status = iota
	// Feasible means a valid but not proven optimal assignment was found
	// within the budget.
	Feasible
	// Infeasible means the solver proved no assignment satisfies all
	// constraints.
	Infeasible
	// Unbounded means the objective can grow without limit.
	Unbounded
	// Timeout means the budget elapsed before any assignment was found. It
	// is reported distinctly from Infeasible.
	Timeout
	// Invalid means the problem was rejected by the backend.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case Timeout:
		return "timeout"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Options carries the caller-supplied solve budget.
type Options struct {
	// TimeLimit bounds the wall-clock time of a single solve. Zero means
	// the backend default.
	TimeLimit time.Duration
}

// Result is the solver output. Values is indexed by variable index and is
// only populated for Optimal and Feasible outcomes.
type Result struct {
	Status    Status
	Values    []float64
	Objective float64
	// WallTime is the time the backend spent solving.
	WallTime time.Duration
}

// Solver solves a MILP. Implementations must treat the problem as read-only
// and must honour ctx cancellation for long solves.
type Solver interface {
	Solve(ctx context.Context, p milp.Problem, opts Options) (Result, error)
	Name() string
}
