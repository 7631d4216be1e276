package roster

import (
	"context"
	"fmt"

	"github.com/groupsmith/syndicate/core/logger"
	"github.com/groupsmith/syndicate/core/milp"
	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/solver"
)

// Planner runs the full pipeline: build the problem, submit it to a solver
// backend and extract the roster. An optional relaxation backend is tried
// first; its result is only accepted when the relaxed optimum is already
// integral, in which case it is also the MILP optimum. Otherwise the planner
// falls back to the exact backend.
type Planner struct {
	exact solver.Solver
	relax solver.Solver
	opts  solver.Options
	log   logger.Logger
}

// NewPlanner creates a Planner around the exact MILP backend.
func NewPlanner(exact solver.Solver, opts solver.Options, log logger.Logger) *Planner {
	return &Planner{exact: exact, opts: opts, log: log}
}

// SetRelaxationFirst makes the planner try the given relaxation backend
// before the exact one.
func (p *Planner) SetRelaxationFirst(s solver.Solver) { p.relax = s }

// Plan assigns the cohort and returns the roster with its per-group
// statistics. It never returns a partial assignment: every failure surfaces
// as a typed error.
func (p *Planner) Plan(ctx context.Context, students []model.Student, cfg Config) (model.Assignment, []model.GroupStats, error) {
	cfg.SetDefaults()
	m, err := Build(students, cfg)
	if err != nil {
		return model.Assignment{}, nil, err
	}
	p.log.Debugw("problem built", map[string]any{
		"variables":   len(m.Problem.Vars),
		"constraints": len(m.Problem.Constraints),
		"groups":      len(m.Groups),
	})

	res, err := p.solve(ctx, m.Problem)
	if err != nil {
		return model.Assignment{}, nil, err
	}

	switch res.Status {
	case solver.Optimal, solver.Feasible:
		if res.Status == solver.Feasible {
			p.log.Warnf("solver budget reached, using best feasible assignment (objective %.3f)", res.Objective)
		}
	case solver.Infeasible:
		return model.Assignment{}, nil, &InfeasibleError{Constraints: constraintsByClass(m.Problem)}
	case solver.Timeout:
		return model.Assignment{}, nil, &TimeoutError{Limit: p.opts.TimeLimit}
	default:
		return model.Assignment{}, nil, fmt.Errorf("solver %s returned %s", p.exact.Name(), res.Status)
	}

	assignment, err := Extract(m, res)
	if err != nil {
		return model.Assignment{}, nil, err
	}
	if err := Verify(students, cfg, assignment); err != nil {
		return model.Assignment{}, nil, err
	}
	return assignment, Stats(students, assignment), nil
}

func (p *Planner) solve(ctx context.Context, problem milp.Problem) (solver.Result, error) {
	if p.relax != nil {
		res, err := p.relax.Solve(ctx, problem, p.opts)
		switch {
		case err != nil:
			p.log.Warnf("relaxation backend %s failed, falling back to %s: %v", p.relax.Name(), p.exact.Name(), err)
		case res.Status == solver.Optimal && integral(problem, res.Values):
			p.log.Infof("relaxed optimum is integral, skipping %s", p.exact.Name())
			return res, nil
		case res.Status == solver.Infeasible:
			// The relaxation is a superset of the MILP's feasible region,
			// so its infeasibility proves the MILP infeasible too.
			return res, nil
		default:
			p.log.Debugf("relaxed optimum is fractional, falling back to %s", p.exact.Name())
		}
	}
	return p.exact.Solve(ctx, problem, p.opts)
}

// integral reports whether all binary and integer variables hold values
// within RoundTol of an integer.
func integral(problem milp.Problem, values []float64) bool {
	if len(values) != len(problem.Vars) {
		return false
	}
	for _, v := range problem.Vars {
		if v.Kind == milp.Continuous {
			continue
		}
		val := values[v.Index]
		nearest := float64(int64(val + 0.5))
		if val-nearest > RoundTol || nearest-val > RoundTol {
			return false
		}
	}
	return true
}
