package roster

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/solver"
)

const (
	// RoundTol is the documented rounding threshold: a variable within this
	// distance of 1 counts as assigned, within it of 0 as unassigned.
	// Anything in between is a fatal consistency error.
	RoundTol = 1e-6
	// objectiveTol bounds the accepted drift between the solver-reported
	// objective and the objective recomputed from rounded variables.
	objectiveTol = 1e-4
)

// Extract converts solved variables into an Assignment. Any student resolving
// to zero or multiple groups, or an objective that does not match the rounded
// variables, aborts with a ConsistencyError.
func Extract(m Model, res solver.Result) (model.Assignment, error) {
	if res.Status != solver.Optimal && res.Status != solver.Feasible {
		return model.Assignment{}, &ConsistencyError{Detail: fmt.Sprintf("no solution to extract from %s result", res.Status)}
	}
	if len(res.Values) != len(m.Problem.Vars) {
		return model.Assignment{}, &ConsistencyError{
			Detail: fmt.Sprintf("solver returned %d values for %d variables", len(res.Values), len(m.Problem.Vars)),
		}
	}

	byStudent := make(map[string]model.GroupID, len(m.Students))
	for i, s := range m.Students {
		var assigned []model.GroupID
		for j, g := range m.Groups {
			v := res.Values[m.X[i][j].Index]
			switch {
			case v >= 1-RoundTol:
				assigned = append(assigned, g)
			case v <= RoundTol:
			default:
				return model.Assignment{}, &ConsistencyError{
					StudentID: s.ID,
					Detail:    fmt.Sprintf("variable %s has non-integral value %v", m.X[i][j].Name, v),
				}
			}
		}
		if len(assigned) != 1 {
			return model.Assignment{}, &ConsistencyError{StudentID: s.ID, Groups: assigned}
		}
		byStudent[s.ID] = assigned[0]
	}

	if got := m.Problem.Objective.Evaluate(res.Values); math.Abs(got-res.Objective) > objectiveTol {
		return model.Assignment{}, &ConsistencyError{
			Detail: fmt.Sprintf("reported objective %v does not match variables (%v)", res.Objective, got),
		}
	}

	return model.Assignment{
		Groups:    m.Groups,
		ByStudent: byStudent,
		Objective: res.Objective,
		Optimal:   res.Status == solver.Optimal,
	}, nil
}

// Stats computes the per-group aggregations: member count, gender and
// category counts, score sum and mean. Pure aggregation over the final
// assignment; nothing feeds back into the model.
func Stats(students []model.Student, a model.Assignment) []model.GroupStats {
	byID := make(map[string]model.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	out := make([]model.GroupStats, 0, len(a.Groups))
	for _, g := range a.Groups {
		members := a.Members(g)
		gs := model.GroupStats{
			Group:      g,
			Members:    members,
			Size:       len(members),
			ByGender:   make(map[model.Gender]int),
			ByCategory: make(map[string]int),
		}
		scores := make([]float64, 0, len(members))
		for _, id := range members {
			s := byID[id]
			gs.ByGender[s.Gender]++
			gs.ByCategory[s.Category]++
			gs.ScoreSum += s.Score
			scores = append(scores, s.Score)
		}
		if len(scores) > 0 {
			gs.ScoreMean = stat.Mean(scores, nil)
		}
		out = append(out, gs)
	}
	return out
}

// Verify re-checks the solved roster against the balance bounds it was built
// from. It guards against encoding bugs: a solver-accepted assignment that
// violates a bound here is a ConsistencyError, not an infeasibility.
func Verify(students []model.Student, cfg Config, a model.Assignment) error {
	cfg.SetDefaults()
	if len(a.ByStudent) != len(students) {
		return &ConsistencyError{Detail: fmt.Sprintf("%d of %d students assigned", len(a.ByStudent), len(students))}
	}
	for _, gs := range Stats(students, a) {
		if gs.Size != cfg.GroupSize {
			return &ConsistencyError{Detail: fmt.Sprintf("group %s has %d members, want %d", gs.Group, gs.Size, cfg.GroupSize)}
		}
		for _, gender := range model.Genders() {
			if n := gs.ByGender[gender]; n < cfg.Gender.Min || n > cfg.Gender.Max {
				return &ConsistencyError{
					Detail: fmt.Sprintf("group %s has %d %s students, outside [%d, %d]", gs.Group, n, gender, cfg.Gender.Min, cfg.Gender.Max),
				}
			}
		}
		if cfg.LocalMin > 0 && gs.ByCategory[cfg.LocalCategory] < cfg.LocalMin {
			return &ConsistencyError{
				Detail: fmt.Sprintf("group %s has %d %s students, want at least %d", gs.Group, gs.ByCategory[cfg.LocalCategory], cfg.LocalCategory, cfg.LocalMin),
			}
		}
	}
	return nil
}
