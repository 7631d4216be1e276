// Package roster formulates the balanced group assignment as a MILP, hands it
// to a solver backend and turns the solved variables back into a roster.
package roster

import (
	"fmt"
	"math"
	"sort"

	"github.com/groupsmith/syndicate/core/milp"
	"github.com/groupsmith/syndicate/core/model"
)

// Constraint classes used for diagnostics.
const (
	ClassCompleteness = "completeness"
	ClassCapacity     = "capacity"
	ClassGender       = "gender-balance"
	ClassLocalMin     = "local-minimum"
	ClassSpread       = "category-spread"
	ClassPairing      = "pairing"
)

// Model couples the optimization problem with the variable layout needed to
// extract a roster from solved values. It is an immutable snapshot: the
// builder owns variable creation, the solver owns the solved values.
type Model struct {
	Problem  milp.Problem
	Students []model.Student
	Groups   []model.GroupID
	// X[i][j] is the assignment variable of student i and group j.
	X [][]milp.Var
	// Config the model was built from, kept for post-solve verification.
	Config Config
}

// Build runs the structural preflight and constructs the full MILP: one
// binary variable per (student, group) pair, the balance constraints and the
// score-sum objective. The input records are never mutated.
func Build(students []model.Student, cfg Config) (Model, error) {
	cfg.SetDefaults()
	if err := Preflight(students, cfg); err != nil {
		return Model{}, err
	}

	n := cfg.groupCount(len(students))
	groups := make([]model.GroupID, n)
	for j := range groups {
		groups[j] = model.GroupID(fmt.Sprintf("G%d", j+1))
	}

	b := milp.NewBuilder("balanced-syndicate")

	x := make([][]milp.Var, len(students))
	for i, s := range students {
		x[i] = make([]milp.Var, n)
		for j, g := range groups {
			x[i][j] = b.NewBinaryVar(fmt.Sprintf("x[%s,%s]", s.ID, g))
		}
	}

	// Every student belongs to exactly one group.
	for i, s := range students {
		b.AddEquality(ClassCompleteness, fmt.Sprintf("assign[%s]", s.ID),
			milp.NewLinearExpr().AddSum(x[i]...), 1)
	}

	// Every group holds exactly K students.
	for j, g := range groups {
		col := milp.NewLinearExpr()
		for i := range students {
			col.Add(x[i][j])
		}
		b.AddEquality(ClassCapacity, fmt.Sprintf("size[%s]", g), col, float64(cfg.GroupSize))
	}

	// Per-group gender windows.
	for _, gender := range model.Genders() {
		for j, g := range groups {
			expr := milp.NewLinearExpr()
			for i, s := range students {
				if s.Gender == gender {
					expr.Add(x[i][j])
				}
			}
			b.AddConstraint(ClassGender, fmt.Sprintf("gender[%s,%s]", gender, g),
				expr, float64(cfg.Gender.Min), float64(cfg.Gender.Max))
		}
	}

	// Minimum local-category representation per group.
	if cfg.LocalMin > 0 {
		for j, g := range groups {
			expr := milp.NewLinearExpr()
			for i, s := range students {
				if s.Category == cfg.LocalCategory {
					expr.Add(x[i][j])
				}
			}
			b.AddAtLeast(ClassLocalMin, fmt.Sprintf("local[%s]", g), expr, float64(cfg.LocalMin))
		}
	}

	buildSpreadConstraints(b, students, groups, cfg, x)

	objective := milp.NewLinearExpr()
	for i, s := range students {
		for j := range groups {
			objective.AddTerm(x[i][j], s.Score)
		}
	}
	buildPairingTerms(b, students, groups, cfg, x, objective)
	b.Maximize(objective)

	return Model{Problem: b.Problem(), Students: students, Groups: groups, X: x, Config: cfg}, nil
}

// buildSpreadConstraints bounds per-group counts of cultural categories:
// explicit limits first, then the derived ceil(count/N)+slack cap for the
// remaining non-local categories when spreading is enabled.
func buildSpreadConstraints(b *milp.Builder, students []model.Student, groups []model.GroupID, cfg Config, x [][]milp.Var) {
	byCategory := model.CountByCategory(students)
	for _, cat := range sortedCategories(byCategory) {
		limit, explicit := cfg.CategoryLimits[cat]
		if !explicit {
			if !cfg.Spread || cat == cfg.LocalCategory {
				continue
			}
			ceil := (byCategory[cat] + len(groups) - 1) / len(groups)
			limit = Bounds{Min: 0, Max: ceil + cfg.SpreadSlack}
		}
		for j, g := range groups {
			expr := milp.NewLinearExpr()
			for i, s := range students {
				if s.Category == cat {
					expr.Add(x[i][j])
				}
			}
			if limit.Min > 0 {
				b.AddConstraint(ClassSpread, fmt.Sprintf("spread[%s,%s]", cat, g),
					expr, float64(limit.Min), float64(limit.Max))
			} else {
				b.AddAtMost(ClassSpread, fmt.Sprintf("spread[%s,%s]", cat, g), expr, float64(limit.Max))
			}
		}
	}
}

// buildPairingTerms adds the same-category pairing bonus for non-local
// students: an integer count T[c,g] of category members per group and a pair
// count P[c,g] with 2*P <= T, rewarded in the objective. Disabled when the
// weight is zero, which keeps the objective the plain score sum.
func buildPairingTerms(b *milp.Builder, students []model.Student, groups []model.GroupID, cfg Config, x [][]milp.Var, objective *milp.LinearExpr) {
	if cfg.PairingWeight == 0 {
		return
	}
	byCategory := model.CountByCategory(students)
	for _, cat := range sortedCategories(byCategory) {
		if cat == cfg.LocalCategory {
			continue
		}
		for j, g := range groups {
			count := b.NewIntVar(fmt.Sprintf("T[%s,%s]", cat, g), 0, float64(cfg.GroupSize))
			pairs := b.NewIntVar(fmt.Sprintf("P[%s,%s]", cat, g), 0, math.Floor(float64(cfg.GroupSize)/2))

			members := milp.NewLinearExpr()
			for i, s := range students {
				if s.Category == cat {
					members.Add(x[i][j])
				}
			}
			b.AddEquality(ClassPairing, fmt.Sprintf("count[%s,%s]", cat, g),
				members.AddTerm(count, -1), 0)
			b.AddAtMost(ClassPairing, fmt.Sprintf("pairs[%s,%s]", cat, g),
				milp.NewLinearExpr().AddTerm(pairs, 2).AddTerm(count, -1), 0)

			objective.AddTerm(pairs, cfg.PairingWeight)
		}
	}
}

func sortedCategories(counts map[string]int) []string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// constraintsByClass summarizes the constraint set for diagnostics.
func constraintsByClass(p milp.Problem) map[string]int {
	counts := make(map[string]int)
	for _, c := range p.Constraints {
		counts[c.Class]++
	}
	return counts
}
