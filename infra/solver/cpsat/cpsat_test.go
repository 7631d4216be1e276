package cpsat

// These tests run the real CP-SAT solver through the adapter.

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/groupsmith/syndicate/core/milp"
	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/roster"
	"github.com/groupsmith/syndicate/core/solver"
	"github.com/groupsmith/syndicate/infra/logger"
	"github.com/groupsmith/syndicate/infra/solver/simplex"
)

func TestSolveScaledObjective(t *testing.T) {
	b := milp.NewBuilder("knapsack")
	x := b.NewBinaryVar("x")
	y := b.NewBinaryVar("y")
	b.AddAtMost("cap", "x+y<=1", milp.NewLinearExpr().AddSum(x, y), 1)
	b.Maximize(milp.NewLinearExpr().AddTerm(x, 1.5).AddTerm(y, 2.25))

	res, err := New(Config{}, logger.NopLogger{}).Solve(context.Background(), b.Problem(), solver.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != solver.Optimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	if math.Abs(res.Objective-2.25) > 1e-6 {
		t.Fatalf("expected objective 2.25 got %v", res.Objective)
	}
	if res.Values[x.Index] != 0 || res.Values[y.Index] != 1 {
		t.Fatalf("expected y selected got %v", res.Values)
	}
}

// Objective coefficients finer than the scale must not drift the reported
// objective away from the exact coefficient sum, which the extractor checks
// against a 1e-4 tolerance.
func TestSolveObjectiveExactWithFineScores(t *testing.T) {
	b := milp.NewBuilder("fine-scores")
	scores := []float64{2.5004, 1.0004, 3.2504, 0.7504}
	vars := make([]milp.Var, len(scores))
	obj := milp.NewLinearExpr()
	for i, score := range scores {
		vars[i] = b.NewBinaryVar(fmt.Sprintf("x%d", i))
		obj.AddTerm(vars[i], score)
	}
	b.Maximize(obj)

	res, err := New(Config{}, logger.NopLogger{}).Solve(context.Background(), b.Problem(), solver.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != solver.Optimal {
		t.Fatalf("expected optimal got %s", res.Status)
	}
	var want float64
	for _, score := range scores {
		want += score
	}
	if res.Objective != want {
		t.Fatalf("expected objective %v got %v", want, res.Objective)
	}
}

func TestSolveInfeasible(t *testing.T) {
	b := milp.NewBuilder("infeasible")
	x := b.NewBinaryVar("x")
	y := b.NewBinaryVar("y")
	b.AddEquality("eq", "x+y=3", milp.NewLinearExpr().AddSum(x, y), 3)
	b.Minimize(milp.NewLinearExpr().Add(x))

	res, err := New(Config{}, logger.NopLogger{}).Solve(context.Background(), b.Problem(), solver.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != solver.Infeasible {
		t.Fatalf("expected infeasible got %s", res.Status)
	}
}

func TestSolveRejectsContinuousVars(t *testing.T) {
	b := milp.NewBuilder("lp")
	x := b.NewContinuousVar("x", 0, 1)
	b.Minimize(milp.NewLinearExpr().Add(x))

	if _, err := New(Config{}, logger.NopLogger{}).Solve(context.Background(), b.Problem(), solver.Options{}); err == nil {
		t.Fatalf("expected error for continuous variable")
	}
}

// referenceCohort mirrors the scenario from the design discussion: 45
// students, 24 female and 21 male, 9 locals, groups of five.
func referenceCohort() []model.Student {
	categories := []string{"Chinese", "Indian", "Nigerian", "Brazilian", "German", "Japanese"}
	students := make([]model.Student, 0, 45)
	for i := 0; i < 45; i++ {
		gender := model.Female
		if i >= 24 {
			gender = model.Male
		}
		category := "British"
		if i >= 9 {
			category = categories[i%len(categories)]
		}
		students = append(students, model.Student{
			ID:       fmt.Sprintf("S%02d", i+1),
			Gender:   gender,
			Category: category,
			Score:    float64(i%7) + 0.5,
		})
	}
	return students
}

func TestPlanReferenceCohort(t *testing.T) {
	students := referenceCohort()
	cfg := roster.Config{
		GroupSize:     5,
		Gender:        roster.Bounds{Min: 2, Max: 3},
		LocalCategory: "British",
		LocalMin:      1,
	}

	p := roster.NewPlanner(New(Config{}, logger.NopLogger{}), solver.Options{TimeLimit: 30 * time.Second}, logger.NopLogger{})
	p.SetRelaxationFirst(simplex.New())

	a, stats, err := p.Plan(context.Background(), students, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Optimal {
		t.Fatalf("expected a proven optimal assignment")
	}
	if len(stats) != 9 {
		t.Fatalf("expected 9 groups got %d", len(stats))
	}
	var total float64
	for _, gs := range stats {
		if gs.Size != 5 {
			t.Fatalf("group %s has %d members", gs.Group, gs.Size)
		}
		if n := gs.ByGender[model.Female]; n < 2 || n > 3 {
			t.Fatalf("group %s has %d female members", gs.Group, n)
		}
		if gs.ByCategory["British"] < 1 {
			t.Fatalf("group %s has no local member", gs.Group)
		}
		total += gs.ScoreSum
	}
	if math.Abs(total-a.Objective) > 1e-6 {
		t.Fatalf("group sums %v do not match objective %v", total, a.Objective)
	}

	// Re-running the unchanged pipeline yields the same objective value.
	b, _, err := p.Plan(context.Background(), students, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(a.Objective-b.Objective) > 1e-6 {
		t.Fatalf("objective changed across runs: %v vs %v", a.Objective, b.Objective)
	}
}
