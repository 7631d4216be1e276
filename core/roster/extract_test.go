package roster

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/groupsmith/syndicate/core/model"
	"github.com/groupsmith/syndicate/core/solver"
)

// smallSolution assigns s1,s2 to G1 and s3,s4 to G2, the only valid split of
// the small cohort up to group relabeling that keeps s1 with s2.
func smallSolution() []float64 {
	return []float64{
		1, 0, // s1 -> G1
		1, 0, // s2 -> G1
		0, 1, // s3 -> G2
		0, 1, // s4 -> G2
	}
}

func TestExtractAssignment(t *testing.T) {
	m, err := Build(smallCohort(), smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := solver.Result{Status: solver.Optimal, Values: smallSolution(), Objective: 10}
	a, err := Extract(m, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ByStudent["s1"] != "G1" || a.ByStudent["s2"] != "G1" || a.ByStudent["s3"] != "G2" || a.ByStudent["s4"] != "G2" {
		t.Fatalf("unexpected assignment: %v", a.ByStudent)
	}
	if !a.Optimal || a.Objective != 10 {
		t.Fatalf("unexpected result flags: %+v", a)
	}
	if err := Verify(smallCohort(), smallConfig(), a); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
}

func TestExtractRoundsNumericalNoise(t *testing.T) {
	m, err := Build(smallCohort(), smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := smallSolution()
	values[0] = 1 - 1e-9
	values[1] = 1e-9
	res := solver.Result{Status: solver.Optimal, Values: values, Objective: 10}
	a, err := Extract(m, res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ByStudent["s1"] != "G1" {
		t.Fatalf("expected s1 in G1 got %v", a.ByStudent["s1"])
	}
}

func TestExtractConsistencyErrors(t *testing.T) {
	m, err := Build(smallCohort(), smallConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var consErr *ConsistencyError

	// s1 assigned nowhere.
	values := smallSolution()
	values[0] = 0
	_, err = Extract(m, solver.Result{Status: solver.Optimal, Values: values, Objective: 10})
	if !errors.As(err, &consErr) || consErr.StudentID != "s1" {
		t.Fatalf("expected consistency error for s1 got %v", err)
	}

	// s2 assigned twice.
	values = smallSolution()
	values[3] = 1
	_, err = Extract(m, solver.Result{Status: solver.Optimal, Values: values, Objective: 10})
	if !errors.As(err, &consErr) || len(consErr.Groups) != 2 {
		t.Fatalf("expected double assignment error got %v", err)
	}

	// Fractional value far from both 0 and 1. The message must carry the
	// offending variable, not the no-group wording.
	values = smallSolution()
	values[0] = 0.5
	_, err = Extract(m, solver.Result{Status: solver.Optimal, Values: values, Objective: 10})
	if !errors.As(err, &consErr) {
		t.Fatalf("expected fractional-value error got %v", err)
	}
	if !strings.Contains(err.Error(), "non-integral value") {
		t.Fatalf("expected non-integral detail in message, got %q", err.Error())
	}

	// Reported objective diverging from the variables.
	_, err = Extract(m, solver.Result{Status: solver.Optimal, Values: smallSolution(), Objective: 11})
	if !errors.As(err, &consErr) {
		t.Fatalf("expected objective mismatch error got %v", err)
	}

	// No solution to extract.
	_, err = Extract(m, solver.Result{Status: solver.Infeasible})
	if !errors.As(err, &consErr) {
		t.Fatalf("expected error for infeasible result got %v", err)
	}
}

func TestStats(t *testing.T) {
	students := smallCohort()
	a := model.Assignment{
		Groups:    []model.GroupID{"G1", "G2"},
		ByStudent: map[string]model.GroupID{"s1": "G1", "s2": "G1", "s3": "G2", "s4": "G2"},
		Objective: 10,
	}
	stats := Stats(students, a)
	if len(stats) != 2 {
		t.Fatalf("expected 2 groups got %d", len(stats))
	}
	g1 := stats[0]
	if g1.Size != 2 || g1.ByGender[model.Female] != 1 || g1.ByGender[model.Male] != 1 {
		t.Fatalf("unexpected G1 stats: %+v", g1)
	}
	if g1.ByCategory["British"] != 1 || g1.ByCategory["Chinese"] != 1 {
		t.Fatalf("unexpected G1 categories: %+v", g1.ByCategory)
	}
	if g1.ScoreSum != 3 || math.Abs(g1.ScoreMean-1.5) > 1e-12 {
		t.Fatalf("unexpected G1 scores: %+v", g1)
	}

	// The per-group sums must add up to the objective.
	var total float64
	for _, gs := range stats {
		total += gs.ScoreSum
	}
	if math.Abs(total-a.Objective) > 1e-9 {
		t.Fatalf("group sums %v do not match objective %v", total, a.Objective)
	}
}

func TestVerifyFlagsViolations(t *testing.T) {
	students := smallCohort()
	// Same-gender grouping breaks the [1,1] gender window.
	a := model.Assignment{
		Groups:    []model.GroupID{"G1", "G2"},
		ByStudent: map[string]model.GroupID{"s1": "G1", "s3": "G1", "s2": "G2", "s4": "G2"},
	}
	var consErr *ConsistencyError
	if err := Verify(students, smallConfig(), a); !errors.As(err, &consErr) {
		t.Fatalf("expected consistency error got %v", err)
	}
}
