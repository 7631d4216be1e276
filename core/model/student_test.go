package model

import (
	"math"
	"testing"
)

func TestStudentValidate(t *testing.T) {
	ok := Student{ID: "s1", Gender: Female, Category: "British", Score: 1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []Student{
		{Gender: Female, Category: "British"},
		{ID: "s2", Gender: "X", Category: "British"},
		{ID: "s3", Gender: Male},
		{ID: "s4", Gender: Female, Category: "British", Score: math.NaN()},
		{ID: "s5", Gender: Male, Category: "British", Score: math.Inf(1)},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestCohortCounts(t *testing.T) {
	students := []Student{
		{ID: "s1", Gender: Female, Category: "British", Score: 2},
		{ID: "s2", Gender: Male, Category: "Chinese", Score: 3},
		{ID: "s3", Gender: Female, Category: "British", Score: 5},
	}
	byGender := CountByGender(students)
	if byGender[Female] != 2 || byGender[Male] != 1 {
		t.Fatalf("unexpected gender counts: %v", byGender)
	}
	byCat := CountByCategory(students)
	if byCat["British"] != 2 || byCat["Chinese"] != 1 {
		t.Fatalf("unexpected category counts: %v", byCat)
	}
	if got := TotalScore(students); got != 10 {
		t.Fatalf("expected total score 10 got %v", got)
	}
}

func TestAssignmentMembers(t *testing.T) {
	a := Assignment{
		Groups:    []GroupID{"G1", "G2"},
		ByStudent: map[string]GroupID{"s2": "G1", "s1": "G1", "s3": "G2"},
	}
	got := a.Members("G1")
	if len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Fatalf("unexpected members: %v", got)
	}
}
