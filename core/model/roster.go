package model

import "sort"

// GroupID identifies one of the N groups, e.g. "G1".."G9".
type GroupID string

// Assignment maps every student to exactly one group. It is an immutable
// snapshot produced after solving; callers must not feed it back into model
// construction.
type Assignment struct {
	// Groups lists the group identifiers in order.
	Groups []GroupID
	// ByStudent maps a student ID to its assigned group.
	ByStudent map[string]GroupID
	// Objective is the objective value reported by the solver.
	Objective float64
	// Optimal is false when the solver returned a feasible but not proven
	// optimal assignment within its budget.
	Optimal bool
}

// Members returns the student IDs assigned to the group, sorted.
func (a Assignment) Members(g GroupID) []string {
	var members []string
	for id, grp := range a.ByStudent {
		if grp == g {
			members = append(members, id)
		}
	}
	sort.Strings(members)
	return members
}

// GroupStats holds derived, read-only statistics for one group, computed
// after solving and used only for reporting and validation.
type GroupStats struct {
	Group      GroupID
	Members    []string
	Size       int
	ByGender   map[Gender]int
	ByCategory map[string]int
	// ScoreSum is the group's contribution to the overall objective.
	ScoreSum  float64
	ScoreMean float64
}
