package model

import (
	"fmt"
	"math"
)

// Gender is the binary gender category of a student record.
type Gender string

const (
	Female Gender = "F"
	Male   Gender = "M"
)

// Genders lists the valid gender categories in a stable order.
func Genders() []Gender { return []Gender{Female, Male} }

// Student is an immutable input record. It is created from external data and
// never mutated by the pipeline.
type Student struct {
	ID string
	// Gender is one of the binary gender categories.
	Gender Gender
	// Category is the cultural/nationality category, one of a small fixed
	// enumeration supplied by the input table (e.g. "British", "Chinese").
	Category string
	// Score is the quantitative-background score used by the objective.
	Score float64
}

// Validate checks that the record is complete and well formed.
func (s Student) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("student id is required")
	}
	if s.Gender != Female && s.Gender != Male {
		return fmt.Errorf("student %s: unknown gender %q", s.ID, s.Gender)
	}
	if s.Category == "" {
		return fmt.Errorf("student %s: category is required", s.ID)
	}
	if math.IsNaN(s.Score) || math.IsInf(s.Score, 0) {
		return fmt.Errorf("student %s: score %v is not finite", s.ID, s.Score)
	}
	return nil
}

// CountByGender returns the number of students per gender category.
func CountByGender(students []Student) map[Gender]int {
	counts := make(map[Gender]int, 2)
	for _, s := range students {
		counts[s.Gender]++
	}
	return counts
}

// CountByCategory returns the number of students per cultural category.
func CountByCategory(students []Student) map[string]int {
	counts := make(map[string]int)
	for _, s := range students {
		counts[s.Category]++
	}
	return counts
}

// TotalScore returns the summed quantitative score of all students.
func TotalScore(students []Student) float64 {
	var sum float64
	for _, s := range students {
		sum += s.Score
	}
	return sum
}
