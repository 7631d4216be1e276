package roster

import (
	"fmt"

	"github.com/groupsmith/syndicate/core/model"
)

// referenceCohort builds the 45-student cohort used across tests: 24 female,
// 21 male, 9 local ("British") students and a mix of international
// categories, with deterministic scores.
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

func referenceConfig() Config {
	return Config{
		GroupSize:     5,
		Gender:        Bounds{Min: 2, Max: 3},
		LocalCategory: "British",
		LocalMin:      1,
	}
}

// smallCohort is a 4-student instance with a unique known-valid split into
// two groups of two.
func smallCohort() []model.Student {
	return []model.Student{
		{ID: "s1", Gender: model.Female, Category: "British", Score: 1},
		{ID: "s2", Gender: model.Male, Category: "Chinese", Score: 2},
		{ID: "s3", Gender: model.Female, Category: "Chinese", Score: 3},
		{ID: "s4", Gender: model.Male, Category: "British", Score: 4},
	}
}

func smallConfig() Config {
	return Config{
		GroupSize:     2,
		Gender:        Bounds{Min: 1, Max: 1},
		LocalCategory: "British",
		LocalMin:      1,
	}
}
