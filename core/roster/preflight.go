package roster

import (
	"fmt"

	"github.com/groupsmith/syndicate/core/model"
)

// Preflight rejects cohorts and configurations that cannot possibly admit an
// assignment, so the solver is never asked to prove infeasibility for purely
// structural reasons. It reports the first violated constraint class with
// enough detail to relax the bounds.
func Preflight(students []model.Student, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(students) == 0 {
		return &InputError{Detail: "no student records"}
	}

	seen := make(map[string]struct{}, len(students))
	for _, s := range students {
		if err := s.Validate(); err != nil {
			return &InputError{StudentID: s.ID, Detail: err.Error()}
		}
		if _, dup := seen[s.ID]; dup {
			return &InputError{StudentID: s.ID, Detail: "duplicate student id"}
		}
		seen[s.ID] = struct{}{}
	}

	n := cfg.groupCount(len(students))
	k := cfg.GroupSize
	if n == 0 || n*k != len(students) {
		return &ConfigError{
			Class:  ClassCapacity,
			Detail: fmt.Sprintf("%d students do not divide into %d groups of %d", len(students), n, k),
		}
	}

	// Per-group gender windows must be able to add up to the group size.
	genders := model.Genders()
	if len(genders)*cfg.Gender.Min > k {
		return &ConfigError{
			Class:  ClassGender,
			Detail: fmt.Sprintf("gender minima sum to %d but groups hold %d", len(genders)*cfg.Gender.Min, k),
		}
	}
	if len(genders)*cfg.Gender.Max < k {
		return &ConfigError{
			Class:  ClassGender,
			Detail: fmt.Sprintf("gender maxima sum to %d but groups hold %d", len(genders)*cfg.Gender.Max, k),
		}
	}

	// Every gender population must fit the per-group window across all groups.
	byGender := model.CountByGender(students)
	for _, g := range genders {
		count := byGender[g]
		if count < n*cfg.Gender.Min || count > n*cfg.Gender.Max {
			return &ConfigError{
				Class: ClassGender,
				Detail: fmt.Sprintf("gender %s has %d students, outside [%d, %d] required by %d groups with bounds [%d, %d]",
					g, count, n*cfg.Gender.Min, n*cfg.Gender.Max, n, cfg.Gender.Min, cfg.Gender.Max),
			}
		}
	}

	byCategory := model.CountByCategory(students)
	if cfg.LocalMin > 0 {
		local := byCategory[cfg.LocalCategory]
		if local < n*cfg.LocalMin {
			return &ConfigError{
				Class: ClassLocalMin,
				Detail: fmt.Sprintf("category %s has %d students but %d groups require at least %d each",
					cfg.LocalCategory, local, n, cfg.LocalMin),
			}
		}
	}

	for cat, b := range cfg.CategoryLimits {
		count := byCategory[cat]
		if count < n*b.Min {
			return &ConfigError{
				Class:  ClassSpread,
				Detail: fmt.Sprintf("category %s has %d students but %d groups require at least %d each", cat, count, n, b.Min),
			}
		}
		if count > n*b.Max {
			return &ConfigError{
				Class:  ClassSpread,
				Detail: fmt.Sprintf("category %s has %d students but %d groups admit at most %d each", cat, count, n, b.Max),
			}
		}
	}

	return nil
}
