package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/groupsmith/syndicate/core/model"
)

// ConfigError reports a structurally impossible configuration, detected
// before the solver is invoked.
type ConfigError struct {
	// Class names the constraint family the configuration breaks, e.g.
	// "capacity" or "local-minimum".
	Class  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Class, e.Detail)
}

// InputError reports a missing or malformed individual record.
type InputError struct {
	StudentID string
	Detail    string
}

func (e *InputError) Error() string {
	if e.StudentID == "" {
		return fmt.Sprintf("input error: %s", e.Detail)
	}
	return fmt.Sprintf("input error: student %s: %s", e.StudentID, e.Detail)
}

// InfeasibleError reports that the solver proved no assignment satisfies all
// constraints. The constraint set is kept intact so a caller can decide which
// bounds to relax.
type InfeasibleError struct {
	// Constraints counts the model constraints per class.
	Constraints map[string]int
}

func (e *InfeasibleError) Error() string {
	classes := make([]string, 0, len(e.Constraints))
	for c, n := range e.Constraints {
		classes = append(classes, fmt.Sprintf("%s=%d", c, n))
	}
	return fmt.Sprintf("no feasible assignment under the configured bounds (%s)", strings.Join(classes, ", "))
}

// TimeoutError reports that the solve budget elapsed before any assignment
// was found. It is distinct from infeasibility; retrying with a larger budget
// or relaxed bounds may succeed.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("solver exceeded the %s time budget without a result", e.Limit)
}

// ConsistencyError reports that the solved variables do not round to a valid
// assignment, indicating a solver numerical issue or a constraint-encoding
// bug. It is fatal and never silently ignored.
type ConsistencyError struct {
	StudentID string
	Groups    []model.GroupID
	Detail    string
}

func (e *ConsistencyError) Error() string {
	switch {
	case e.Detail != "" && e.StudentID != "":
		return fmt.Sprintf("result inconsistency: student %s: %s", e.StudentID, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("result inconsistency: %s", e.Detail)
	case e.StudentID != "" && len(e.Groups) == 0:
		return fmt.Sprintf("result inconsistency: student %s assigned to no group", e.StudentID)
	default:
		return fmt.Sprintf("result inconsistency: student %s assigned to %d groups %v", e.StudentID, len(e.Groups), e.Groups)
	}
}
