// Package solver registers the built-in solver backends.
package solver

import (
	"github.com/groupsmith/syndicate/core/factory"
	coresolver "github.com/groupsmith/syndicate/core/solver"
	"github.com/groupsmith/syndicate/infra/logger"
	"github.com/groupsmith/syndicate/infra/solver/cpsat"
	"github.com/groupsmith/syndicate/infra/solver/simplex"
)

// init registers built-in solver backends.
func init() {
	_ = coresolver.RegisterBackend("cpsat", func(conf map[string]any) (coresolver.Solver, error) {
		var c struct {
			ObjectiveScale int64 `json:"objective_scale"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return cpsat.New(cpsat.Config{ObjectiveScale: c.ObjectiveScale}, logger.New("cpsat")), nil
	})

	_ = coresolver.RegisterBackend("simplex", func(map[string]any) (coresolver.Solver, error) {
		return simplex.New(), nil
	})
}
