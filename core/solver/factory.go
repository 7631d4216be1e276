package solver

import "github.com/groupsmith/syndicate/core/factory"

var backendRegistry = factory.NewRegistry[Solver]()

// RegisterBackend adds a solver backend factory identified by name.
func RegisterBackend(name string, f factory.Factory[Solver]) error {
	return backendRegistry.Register(name, f)
}

// NewBackend creates a solver backend from the provided configuration.
func NewBackend(cfg factory.ModuleConfig) (Solver, error) {
	return backendRegistry.Create(cfg)
}
