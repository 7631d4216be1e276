package config

import (
	"fmt"

	"github.com/groupsmith/syndicate/core/factory"
)

// SolverConfig selects the solver backends and the solve budget.
type SolverConfig struct {
	// Backend is the exact integer solver.
	Backend factory.ModuleConfig `json:"backend"`
	// Relaxation is the continuous solver tried first when RelaxationFirst
	// is set. An integral relaxation optimum is accepted without running
	// the exact backend.
	Relaxation factory.ModuleConfig `json:"relaxation"`
	// RelaxationFirst enables the relaxation fast path.
	RelaxationFirst bool `json:"relaxation_first"`
	// TimeLimitSeconds bounds the exact solve. Zero means no limit.
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
}

// SetDefaults applies sane defaults.
func (c *SolverConfig) SetDefaults() {
	if c.Backend.Type == "" {
		c.Backend.Type = "cpsat"
	}
	if c.RelaxationFirst && c.Relaxation.Type == "" {
		c.Relaxation.Type = "simplex"
	}
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.Backend.Type == "" {
		return fmt.Errorf("solver.backend.type is required")
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("solver.time_limit_seconds must not be negative")
	}
	return nil
}
