package roster

import "fmt"

// Bounds is an inclusive [Min, Max] range a per-group category count must
// satisfy.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Config holds the balance bounds for one cohort.
type Config struct {
	// Groups is the target group count N. Zero derives it from the cohort
	// size divided by GroupSize.
	Groups int `json:"groups"`
	// GroupSize is the exact member count K of every group.
	GroupSize int `json:"group_size"`
	// Gender bounds the per-group count of each gender category.
	Gender Bounds `json:"gender"`
	// LocalCategory designates the majority/home cultural category.
	LocalCategory string `json:"local_category"`
	// LocalMin is the minimum per-group count of the local category.
	LocalMin int `json:"local_min"`
	// CategoryLimits optionally bounds per-group counts of specific
	// cultural categories.
	CategoryLimits map[string]Bounds `json:"category_limits"`
	// Spread caps every category without an explicit limit at
	// ceil(count/N) + SpreadSlack per group, so minority categories are
	// spread across groups instead of clustering.
	Spread      bool `json:"spread"`
	SpreadSlack int  `json:"spread_slack"`
	// PairingWeight adds a bonus per same-category pair of non-local
	// students in a group. Zero disables the pairing terms and leaves the
	// objective as the plain score sum.
	PairingWeight float64 `json:"pairing_weight"`
}

// SetDefaults applies the reference cohort defaults: groups of five with two
// to three members per gender and at least one local student each.
func (c *Config) SetDefaults() {
	if c.GroupSize == 0 {
		c.GroupSize = 5
	}
	if c.Gender.Min == 0 && c.Gender.Max == 0 {
		c.Gender = Bounds{Min: 2, Max: 3}
	}
	if c.LocalMin == 0 && c.LocalCategory != "" {
		c.LocalMin = 1
	}
}

// Validate checks the internal coherence of the bounds. Population-dependent
// checks are performed by Preflight.
func (c Config) Validate() error {
	if c.GroupSize <= 0 {
		return &ConfigError{Class: ClassCapacity, Detail: "group size must be positive"}
	}
	if c.Groups < 0 {
		return &ConfigError{Class: ClassCapacity, Detail: "group count must not be negative"}
	}
	if err := c.Gender.validate(ClassGender, c.GroupSize); err != nil {
		return err
	}
	if c.LocalMin < 0 || c.LocalMin > c.GroupSize {
		return &ConfigError{Class: ClassLocalMin, Detail: fmt.Sprintf("local minimum %d outside [0, %d]", c.LocalMin, c.GroupSize)}
	}
	if c.LocalMin > 0 && c.LocalCategory == "" {
		return &ConfigError{Class: ClassLocalMin, Detail: "local minimum set but no local category designated"}
	}
	for cat, b := range c.CategoryLimits {
		if err := b.validate(ClassSpread, c.GroupSize); err != nil {
			return &ConfigError{Class: ClassSpread, Detail: fmt.Sprintf("category %s: %v", cat, err)}
		}
	}
	if c.SpreadSlack < 0 {
		return &ConfigError{Class: ClassSpread, Detail: "spread slack must not be negative"}
	}
	if c.PairingWeight < 0 {
		return &ConfigError{Class: ClassPairing, Detail: "pairing weight must not be negative"}
	}
	return nil
}

func (b Bounds) validate(class string, groupSize int) error {
	if b.Min < 0 || b.Max < 0 {
		return &ConfigError{Class: class, Detail: "bounds must not be negative"}
	}
	if b.Min > b.Max {
		return &ConfigError{Class: class, Detail: fmt.Sprintf("min %d exceeds max %d", b.Min, b.Max)}
	}
	if b.Min > groupSize {
		return &ConfigError{Class: class, Detail: fmt.Sprintf("min %d exceeds group size %d", b.Min, groupSize)}
	}
	return nil
}

// groupCount resolves N, deriving it from the cohort size when unset.
func (c Config) groupCount(total int) int {
	if c.Groups > 0 {
		return c.Groups
	}
	return total / c.GroupSize
}
