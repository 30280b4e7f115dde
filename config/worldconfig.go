// Package config holds the simulation's tunable constants in a single
// explicit value passed through the Space, replacing the source
// engine's global mutable statics (a public static Entity, a static
// cellSizeInverse) with ordinary struct fields.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// WorldConfig collects every tunable knob enumerated by the kernel's
// external interface: broad-phase cell size, solver iteration counts,
// contact tolerance, and character-controller constants.
type WorldConfig struct {
	// BroadPhaseCellSize is the Grid2D quantum on the Y,Z plane.
	BroadPhaseCellSize float32 `yaml:"broad_phase_cell_size"`

	// VelocityIterations is the number of PGS sweeps the solver runs
	// per step.
	VelocityIterations int `yaml:"velocity_iterations"`

	// PositionIterations is the number of optional split-impulse
	// position-correction sweeps. The solver in this module has no
	// position pass and does not read it.
	PositionIterations int `yaml:"position_iterations"`

	// AllowedPenetration is the depth below which no position
	// correction is applied, preventing jitter from over-correction.
	AllowedPenetration float32 `yaml:"allowed_penetration"`

	// CollisionMargin is the shape inflation used by narrow-phase
	// tests to keep manifolds warm slightly before true penetration.
	CollisionMargin float32 `yaml:"collision_margin"`

	// JumpSpeed is the vertical speed applied to a character with
	// full traction on jump.
	JumpSpeed float32 `yaml:"jump_speed"`

	// SlidingJumpSpeed is the speed, along the negated support normal,
	// applied to a character with support but no traction on jump.
	SlidingJumpSpeed float32 `yaml:"sliding_jump_speed"`

	// JumpForceFactor scales the reaction impulse applied back onto a
	// dynamic support object when the character jumps off it. Must be
	// >= 0 (spec section 7: a negative value is a precondition
	// violation).
	JumpForceFactor float32 `yaml:"jump_force_factor"`

	// GlueSpeed bounds the downward relative velocity the ground-glue
	// behavior will absorb to keep a traction-bearing character from
	// separating from uneven ground.
	GlueSpeed float32 `yaml:"glue_speed"`

	// MaximumStepHeight is a ceiling for up/down stepping. NewStepper
	// does not read it; a new Stepper starts with its own 0.3.
	MaximumStepHeight float32 `yaml:"maximum_step_height"`
}

// DefaultWorldConfig returns the kernel's documented defaults.
func DefaultWorldConfig() *WorldConfig {

	return &WorldConfig{
		BroadPhaseCellSize: 8.0,
		VelocityIterations: 10,
		PositionIterations: 2,
		AllowedPenetration: 0.01,
		CollisionMargin:    0.1,
		JumpSpeed:          4.5,
		SlidingJumpSpeed:   3.0,
		JumpForceFactor:    1.0,
		GlueSpeed:          1.0,
		MaximumStepHeight:  0.5,
	}
}

// Load reads a WorldConfig from a YAML file at path. Fields absent
// from the file retain the zero value, not a default — callers that
// want defaults-plus-overrides should start from DefaultWorldConfig
// and unmarshal into it directly rather than calling Load.
func Load(path string) (*WorldConfig, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := new(WorldConfig)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating or truncating the file.
func (cfg *WorldConfig) Save(path string) error {

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
