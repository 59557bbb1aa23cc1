package locomotion

import (
	"fmt"
	"math"
)

// MotionConfig holds the designer tunables for one character. Speeds are in
// world units per second, forces and impulses in physics units and times in
// simulation seconds.
type MotionConfig struct {
	MoveSpeed         float64
	SprintMultiplier  float64
	JumpForce         float64
	JumpCutMultiplier float64
	FastFallForce     float64

	CoyoteTime     float64
	JumpBufferTime float64

	SlideSpeedMultiplier float64
	SlideDuration        float64
	SlideCooldown        float64

	SlideJumpMultiplier   float64
	SlideJumpForwardForce float64
	SlideJumpForwardScale float64
	// SlideJumpMinSpeed is the horizontal speed floor after a slide-jump.
	// Zero means MoveSpeed * SlideSpeedMultiplier.
	SlideJumpMinSpeed float64
}

// DefaultMotionConfig returns the tuning used for keys a prefab leaves out.
// Zero is a valid value for every field: a zero CoyoteTime disables coyote
// time, a zero SlideCooldown allows back-to-back slides.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		MoveSpeed:             5,
		SprintMultiplier:      1.5,
		JumpForce:             10,
		JumpCutMultiplier:     0.5,
		FastFallForce:         10,
		CoyoteTime:            0.1,
		JumpBufferTime:        0.1,
		SlideSpeedMultiplier:  1.5,
		SlideDuration:         0.5,
		SlideCooldown:         1,
		SlideJumpMultiplier:   1.2,
		SlideJumpForwardForce: 5,
		SlideJumpForwardScale: 2,
	}
}

type configField struct {
	name  string
	value *float64
}

func (c *MotionConfig) fields() []configField {
	return []configField{
		{"move_speed", &c.MoveSpeed},
		{"sprint_multiplier", &c.SprintMultiplier},
		{"jump_force", &c.JumpForce},
		{"jump_cut_multiplier", &c.JumpCutMultiplier},
		{"fast_fall_force", &c.FastFallForce},
		{"coyote_time", &c.CoyoteTime},
		{"jump_buffer_time", &c.JumpBufferTime},
		{"slide_speed_multiplier", &c.SlideSpeedMultiplier},
		{"slide_duration", &c.SlideDuration},
		{"slide_cooldown", &c.SlideCooldown},
		{"slide_jump_multiplier", &c.SlideJumpMultiplier},
		{"slide_jump_forward_force", &c.SlideJumpForwardForce},
		{"slide_jump_forward_scale", &c.SlideJumpForwardScale},
		{"slide_jump_min_speed", &c.SlideJumpMinSpeed},
	}
}

// Validate reports negative or non-finite fields as ErrInvalidConfig.
func (c MotionConfig) Validate() error {
	for _, f := range c.fields() {
		v := *f.value
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, f.name, v)
		}
	}
	if c.JumpCutMultiplier > 1 {
		return fmt.Errorf("%w: jump_cut_multiplier = %v, must be at most 1", ErrInvalidConfig, c.JumpCutMultiplier)
	}
	return nil
}

// speed is the current horizontal run speed.
func (c *MotionConfig) speed(sprinting bool) float64 {
	if sprinting {
		return c.MoveSpeed * c.SprintMultiplier
	}
	return c.MoveSpeed
}

func (c *MotionConfig) slideJumpMinSpeed() float64 {
	if c.SlideJumpMinSpeed > 0 {
		return c.SlideJumpMinSpeed
	}
	return c.MoveSpeed * c.SlideSpeedMultiplier
}
