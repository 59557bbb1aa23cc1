package locomotion

// JumpController decides when a jump may run and applies its impulses.
type JumpController struct {
	cfg    *MotionConfig
	timers *TimerBank
}

// RequestJump reports whether a jump should execute now. A jump is allowed on
// the ground, inside the coyote window or out of a slide; otherwise the
// request is buffered and nothing is applied.
func (j *JumpController) RequestJump(grounded, sliding bool) bool {
	if grounded || sliding || j.timers.HasCoyote() {
		return true
	}
	j.timers.BufferJump()
	return false
}

// LandingJump reports whether a buffered jump fires on this landing. The
// buffer is consumed.
func (j *JumpController) LandingJump(landed bool) bool {
	if !landed || !j.timers.JumpBuffered() {
		return false
	}
	j.timers.ClearJumpBuffer()
	return true
}

// Perform applies a jump to body. direction is the horizontal sign used by a
// slide-jump and must be -1 or 1.
func (j *JumpController) Perform(body Body, slideJump bool, direction float64) {
	v := body.Velocity()
	body.SetVelocity(Vec2{X: v.X, Y: 0})

	if slideJump {
		body.ApplyImpulse(Vec2{Y: j.cfg.JumpForce * j.cfg.SlideJumpMultiplier})
		body.ApplyImpulse(Vec2{X: direction * j.cfg.SlideJumpForwardForce * j.cfg.SlideJumpForwardScale})

		floor := j.cfg.slideJumpMinSpeed()
		v = body.Velocity()
		if v.X*direction < floor {
			body.SetVelocity(Vec2{X: direction * floor, Y: v.Y})
		}
	} else {
		body.ApplyImpulse(Vec2{Y: j.cfg.JumpForce})
	}

	j.timers.ClearCoyote()
	j.timers.ClearJumpBuffer()
}

// ReleaseJump cuts upward velocity when the jump button is let go in the air.
// It is a no-op on the ground or while descending.
func (j *JumpController) ReleaseJump(body Body, airborne bool) bool {
	if !airborne {
		return false
	}
	v := body.Velocity()
	if v.Y <= 0 {
		return false
	}
	body.SetVelocity(Vec2{X: v.X, Y: v.Y * j.cfg.JumpCutMultiplier})
	return true
}
