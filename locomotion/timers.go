package locomotion

import "math"

// TimerBank holds the coyote, jump buffer and slide cooldown timers in
// simulation seconds. All values stay non-negative.
type TimerBank struct {
	CoyoteRemaining      float64
	JumpBufferRemaining  float64
	SlideCooldownElapsed float64

	cfg *MotionConfig
}

func newTimerBank(cfg *MotionConfig) TimerBank {
	t := TimerBank{cfg: cfg}
	t.Reset()
	return t
}

// Reset clears coyote and buffer time and makes the slide available.
func (t *TimerBank) Reset() {
	t.CoyoteRemaining = 0
	t.JumpBufferRemaining = 0
	t.SlideCooldownElapsed = t.cfg.SlideCooldown
}

// Tick advances every timer by dt. Standing on ground fully recharges coyote
// time.
func (t *TimerBank) Tick(dt float64, contact GroundContact) {
	if contact.IsGrounded {
		t.CoyoteRemaining = t.cfg.CoyoteTime
	} else {
		t.CoyoteRemaining = math.Max(0, t.CoyoteRemaining-dt)
	}
	t.JumpBufferRemaining = math.Max(0, t.JumpBufferRemaining-dt)
	t.SlideCooldownElapsed += dt
}

func (t TimerBank) HasCoyote() bool { return t.CoyoteRemaining > 0 }
func (t *TimerBank) ClearCoyote() { t.CoyoteRemaining = 0 }
func (t TimerBank) JumpBuffered() bool { return t.JumpBufferRemaining > 0 }

// BufferJump records a rejected jump request.
func (t *TimerBank) BufferJump() { t.JumpBufferRemaining = t.cfg.JumpBufferTime }
func (t *TimerBank) ClearJumpBuffer() { t.JumpBufferRemaining = 0 }

func (t TimerBank) SlideReady() bool { return t.SlideCooldownElapsed >= t.cfg.SlideCooldown }
func (t *TimerBank) ResetSlideCooldown() { t.SlideCooldownElapsed = 0 }
