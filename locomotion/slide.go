package locomotion

import "github.com/milk9111/locomotion/common"

// slideEpsilon absorbs float drift when counting down the slide.
const slideEpsilon = 1e-9

type slideTask struct {
	active    bool
	remaining float64
	velocityX float64
}

// SlideController owns the timed slide override of horizontal velocity.
type SlideController struct {
	cfg    *MotionConfig
	timers *TimerBank
	task   slideTask
}

// RequestSlide starts a slide when grounded, idle and off cooldown. Anything
// else is ignored.
func (s *SlideController) RequestSlide(grounded bool, currentSpeed, axis float64, facing Facing) bool {
	if !grounded || s.task.active || !s.timers.SlideReady() {
		return false
	}
	dir := facing.Sign()
	if axis != 0 {
		dir = common.Sign(axis)
	}
	s.task = slideTask{
		active:    true,
		remaining: s.cfg.SlideDuration,
		velocityX: currentSpeed * s.cfg.SlideSpeedMultiplier * dir,
	}
	s.timers.ResetSlideCooldown()
	return true
}

func (s *SlideController) Active() bool { return s.task.active }

// Velocity is the pinned horizontal velocity of the running slide.
func (s *SlideController) Velocity() float64 { return s.task.velocityX }

func (s *SlideController) Remaining() float64 { return s.task.remaining }

// Apply pins horizontal velocity for this tick and counts the slide down. It
// reports whether the slide finished on this tick.
func (s *SlideController) Apply(body Body, dt float64) bool {
	if !s.task.active {
		return false
	}
	v := body.Velocity()
	body.SetVelocity(Vec2{X: s.task.velocityX, Y: v.Y})
	s.task.remaining -= dt
	if s.task.remaining <= slideEpsilon {
		s.task = slideTask{}
		return true
	}
	return false
}

// Cancel stops the slide immediately. It reports whether one was running.
func (s *SlideController) Cancel() bool {
	was := s.task.active
	s.task = slideTask{}
	return was
}
