package locomotion

import "testing"

func TestSlideJumpHorizontalFloor(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*MotionConfig)
		vel       Vec2
		direction float64
		wantVX    float64
	}{
		{"impulse beats floor", func(*MotionConfig) {}, Vec2{}, -1, -10},
		{"opposing residual is floored", func(*MotionConfig) {}, Vec2{X: -20, Y: -3}, 1, 7.5},
		{"weak impulse is floored", func(c *MotionConfig) { c.SlideJumpForwardForce = 0.1 }, Vec2{}, 1, 7.5},
		{"explicit floor", func(c *MotionConfig) { c.SlideJumpMinSpeed = 15 }, Vec2{}, 1, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMotionConfig()
			tt.mutate(&cfg)
			tb := newTimerBank(&cfg)
			tb.CoyoteRemaining = 0.05
			tb.BufferJump()
			j := JumpController{cfg: &cfg, timers: &tb}

			body := newFakeBody()
			body.vel = tt.vel
			j.Perform(body, true, tt.direction)

			if !approxEqual(body.vel.X, tt.wantVX) {
				t.Fatalf("vx = %v, want %v", body.vel.X, tt.wantVX)
			}
			if !approxEqual(body.vel.Y, cfg.JumpForce*cfg.SlideJumpMultiplier) {
				t.Fatalf("vy = %v, want %v", body.vel.Y, cfg.JumpForce*cfg.SlideJumpMultiplier)
			}
			if tb.CoyoteRemaining != 0 || tb.JumpBuffered() {
				t.Fatalf("timers not cleared: %+v", tb)
			}
		})
	}
}

func TestStandardJumpZeroesFall(t *testing.T) {
	cfg := DefaultMotionConfig()
	tb := newTimerBank(&cfg)
	j := JumpController{cfg: &cfg, timers: &tb}
	body := newFakeBody()
	body.vel = Vec2{X: 2, Y: -6}
	j.Perform(body, false, 1)
	if body.vel != (Vec2{X: 2, Y: 10}) {
		t.Fatalf("vel = %v, want (2, 10)", body.vel)
	}
}

func TestReleaseJumpIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		airborne bool
		vy       float64
		want     float64
	}{
		{"rising", true, 10, 5},
		{"descending", true, -2, -2},
		{"apex", true, 0, 0},
		{"grounded", false, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMotionConfig()
			tb := newTimerBank(&cfg)
			j := JumpController{cfg: &cfg, timers: &tb}
			body := newFakeBody()
			body.vel = Vec2{X: 1, Y: tt.vy}

			j.ReleaseJump(body, tt.airborne)
			if body.vel.Y != tt.want {
				t.Fatalf("vy = %v, want %v", body.vel.Y, tt.want)
			}
			if tt.vy <= 0 || !tt.airborne {
				j.ReleaseJump(body, tt.airborne)
				if body.vel.Y != tt.want {
					t.Fatalf("second release changed vy to %v", body.vel.Y)
				}
			}
		})
	}
}

func TestSlideControllerCooldown(t *testing.T) {
	cfg := DefaultMotionConfig()
	tb := newTimerBank(&cfg)
	s := SlideController{cfg: &cfg, timers: &tb}

	if !s.RequestSlide(true, 5, 0, FacingLeft) {
		t.Fatal("first slide should start")
	}
	if s.Velocity() != -7.5 {
		t.Fatalf("slide velocity = %v, want -7.5", s.Velocity())
	}
	if s.RequestSlide(true, 5, 1, FacingRight) {
		t.Fatal("slide restarted while active")
	}
	s.Cancel()
	tb.SlideCooldownElapsed = 0.5
	if s.RequestSlide(true, 5, 1, FacingRight) || s.Active() {
		t.Fatal("slide started on cooldown")
	}
	if tb.SlideCooldownElapsed != 0.5 {
		t.Fatalf("rejected slide touched cooldown: %v", tb.SlideCooldownElapsed)
	}
	tb.SlideCooldownElapsed = cfg.SlideCooldown
	if s.RequestSlide(false, 5, 1, FacingRight) {
		t.Fatal("slide started in the air")
	}
}

func TestMotionControllerFacing(t *testing.T) {
	cfg := DefaultMotionConfig()
	m := MotionController{cfg: &cfg}
	m.ComputeHorizontalVelocity(InputSnapshot{MoveAxis: -0.5}, false, GroundContact{}, true, 0)
	if m.Facing() != FacingLeft {
		t.Fatal("expected facing left")
	}
	if got := m.ComputeHorizontalVelocity(InputSnapshot{}, false, GroundContact{}, true, 3); got != 0 {
		t.Fatalf("vx = %v, want 0", got)
	}
	if m.Facing() != FacingLeft {
		t.Fatal("facing changed on zero input")
	}
}
