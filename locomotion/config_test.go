package locomotion

import (
	"errors"
	"math"
	"testing"
)

func TestExplicitZeroTimers(t *testing.T) {
	cfg := DefaultMotionConfig()
	cfg.CoyoteTime = 0
	cfg.SlideCooldown = 0

	t.Run("no coyote", func(t *testing.T) {
		c, body, q := newTestCharacter(t, cfg, true)
		c.Tick(0.016, InputSnapshot{})
		q.ground = false
		c.Tick(0.016, InputSnapshot{JumpPressed: true})
		if len(body.impulses) != 0 {
			t.Fatalf("jumped with coyote time disabled: %v", body.impulses)
		}
		if c.Config().CoyoteTime != 0 || c.Timers().CoyoteRemaining != 0 {
			t.Fatalf("coyote = %v remaining %v, want 0", c.Config().CoyoteTime, c.Timers().CoyoteRemaining)
		}
	})

	t.Run("no slide cooldown", func(t *testing.T) {
		c, _, _ := newTestCharacter(t, cfg, true)
		c.Tick(0.1, InputSnapshot{SlidePressed: true, MoveAxis: 1})
		for i := 0; i < 6; i++ {
			c.Tick(0.1, InputSnapshot{})
		}
		c.Tick(0.1, InputSnapshot{SlidePressed: true, MoveAxis: 1})
		if c.State() != StateSliding {
			t.Fatalf("state = %v, want a second slide straight away", c.State())
		}
		starts := 0
		for _, k := range eventKinds(c.Events().Drain()) {
			if k == EventSlideStarted {
				starts++
			}
		}
		if starts != 2 {
			t.Fatalf("slide_started events = %d, want 2", starts)
		}
	})
}

func TestMotionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MotionConfig)
		wantErr bool
	}{
		{"defaults", func(*MotionConfig) {}, false},
		{"negative speed", func(c *MotionConfig) { c.MoveSpeed = -1 }, true},
		{"nan coyote", func(c *MotionConfig) { c.CoyoteTime = math.NaN() }, true},
		{"infinite force", func(c *MotionConfig) { c.JumpForce = math.Inf(1) }, true},
		{"jump cut above one", func(c *MotionConfig) { c.JumpCutMultiplier = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMotionConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNewConfigurationErrors(t *testing.T) {
	bad := DefaultMotionConfig()
	bad.SlideDuration = -1

	tests := []struct {
		name    string
		cfg     MotionConfig
		body    Body
		query   Querier
		extents Vec2
		want    error
	}{
		{"missing body", DefaultMotionConfig(), nil, &fakeQuerier{}, testExtents, ErrMissingBody},
		{"missing querier", DefaultMotionConfig(), newFakeBody(), nil, testExtents, ErrMissingQuerier},
		{"zero extents", DefaultMotionConfig(), newFakeBody(), &fakeQuerier{}, Vec2{}, ErrInvalidExtents},
		{"bad config", bad, newFakeBody(), &fakeQuerier{}, testExtents, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg, tt.body, tt.query, tt.extents)
			if !errors.Is(err, tt.want) {
				t.Fatalf("New() error = %v, want %v", err, tt.want)
			}
			if c == nil || !c.Disabled() || !errors.Is(c.Err(), tt.want) {
				t.Fatal("expected a disabled character")
			}
			c.Tick(1.0/60, InputSnapshot{MoveAxis: 1, JumpPressed: true})
			if c.State() != StateIdle {
				t.Fatalf("disabled character changed state to %v", c.State())
			}
		})
	}
}

func TestReconfigure(t *testing.T) {
	c, body, _ := newTestCharacter(t, DefaultMotionConfig(), true)

	bad := DefaultMotionConfig()
	bad.MoveSpeed = -3
	if err := c.Reconfigure(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if c.Config().MoveSpeed != 5 {
		t.Fatalf("rejected config was applied")
	}

	next := DefaultMotionConfig()
	next.MoveSpeed = 8
	if err := c.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	c.Tick(0.1, InputSnapshot{MoveAxis: 1})
	if body.vel.X != 8 {
		t.Fatalf("vx = %v, want 8", body.vel.X)
	}
}

func TestReconfigureDuringSlide(t *testing.T) {
	c, body, _ := newTestCharacter(t, DefaultMotionConfig(), true)
	c.Tick(0.1, InputSnapshot{SlidePressed: true, MoveAxis: 1})

	next := DefaultMotionConfig()
	next.MoveSpeed = 10
	next.SlideDuration = 2
	if err := c.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	for i := 0; i < 4; i++ {
		c.Tick(0.1, InputSnapshot{})
		if c.State() != StateSliding || !approxEqual(body.vel.X, 7.5) {
			t.Fatalf("tick %d: state %v vx %v, want the running slide kept", i, c.State(), body.vel.X)
		}
	}
	c.Tick(0.1, InputSnapshot{})
	if c.State() != StateIdle {
		t.Fatalf("state = %v, want the slide to end on its original duration", c.State())
	}
}

func TestReconfigureKeepsJumpBuffer(t *testing.T) {
	c, body, q := newTestCharacter(t, DefaultMotionConfig(), false)
	c.Tick(0.016, InputSnapshot{JumpPressed: true})

	next := DefaultMotionConfig()
	next.JumpForce = 12
	next.JumpBufferTime = 0.5
	if err := c.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if got := c.Timers().JumpBufferRemaining; got != 0.1 {
		t.Fatalf("buffer = %v after reconfigure, want 0.1", got)
	}

	q.ground = true
	c.Tick(0.016, InputSnapshot{})
	if len(body.impulses) != 1 || body.vel.Y != 12 {
		t.Fatalf("expected one jump with the new force, got %v vy %v", body.impulses, body.vel.Y)
	}
}
