package locomotion

import "testing"

func TestTimerBankCoyote(t *testing.T) {
	cfg := DefaultMotionConfig()
	tb := newTimerBank(&cfg)

	tb.Tick(0.016, GroundContact{IsGrounded: true})
	if tb.CoyoteRemaining != cfg.CoyoteTime {
		t.Fatalf("grounded tick should recharge coyote, got %v", tb.CoyoteRemaining)
	}

	tb.Tick(0.04, GroundContact{})
	if !approxEqual(tb.CoyoteRemaining, cfg.CoyoteTime-0.04) {
		t.Fatalf("coyote = %v, want %v", tb.CoyoteRemaining, cfg.CoyoteTime-0.04)
	}

	tb.Tick(1, GroundContact{})
	if tb.CoyoteRemaining != 0 {
		t.Fatalf("coyote should clamp at 0, got %v", tb.CoyoteRemaining)
	}
}

func TestTimerBankJumpBuffer(t *testing.T) {
	cfg := DefaultMotionConfig()
	tb := newTimerBank(&cfg)

	tb.Tick(0.05, GroundContact{})
	if tb.JumpBuffered() {
		t.Fatal("buffer should start empty")
	}
	tb.BufferJump()
	if tb.JumpBufferRemaining != cfg.JumpBufferTime {
		t.Fatalf("buffer = %v, want %v", tb.JumpBufferRemaining, cfg.JumpBufferTime)
	}
	tb.Tick(0.05, GroundContact{IsGrounded: true})
	if !approxEqual(tb.JumpBufferRemaining, cfg.JumpBufferTime-0.05) {
		t.Fatalf("buffer should decay even when grounded, got %v", tb.JumpBufferRemaining)
	}
	tb.Tick(0.2, GroundContact{})
	if tb.JumpBuffered() || tb.JumpBufferRemaining != 0 {
		t.Fatalf("buffer should expire at 0, got %v", tb.JumpBufferRemaining)
	}
}

func TestTimerBankSlideCooldown(t *testing.T) {
	cfg := DefaultMotionConfig()
	tb := newTimerBank(&cfg)
	if !tb.SlideReady() {
		t.Fatal("first slide should be available immediately")
	}
	tb.ResetSlideCooldown()
	if tb.SlideReady() {
		t.Fatal("slide should be on cooldown after reset")
	}
	for i := 0; i < 10; i++ {
		tb.Tick(cfg.SlideCooldown/10+1e-6, GroundContact{})
	}
	if !tb.SlideReady() {
		t.Fatalf("slide should be ready after cooldown, elapsed %v", tb.SlideCooldownElapsed)
	}
}
