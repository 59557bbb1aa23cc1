package locomotion

import (
	"github.com/milk9111/locomotion/common"
)

// InputSnapshot is the decoded player intent for one tick. Pressed and
// released flags are edges that hold for exactly one tick.
type InputSnapshot struct {
	MoveAxis     float64
	SprintHeld   bool
	JumpPressed  bool
	JumpReleased bool
	FastFallHeld bool
	SlidePressed bool
	AimDirection Vec2
}

// Axis returns MoveAxis clamped to [-1, 1].
func (in InputSnapshot) Axis() float64 {
	return common.Clamp(in.MoveAxis, -1, 1)
}
