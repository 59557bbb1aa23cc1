package locomotion

import (
	"math"

	"github.com/milk9111/locomotion/common"
)

// Facing is the horizontal direction the character last moved toward.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
)

// Sign returns 1 for right and -1 for left.
func (f Facing) Sign() float64 {
	if f == FacingLeft {
		return -1
	}
	return 1
}

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

func (f Facing) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// MotionController turns horizontal input into a horizontal velocity and
// tracks facing.
type MotionController struct {
	cfg    *MotionConfig
	facing Facing
	carry  bool
}

func (m *MotionController) Facing() Facing { return m.facing }

// Face updates facing from a horizontal axis. Zero leaves it unchanged.
func (m *MotionController) Face(axis float64) {
	switch {
	case axis > 0:
		m.facing = FacingRight
	case axis < 0:
		m.facing = FacingLeft
	}
}

// CurrentSpeed is the run speed, scaled when sprinting.
func (m *MotionController) CurrentSpeed(sprinting bool) float64 {
	return m.cfg.speed(sprinting)
}

// StartCarry keeps airborne horizontal speed from being bled off by air
// control until the next landing.
func (m *MotionController) StartCarry() { m.carry = true }
func (m *MotionController) EndCarry() { m.carry = false }
func (m *MotionController) CarryingMomentum() bool { return m.carry }

// ComputeHorizontalVelocity returns the horizontal velocity for this tick.
// Airborne input pushing into a touching wall yields 0 so the character does
// not stick to it.
func (m *MotionController) ComputeHorizontalVelocity(in InputSnapshot, sprinting bool, contact GroundContact, grounded bool, currentX float64) float64 {
	axis := in.Axis()
	m.Face(axis)
	if grounded {
		m.carry = false
	}

	if !grounded && contact.IsAgainstWall && pushesInto(contact.WallSide, axis) {
		return 0
	}

	desired := axis * m.CurrentSpeed(sprinting)
	if m.carry && !grounded {
		if axis != 0 && common.Sign(axis) != common.Sign(currentX) {
			m.carry = false
			return desired
		}
		if math.Abs(currentX) > math.Abs(desired) {
			return currentX
		}
	}
	return desired
}

func pushesInto(side WallSide, axis float64) bool {
	switch side {
	case WallLeft:
		return axis < 0
	case WallRight:
		return axis > 0
	}
	return false
}
