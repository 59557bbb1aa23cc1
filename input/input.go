package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/locomotion/locomotion"
)

// Bindings maps keyboard keys to actions. Any key in a list triggers the
// action.
type Bindings struct {
	Left     []ebiten.Key
	Right    []ebiten.Key
	Jump     []ebiten.Key
	Sprint   []ebiten.Key
	FastFall []ebiten.Key
	Slide    []ebiten.Key
}

func DefaultBindings() Bindings {
	return Bindings{
		Left:     []ebiten.Key{ebiten.KeyA, ebiten.KeyLeft},
		Right:    []ebiten.Key{ebiten.KeyD, ebiten.KeyRight},
		Jump:     []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyUp},
		Sprint:   []ebiten.Key{ebiten.KeyShiftLeft},
		FastFall: []ebiten.Key{ebiten.KeyS, ebiten.KeyDown},
		Slide:    []ebiten.Key{ebiten.KeyC, ebiten.KeyControlLeft},
	}
}

const (
	stickDeadzone    = 0.3
	fastFallStick    = 0.6
	minAimDistancePx = 4
)

// Reader decodes keyboard, mouse and the first gamepad into one
// InputSnapshot per tick.
type Reader struct {
	bindings Bindings
}

func NewReader(b Bindings) *Reader {
	return &Reader{bindings: b}
}

// Read polls this tick's input. originX and originY are the character's
// screen position, used to turn the cursor into an aim direction.
func (r *Reader) Read(originX, originY float64) locomotion.InputSnapshot {
	b := r.bindings
	in := locomotion.InputSnapshot{
		MoveAxis:     axisFromKeys(anyPressed(b.Left), anyPressed(b.Right)),
		SprintHeld:   anyPressed(b.Sprint),
		JumpPressed:  anyJustPressed(b.Jump),
		JumpReleased: anyJustReleased(b.Jump),
		FastFallHeld: anyPressed(b.FastFall),
		SlidePressed: anyJustPressed(b.Slide),
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		mx, my := ebiten.CursorPosition()
		in.AimDirection = aimFromPoints(originX, originY, float64(mx), float64(my))
	}

	ids := ebiten.GamepadIDs()
	if len(ids) == 0 {
		return in
	}
	gid := ids[0]
	if !ebiten.IsStandardGamepadLayoutAvailable(gid) {
		return in
	}

	lx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
	ly := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
	in.MoveAxis = combineAxis(in.MoveAxis, stickAxis(lx, stickDeadzone))
	in.FastFallHeld = in.FastFallHeld || ly > fastFallStick ||
		ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftBottom)

	jump := ebiten.StandardGamepadButtonRightBottom
	in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(gid, jump)
	in.JumpReleased = in.JumpReleased || inpututil.IsStandardGamepadButtonJustReleased(gid, jump)
	in.SprintHeld = in.SprintHeld || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
	in.SlidePressed = in.SlidePressed || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightLeft)

	rx := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickHorizontal)
	ry := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisRightStickVertical)
	if aim := stickAim(rx, ry, stickDeadzone); !aim.IsZero() {
		in.AimDirection = aim
	}
	return in
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func anyJustReleased(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}

func axisFromKeys(left, right bool) float64 {
	var axis float64
	if left {
		axis--
	}
	if right {
		axis++
	}
	return axis
}

// stickAxis zeroes values inside the deadzone and rescales the rest to
// [-1, 1].
func stickAxis(v, deadzone float64) float64 {
	a := math.Abs(v)
	if a <= deadzone {
		return 0
	}
	scaled := math.Min(1, (a-deadzone)/(1-deadzone))
	return math.Copysign(scaled, v)
}

// combineAxis prefers digital input over the stick.
func combineAxis(keys, stick float64) float64 {
	if keys != 0 {
		return keys
	}
	return stick
}

// aimFromPoints returns the unit direction from origin to target in screen
// space, flipped to y up.
func aimFromPoints(ox, oy, tx, ty float64) locomotion.Vec2 {
	dx, dy := tx-ox, oy-ty
	l := math.Hypot(dx, dy)
	if l < minAimDistancePx {
		return locomotion.Vec2{}
	}
	return locomotion.Vec2{X: dx / l, Y: dy / l}
}

func stickAim(x, y, deadzone float64) locomotion.Vec2 {
	l := math.Hypot(x, y)
	if l <= deadzone {
		return locomotion.Vec2{}
	}
	return locomotion.Vec2{X: x / l, Y: -y / l}
}
