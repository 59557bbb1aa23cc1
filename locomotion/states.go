package locomotion

import "go.uber.org/zap"

// State is the single active locomotion state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateJumping
	StateFalling
	StateSliding
	StateFastFalling
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateRunning:     "running",
	StateJumping:     "jumping",
	StateFalling:     "falling",
	StateSliding:     "sliding",
	StateFastFalling: "fast_falling",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Airborne reports whether s is one of the in-air states.
func (s State) Airborne() bool {
	return s == StateJumping || s == StateFalling || s == StateFastFalling
}

// StateFacts are the inputs to state derivation for one tick.
type StateFacts struct {
	Sliding          bool
	FastFallHeld     bool
	Grounded         bool
	VerticalVelocity float64
	MoveAxis         float64
}

// DetermineState derives the active state. The first matching rule wins.
func DetermineState(f StateFacts) State {
	switch {
	case f.Sliding:
		return StateSliding
	case f.FastFallHeld && !f.Grounded:
		return StateFastFalling
	case !f.Grounded && f.VerticalVelocity > 0:
		return StateJumping
	case !f.Grounded:
		return StateFalling
	case f.MoveAxis != 0:
		return StateRunning
	}
	return StateIdle
}

// stateBehavior holds the enter/exit effects and the per-tick effect of one
// state.
type stateBehavior interface {
	Enter(c *Character)
	Exit(c *Character)
	Apply(c *Character, dt float64)
}

// State singletons (avoid allocations on transitions).
var behaviors = [...]stateBehavior{
	StateIdle:        idleState{},
	StateRunning:     runState{},
	StateJumping:     jumpState{},
	StateFalling:     fallState{},
	StateSliding:     slideState{},
	StateFastFalling: fastFallState{},
}

type idleState struct{}

type runState struct{}

type jumpState struct{}

type fallState struct{}

type slideState struct{}

type fastFallState struct{}

func (idleState) Enter(c *Character) {}
func (idleState) Exit(c *Character) {}
func (idleState) Apply(c *Character, dt float64) { c.applyMotion() }

func (runState) Enter(c *Character) {}
func (runState) Exit(c *Character) {}
func (runState) Apply(c *Character, dt float64) { c.applyMotion() }

func (jumpState) Enter(c *Character) {}
func (jumpState) Exit(c *Character) {}
func (jumpState) Apply(c *Character, dt float64) { c.applyMotion() }

func (fallState) Enter(c *Character) {}
func (fallState) Exit(c *Character) {}
func (fallState) Apply(c *Character, dt float64) { c.applyMotion() }

func (slideState) Enter(c *Character) {}
func (slideState) Exit(c *Character) {
	c.slide.Cancel()
	c.emit(EventSlideEnded)
}
func (slideState) Apply(c *Character, dt float64) {
	if c.slide.Apply(c.body, dt) {
		c.log.Debug("slide finished", zap.Uint64("tick", c.tick))
	}
}

func (fastFallState) Enter(c *Character) {}
func (fastFallState) Exit(c *Character) {}
func (fastFallState) Apply(c *Character, dt float64) {
	c.applyMotion()
	c.body.ApplyForce(Vec2{Y: -c.cfg.FastFallForce})
}

// stateMachine tracks the active state. exited is set when the current
// state's exit effects already ran out of band, as when a jump cancels a
// slide.
type stateMachine struct {
	current State
	exited  bool
}

// interrupt runs the current state's exit effects immediately.
func (m *stateMachine) interrupt(c *Character) {
	if m.exited {
		return
	}
	behaviors[m.current].Exit(c)
	m.exited = true
}

// transition moves to next, running old Exit before new Enter.
func (m *stateMachine) transition(c *Character, next State) bool {
	if next == m.current && !m.exited {
		return false
	}
	prev := m.current
	if !m.exited {
		behaviors[prev].Exit(c)
	}
	m.exited = false
	m.current = next
	behaviors[next].Enter(c)
	if prev == next {
		return false
	}
	c.events.Push(Event{Kind: EventStateChanged, Tick: c.tick, State: next, Previous: prev})
	c.log.Debug("state transition",
		zap.Stringer("from", prev),
		zap.Stringer("to", next),
		zap.Uint64("tick", c.tick),
	)
	return true
}

func (m *stateMachine) reset() {
	m.current = StateIdle
	m.exited = false
}
