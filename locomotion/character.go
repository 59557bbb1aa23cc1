package locomotion

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/milk9111/locomotion/common"
)

// Signals is the read-only view other systems use to drive animation, VFX and
// aiming.
type Signals struct {
	Tick        uint64   `json:"tick" yaml:"tick"`
	State       State    `json:"state" yaml:"state"`
	Grounded    bool     `json:"grounded" yaml:"grounded"`
	Sliding     bool     `json:"sliding" yaml:"sliding"`
	FastFalling bool     `json:"fast_falling" yaml:"fast_falling"`
	AgainstWall bool     `json:"against_wall" yaml:"against_wall"`
	WallSide    WallSide `json:"wall_side" yaml:"wall_side"`
	Facing      Facing   `json:"facing" yaml:"facing"`
	Velocity    Vec2     `json:"velocity" yaml:"velocity"`
	Aim         Vec2     `json:"aim" yaml:"aim"`
}

// AimOrFacing returns the aim direction, or a unit vector along facing when
// there is no aim input.
func (s Signals) AimOrFacing() Vec2 {
	if !s.Aim.IsZero() {
		return s.Aim
	}
	return Vec2{X: s.Facing.Sign()}
}

// Option configures a Character at construction.
type Option func(*Character)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Character) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSensorConfig overrides the ground and wall probe shape.
func WithSensorConfig(cfg SensorConfig) Option {
	return func(c *Character) {
		c.sensorCfg = cfg
	}
}

// Character drives one body through the locomotion states. It is not safe
// for concurrent use.
type Character struct {
	cfg     MotionConfig
	body    Body
	extents Vec2
	sensor  *GroundSensor

	sensorCfg SensorConfig
	log       *zap.Logger

	timers  TimerBank
	motion  MotionController
	jump    JumpController
	slide   SlideController
	machine stateMachine
	events  EventQueue

	input    InputSnapshot
	contact  GroundContact
	grounded bool
	// jumpLatch keeps the character airborne from the jump tick until it
	// leaves the ground or stops rising.
	jumpLatch bool
	tick      uint64

	err error
}

// New builds a character around body. extents are the collider half-size.
// On a configuration error the returned character is non-nil but disabled;
// Tick on it does nothing and Err reports the cause.
func New(cfg MotionConfig, body Body, query Querier, extents Vec2, opts ...Option) (*Character, error) {
	c := &Character{
		body:      body,
		extents:   extents,
		sensorCfg: DefaultSensorConfig(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cfg = cfg
	c.timers = newTimerBank(&c.cfg)
	c.motion = MotionController{cfg: &c.cfg}
	c.jump = JumpController{cfg: &c.cfg, timers: &c.timers}
	c.slide = SlideController{cfg: &c.cfg, timers: &c.timers}

	if err := c.check(query); err != nil {
		c.err = err
		c.log.Error("locomotion disabled", zap.Error(err))
		return c, err
	}

	c.sensor = NewGroundSensor(query, c.sensorCfg)
	c.contact = c.sensor.Sense(c.body.Position(), c.extents)
	c.grounded = c.contact.IsGrounded
	return c, nil
}

func (c *Character) check(query Querier) error {
	if c.body == nil {
		return ErrMissingBody
	}
	if query == nil {
		return ErrMissingQuerier
	}
	if !(c.extents.X > 0) || !(c.extents.Y > 0) || math.IsInf(c.extents.X, 0) || math.IsInf(c.extents.Y, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidExtents, c.extents)
	}
	return c.cfg.Validate()
}

// Tick advances the character by dt simulation seconds using in as this
// tick's input.
func (c *Character) Tick(dt float64, in InputSnapshot) {
	if c.err != nil || !(dt > 0) {
		return
	}
	c.tick++
	c.input = in

	landed := c.sense()
	c.timers.Tick(dt, c.effectiveContact())

	jumped := false
	if c.jump.LandingJump(landed) {
		c.executeJump()
		jumped = true
	}

	if in.JumpReleased && c.jump.ReleaseJump(c.body, !c.grounded) {
		c.emit(EventJumpCut)
	}
	if in.JumpPressed && !jumped {
		c.requestJump()
	}
	if in.SlidePressed {
		c.requestSlide()
	}

	c.machine.transition(c, DetermineState(c.facts()))
	behaviors[c.machine.current].Apply(c, dt)
}

// sense refreshes contact and grounded-ness and reports a landing edge.
func (c *Character) sense() bool {
	wasGrounded := c.grounded
	prev := c.contact
	c.contact = c.sensor.Sense(c.body.Position(), c.extents)
	if c.contact != prev {
		c.log.Debug("ground contact",
			zap.Bool("grounded", c.contact.IsGrounded),
			zap.Stringer("wall", c.contact.WallSide),
			zap.Uint64("tick", c.tick),
		)
	}

	if c.jumpLatch && (!c.contact.IsGrounded || c.body.Velocity().Y <= 0) {
		c.jumpLatch = false
	}
	c.grounded = c.contact.IsGrounded && !c.jumpLatch

	landed := c.grounded && !wasGrounded
	if landed {
		c.motion.EndCarry()
		c.emit(EventLanded)
	}
	return landed
}

func (c *Character) effectiveContact() GroundContact {
	contact := c.contact
	contact.IsGrounded = c.grounded
	return contact
}

func (c *Character) requestJump() {
	if !c.jump.RequestJump(c.grounded, c.slide.Active()) {
		c.emit(EventJumpBuffered)
		return
	}
	c.executeJump()
}

func (c *Character) executeJump() {
	slideJump := c.slide.Active()
	if slideJump {
		if c.machine.current == StateSliding {
			c.machine.interrupt(c)
		} else {
			c.slide.Cancel()
		}
	}

	dir := common.Sign(c.input.Axis())
	if dir == 0 {
		dir = c.motion.Facing().Sign()
	}
	c.jump.Perform(c.body, slideJump, dir)
	c.jumpLatch = true
	c.grounded = false

	if slideJump {
		c.motion.Face(dir)
		c.motion.StartCarry()
		c.emit(EventSlideJumped)
		return
	}
	c.emit(EventJumped)
}

func (c *Character) requestSlide() {
	speed := c.motion.CurrentSpeed(c.input.SprintHeld)
	if c.slide.RequestSlide(c.grounded, speed, c.input.Axis(), c.motion.Facing()) {
		c.motion.Face(c.input.Axis())
		c.emit(EventSlideStarted)
	}
}

func (c *Character) facts() StateFacts {
	return StateFacts{
		Sliding:          c.slide.Active(),
		FastFallHeld:     c.input.FastFallHeld,
		Grounded:         c.grounded,
		VerticalVelocity: c.body.Velocity().Y,
		MoveAxis:         c.input.Axis(),
	}
}

func (c *Character) applyMotion() {
	v := c.body.Velocity()
	x := c.motion.ComputeHorizontalVelocity(c.input, c.input.SprintHeld, c.contact, c.grounded, v.X)
	c.body.SetVelocity(Vec2{X: x, Y: v.Y})
}

func (c *Character) emit(kind EventKind) {
	c.events.Push(Event{Kind: kind, Tick: c.tick, State: c.machine.current, Previous: c.machine.current})
}

// Reconfigure swaps the motion tuning. Call it between ticks.
func (c *Character) Reconfigure(cfg MotionConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.log.Info("motion config reloaded")
	return nil
}

// Reset puts the character back into its spawn condition at position:
// timers, slide, facing and state are cleared and velocity is zeroed.
func (c *Character) Reset(position Vec2) {
	if c.err != nil {
		return
	}
	if p, ok := c.body.(positioner); ok {
		p.SetPosition(position)
	}
	c.body.SetVelocity(Vec2{})
	c.slide.Cancel()
	c.timers.Reset()
	c.motion = MotionController{cfg: &c.cfg}
	c.machine.reset()
	c.events.flush()
	c.input = InputSnapshot{}
	c.jumpLatch = false
	c.contact = c.sensor.Sense(c.body.Position(), c.extents)
	c.grounded = c.contact.IsGrounded
}

// Err reports the configuration error that disabled the character, or nil.
func (c *Character) Err() error { return c.err }

// Disabled reports whether construction failed. A disabled character ignores
// every Tick.
func (c *Character) Disabled() bool { return c.err != nil }

// State is the active locomotion state.
func (c *Character) State() State { return c.machine.current }

// Facing is the last nonzero horizontal input direction.
func (c *Character) Facing() Facing { return c.motion.Facing() }

// Aim passes through the aim direction of the last input, zero when none.
func (c *Character) Aim() Vec2 { return c.input.AimDirection }

// Grounded reports ground contact as of the last Tick. It is false on the
// tick a jump starts.
func (c *Character) Grounded() bool { return c.grounded }

// Contact is the raw sensor result of the last Tick.
func (c *Character) Contact() GroundContact { return c.contact }

// Timers returns a copy of the timer bank.
func (c *Character) Timers() TimerBank { return c.timers }

// Config returns the active motion tuning.
func (c *Character) Config() MotionConfig { return c.cfg }

// Events is the queue observers drain after each Tick.
func (c *Character) Events() *EventQueue { return &c.events }

func (c *Character) Body() Body { return c.body }

// Extents is the collider half-size.
func (c *Character) Extents() Vec2 { return c.extents }

// Signals snapshots the state other systems observe.
func (c *Character) Signals() Signals {
	s := Signals{
		Tick:        c.tick,
		State:       c.machine.current,
		Grounded:    c.grounded,
		Sliding:     c.slide.Active(),
		FastFalling: c.machine.current == StateFastFalling,
		AgainstWall: c.contact.IsAgainstWall,
		WallSide:    c.contact.WallSide,
		Facing:      c.motion.Facing(),
		Aim:         c.input.AimDirection,
	}
	if c.body != nil {
		s.Velocity = c.body.Velocity()
	}
	return s
}
