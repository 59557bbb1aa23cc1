package locomotion

// WallSide names the side of the collider touching a wall.
type WallSide int

const (
	WallNone WallSide = iota
	WallLeft
	WallRight
)

func (s WallSide) String() string {
	switch s {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	}
	return "none"
}

func (s WallSide) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// GroundContact is the per-tick result of the ground and wall probes.
type GroundContact struct {
	IsGrounded    bool
	IsAgainstWall bool
	WallSide      WallSide
}

// SensorConfig shapes the probes cast by GroundSensor. Zero fields fall back
// to DefaultSensorConfig; a zero WallMask uses GroundMask.
type SensorConfig struct {
	ProbeDistance     float64
	FootprintInset    float64
	WallProbeDistance float64
	Skin              float64
	GroundMask        Layer
	WallMask          Layer
}

func DefaultSensorConfig() SensorConfig {
	return SensorConfig{
		ProbeDistance:     0.1,
		FootprintInset:    0.9,
		WallProbeDistance: 0.1,
		Skin:              0.02,
		GroundMask:        AllLayers,
	}
}

func (c SensorConfig) withDefaults() SensorConfig {
	def := DefaultSensorConfig()
	if c.ProbeDistance <= 0 {
		c.ProbeDistance = def.ProbeDistance
	}
	if c.FootprintInset <= 0 || c.FootprintInset > 1 {
		c.FootprintInset = def.FootprintInset
	}
	if c.WallProbeDistance <= 0 {
		c.WallProbeDistance = def.WallProbeDistance
	}
	if c.Skin < 0 {
		c.Skin = 0
	}
	if c.GroundMask == 0 {
		c.GroundMask = def.GroundMask
	}
	if c.WallMask == 0 {
		c.WallMask = c.GroundMask
	}
	return c
}

// footprint holds the probe offsets across the collider width.
var footprint = [...]float64{-1, 0, 1}

// GroundSensor casts short probes below and beside the collider.
type GroundSensor struct {
	query Querier
	cfg   SensorConfig
}

func NewGroundSensor(query Querier, cfg SensorConfig) *GroundSensor {
	return &GroundSensor{query: query, cfg: cfg.withDefaults()}
}

func (s *GroundSensor) Config() SensorConfig { return s.cfg }

// Sense probes around a collider centred at position with half-size extents.
func (s *GroundSensor) Sense(position, extents Vec2) GroundContact {
	var contact GroundContact
	if s == nil || s.query == nil {
		return contact
	}

	bottom := position.Y - extents.Y
	for _, k := range footprint {
		x := position.X + k*s.cfg.FootprintInset*extents.X
		from := Vec2{X: x, Y: bottom + s.cfg.Skin}
		to := Vec2{X: x, Y: bottom - s.cfg.ProbeDistance}
		if _, ok := s.query.RaycastFirst(from, to, s.cfg.GroundMask); ok {
			contact.IsGrounded = true
			break
		}
	}

	reach := extents.X + s.cfg.WallProbeDistance
	left, hitLeft := s.query.RaycastFirst(position, Vec2{X: position.X - reach, Y: position.Y}, s.cfg.WallMask)
	right, hitRight := s.query.RaycastFirst(position, Vec2{X: position.X + reach, Y: position.Y}, s.cfg.WallMask)
	switch {
	case hitLeft && hitRight:
		if left.Fraction <= right.Fraction {
			contact.WallSide = WallLeft
		} else {
			contact.WallSide = WallRight
		}
	case hitLeft:
		contact.WallSide = WallLeft
	case hitRight:
		contact.WallSide = WallRight
	}
	contact.IsAgainstWall = contact.WallSide != WallNone
	return contact
}
