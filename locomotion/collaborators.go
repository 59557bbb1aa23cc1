package locomotion

// Layer is a bit mask of collision categories.
type Layer uint

// AllLayers matches every collision category.
const AllLayers = ^Layer(0)

// RayHit describes the first shape hit by a probe. Fraction is the distance
// along the probe in [0, 1].
type RayHit struct {
	Point    Vec2
	Normal   Vec2
	Fraction float64
}

// Querier answers shape queries against the physics world.
type Querier interface {
	RaycastFirst(from, to Vec2, mask Layer) (RayHit, bool)
}

// Body is the dynamic rigid body the character drives.
type Body interface {
	Position() Vec2
	Velocity() Vec2
	SetVelocity(v Vec2)
	ApplyImpulse(impulse Vec2)
	ApplyForce(force Vec2)
	Mass() float64
}

// positioner is implemented by bodies that can be teleported on respawn.
type positioner interface {
	SetPosition(p Vec2)
}
