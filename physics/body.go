package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/locomotion/locomotion"
)

// Body adapts a Chipmunk body to the locomotion core. Impulses and forces act
// through the centre of mass.
type Body struct {
	body  *cp.Body
	shape *cp.Shape
}

func (b *Body) Position() locomotion.Vec2 { return fromVec(b.body.Position()) }
func (b *Body) Velocity() locomotion.Vec2 { return fromVec(b.body.Velocity()) }
func (b *Body) Mass() float64 { return b.body.Mass() }

func (b *Body) SetVelocity(v locomotion.Vec2) {
	b.body.SetVelocity(v.X, v.Y)
}

func (b *Body) SetPosition(p locomotion.Vec2) {
	b.body.SetPosition(vec(p))
	b.body.Activate()
}

func (b *Body) ApplyImpulse(impulse locomotion.Vec2) {
	b.body.ApplyImpulseAtWorldPoint(vec(impulse), b.body.Position())
}

// ApplyForce adds a force for the next step only.
func (b *Body) ApplyForce(force locomotion.Vec2) {
	b.body.ApplyForceAtWorldPoint(vec(force), b.body.Position())
}

func (b *Body) CP() *cp.Body { return b.body }
func (b *Body) Shape() *cp.Shape { return b.shape }
