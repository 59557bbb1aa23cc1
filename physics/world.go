package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/locomotion"
)

// Collision categories used as shape filter bits.
const (
	LayerGround locomotion.Layer = 1 << iota
	LayerWall
	LayerCharacter
)

var layerNames = map[string]locomotion.Layer{
	"ground":    LayerGround,
	"wall":      LayerWall,
	"character": LayerCharacter,
}

// LayerMask combines named layers into one mask.
func LayerMask(names ...string) (locomotion.Layer, error) {
	var mask locomotion.Layer
	for _, name := range names {
		l, ok := layerNames[name]
		if !ok {
			return 0, fmt.Errorf("physics: unknown layer %q", name)
		}
		mask |= l
	}
	return mask, nil
}

type Config struct {
	Gravity    float64
	Iterations int
	// SolidFriction applies to static level shapes.
	SolidFriction float64
}

// World owns the Chipmunk space and static collision shapes.
type World struct {
	space *cp.Space
	cfg   Config
	log   *zap.Logger

	statics []*cp.Shape
}

func NewWorld(cfg Config, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 20
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: -cfg.Gravity})
	return &World{space: space, cfg: cfg, log: log}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// AddSolidRect adds a static box on the given collision layer.
func (w *World) AddSolidRect(r levels.Rect, layer locomotion.Layer) *cp.Shape {
	bb := cp.BB{L: r.MinX, B: r.MinY, R: r.MaxX, T: r.MaxY}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(w.cfg.SolidFriction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.statics = append(w.statics, shape)
	return shape
}

// AddLevel adds every solid of lvl and returns how many shapes were added.
func (w *World) AddLevel(lvl *levels.Level) int {
	if lvl == nil {
		return 0
	}
	for _, s := range lvl.Solids {
		layer := LayerGround
		if s.Kind == levels.SolidWall {
			layer = LayerWall
		}
		w.AddSolidRect(s.Rect, layer)
	}
	w.log.Info("level added",
		zap.String("level", lvl.Name),
		zap.Int("solids", len(lvl.Solids)),
	)
	return len(lvl.Solids)
}

// ClearStatics removes every static shape added so far.
func (w *World) ClearStatics() {
	for _, s := range w.statics {
		w.space.RemoveShape(s)
	}
	w.statics = nil
}

// Statics returns the static level boxes, for debug drawing.
func (w *World) Statics() []levels.Rect {
	out := make([]levels.Rect, 0, len(w.statics))
	for _, s := range w.statics {
		bb := s.BB()
		out = append(out, levels.Rect{MinX: bb.L, MinY: bb.B, MaxX: bb.R, MaxY: bb.T})
	}
	return out
}

// RaycastFirst returns the first shape on mask crossed by the segment.
func (w *World) RaycastFirst(from, to locomotion.Vec2, mask locomotion.Layer) (locomotion.RayHit, bool) {
	if from == to {
		return locomotion.RayHit{}, false
	}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	info := w.space.SegmentQueryFirst(vec(from), vec(to), 0, filter)
	if info.Shape == nil {
		return locomotion.RayHit{}, false
	}
	return locomotion.RayHit{
		Point:    fromVec(info.Point),
		Normal:   fromVec(info.Normal),
		Fraction: info.Alpha,
	}, true
}

// NewCharacterBody adds a dynamic box that never rotates and has no friction,
// so horizontal velocity is fully owned by the locomotion core.
func (w *World) NewCharacterBody(position, extents locomotion.Vec2, mass float64) *Body {
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(vec(position))
	shape := cp.NewBox(body, extents.X*2, extents.Y*2, 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(LayerCharacter), uint(LayerGround|LayerWall)))

	w.space.AddBody(body)
	w.space.AddShape(shape)
	return &Body{body: body, shape: shape}
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

func vec(v locomotion.Vec2) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }
func fromVec(v cp.Vector) locomotion.Vec2 { return locomotion.Vec2{X: v.X, Y: v.Y} }
