package levels

import "errors"

var (
	ErrNoSolids    = errors.New("levels: level has no solid tiles")
	ErrBadGeometry = errors.New("levels: invalid level geometry")
)

// SolidKind tells physics which collision layer a solid belongs to.
type SolidKind int

const (
	SolidGround SolidKind = iota
	SolidWall
)

// Rect is an axis-aligned box in world units with y up.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64 { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

type Solid struct {
	Rect
	Kind SolidKind
}

type Point struct {
	X, Y float64
}

// Level is a loaded map converted to world units. The origin is the bottom
// left corner of the map.
type Level struct {
	Name     string
	Width    float64
	Height   float64
	TileSize float64
	Solids   []Solid
	Spawn    Point
}

// Options controls conversion from pixels to world units.
type Options struct {
	// PixelsPerUnit defaults to the tile width, making one tile one unit.
	PixelsPerUnit float64
}

// grid is a solid mask in tile coordinates, row 0 at the top.
type grid struct {
	width, height int
	solid         []bool
}

func newGrid(w, h int) *grid {
	return &grid{width: w, height: h, solid: make([]bool, w*h)}
}

func (g *grid) set(x, y int) { g.solid[y*g.width+x] = true }
func (g *grid) at(x, y int) bool {
	return g.solid[y*g.width+x]
}

// rects merges solid tiles into horizontal runs, then stacks runs with the
// same span in adjacent rows into one box.
func (g *grid) rects(tile float64, kind SolidKind) []Solid {
	var out []Solid
	prevRow := map[[2]int]int{}
	for y := 0; y < g.height; y++ {
		row := map[[2]int]int{}
		top := float64(g.height-y) * tile
		for x := 0; x < g.width; {
			if !g.at(x, y) {
				x++
				continue
			}
			start := x
			for x < g.width && g.at(x, y) {
				x++
			}
			span := [2]int{start, x}
			if idx, ok := prevRow[span]; ok {
				out[idx].MinY = top - tile
				row[span] = idx
				continue
			}
			out = append(out, Solid{
				Rect: Rect{
					MinX: float64(start) * tile,
					MinY: top - tile,
					MaxX: float64(x) * tile,
					MaxY: top,
				},
				Kind: kind,
			})
			row[span] = len(out) - 1
		}
		prevRow = row
	}
	return out
}

// toWorld converts a pixel position with y down into world units.
func toWorld(px, py, mapHeightPx, ppu float64) Point {
	return Point{X: px / ppu, Y: (mapHeightPx - py) / ppu}
}
