package levels

import (
	"encoding/json"
	"fmt"
)

// jsonLevel is the editor's level format: flat tile layers indexed
// y*width+x with row 0 at the top, per-layer metadata and placed entities.
type jsonLevel struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  int         `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
	Wall    bool `json:"wall,omitempty"`
}

// Entity is a placed object. X and Y are pixels from the top left.
type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

const (
	defaultTileSize   = 32
	entityPlayerSpawn = "player_spawn"
)

// ParseJSON decodes an editor level. Layers without metadata are all solid;
// with metadata only layers flagged physics are.
func ParseJSON(name string, data []byte, opts Options) (*Level, error) {
	var raw jsonLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrBadGeometry, name, raw.Width, raw.Height)
	}
	tilePx := float64(raw.TileSize)
	if tilePx <= 0 {
		tilePx = defaultTileSize
	}
	ppu := opts.PixelsPerUnit
	if ppu <= 0 {
		ppu = tilePx
	}
	tile := tilePx / ppu

	lvl := &Level{
		Name:     name,
		Width:    float64(raw.Width) * tile,
		Height:   float64(raw.Height) * tile,
		TileSize: tile,
	}

	for i, layer := range raw.Layers {
		if len(layer) != raw.Width*raw.Height {
			return nil, fmt.Errorf("%w: %s layer %d has %d tiles, want %d", ErrBadGeometry, name, i, len(layer), raw.Width*raw.Height)
		}
		kind := SolidGround
		if len(raw.LayerMeta) > 0 {
			if i >= len(raw.LayerMeta) || !raw.LayerMeta[i].Physics {
				continue
			}
			if raw.LayerMeta[i].Wall {
				kind = SolidWall
			}
		}
		g := newGrid(raw.Width, raw.Height)
		for idx, v := range layer {
			if v != 0 {
				g.set(idx%raw.Width, idx/raw.Width)
			}
		}
		lvl.Solids = append(lvl.Solids, g.rects(tile, kind)...)
	}
	if len(lvl.Solids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSolids, name)
	}

	heightPx := float64(raw.Height) * tilePx
	lvl.Spawn = Point{X: lvl.Width / 2, Y: lvl.Height}
	for _, e := range raw.Entities {
		if e.Type == entityPlayerSpawn {
			lvl.Spawn = toWorld(float64(e.X), float64(e.Y), heightPx, ppu)
			break
		}
	}
	return lvl, nil
}
