package levels

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/lafriks/go-tiled"
)

const (
	tmxSpawnGroup  = "spawn"
	tmxSpawnObject = "player_spawn"
)

// tmxLayerKinds maps Tiled tile layer names to solid kinds. Other layers are
// decoration.
var tmxLayerKinds = map[string]SolidKind{
	"ground": SolidGround,
	"solid":  SolidGround,
	"walls":  SolidWall,
	"wall":   SolidWall,
}

// LoadTMX reads a Tiled map from fsys.
func LoadTMX(fsys fs.FS, path string, opts Options) (*Level, error) {
	m, err := tiled.LoadFile(path, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("levels: load TMX %s: %w", path, err)
	}
	if m.Width <= 0 || m.Height <= 0 || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadGeometry, path)
	}

	ppu := opts.PixelsPerUnit
	if ppu <= 0 {
		ppu = float64(m.TileWidth)
	}
	tile := float64(m.TileWidth) / ppu

	lvl := &Level{
		Name:     path,
		Width:    float64(m.Width) * tile,
		Height:   float64(m.Height) * tile,
		TileSize: tile,
	}

	for _, layer := range m.Layers {
		kind, ok := tmxLayerKinds[strings.ToLower(layer.Name)]
		if !ok {
			continue
		}
		if len(layer.Tiles) != m.Width*m.Height {
			return nil, fmt.Errorf("%w: %s layer %q has %d tiles", ErrBadGeometry, path, layer.Name, len(layer.Tiles))
		}
		g := newGrid(m.Width, m.Height)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				if !layer.Tiles[y*m.Width+x].IsNil() {
					g.set(x, y)
				}
			}
		}
		lvl.Solids = append(lvl.Solids, g.rects(tile, kind)...)
	}
	if len(lvl.Solids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSolids, path)
	}

	heightPx := float64(m.Height * m.TileHeight)
	lvl.Spawn = Point{X: lvl.Width / 2, Y: lvl.Height}
	for _, og := range m.ObjectGroups {
		if !strings.EqualFold(og.Name, tmxSpawnGroup) {
			continue
		}
		for _, o := range og.Objects {
			if o.Name == "" || o.Name == tmxSpawnObject {
				lvl.Spawn = toWorld(o.X, o.Y, heightPx, ppu)
				return lvl, nil
			}
		}
	}
	return lvl, nil
}
