package main

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/sim"
	"github.com/milk9111/locomotion/telemetry"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	aimLineLength = 1.5
)

type GameOptions struct {
	Level         string
	LevelDir      string
	PrefabDir     string
	TelemetryAddr string
	Debug         bool
	Log           *zap.Logger
}

type Game struct {
	frames int
	debug  bool
	log    *zap.Logger

	sim     *sim.Sim
	input   *input.Reader
	watcher *prefabs.Watcher
	hub     *telemetry.Hub
	cancel  context.CancelFunc

	clipboardOK bool
	status      string
	lastEvent   locomotion.Event
}

func NewGame(opts GameOptions) (*Game, error) {
	s, err := sim.New(sim.Options{Level: opts.Level, LevelDir: opts.LevelDir, Log: opts.Log})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		debug:  opts.Debug,
		log:    opts.Log,
		sim:    s,
		input:  input.NewReader(input.DefaultBindings()),
		cancel: cancel,
	}

	if opts.Debug {
		dirs := []string{opts.PrefabDir}
		if opts.LevelDir != "" {
			dirs = append(dirs, opts.LevelDir)
		}
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			g.log.Warn("hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		g.log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboardOK = true
	}

	if opts.TelemetryAddr != "" {
		g.hub = telemetry.NewHub(g.log.Named("telemetry"))
		go func() {
			if err := telemetry.Serve(ctx, opts.TelemetryAddr, g.hub); err != nil {
				g.log.Error("telemetry stopped", zap.Error(err))
			}
		}()
	}
	return g, nil
}

func (g *Game) Close() {
	g.cancel()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++

	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Respawn()
		g.status = "respawned"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySignals()
	}

	ox, oy := g.worldToScreen(g.sim.Body.Position())
	events := g.sim.Step(g.input.Read(ox, oy))
	for _, e := range events {
		g.lastEvent = e
		g.log.Debug("locomotion event",
			zap.String("kind", string(e.Kind)),
			zap.Stringer("state", e.State),
		)
	}
	if g.hub != nil {
		g.hub.Publish(g.sim.Character.Signals(), events)
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if err := g.sim.HandleChange(path); err != nil {
				g.log.Error("reload failed", zap.String("file", path), zap.Error(err))
				g.status = "reload failed: " + path
				continue
			}
			g.status = "reloaded " + path
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn("watcher error", zap.Error(err))
			}
			return
		default:
			return
		}
	}
}

func (g *Game) copySignals() {
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	b, err := yaml.Marshal(g.sim.Character.Signals())
	if err != nil {
		g.log.Error("marshal signals", zap.Error(err))
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	g.status = "signals copied"
}

// scale returns pixels per world unit and the screen offset that centres the
// level.
func (g *Game) scale() (float64, float64, float64) {
	lvl := g.sim.Level
	if lvl == nil || lvl.Width <= 0 || lvl.Height <= 0 {
		return 32, 0, 0
	}
	s := math.Min(baseWidth/lvl.Width, baseHeight/lvl.Height)
	return s, (baseWidth - lvl.Width*s) / 2, (baseHeight - lvl.Height*s) / 2
}

func (g *Game) worldToScreen(p locomotion.Vec2) (float64, float64) {
	s, ox, oy := g.scale()
	h := 0.0
	if g.sim.Level != nil {
		h = g.sim.Level.Height
	}
	return ox + p.X*s, oy + (h-p.Y)*s
}

func (g *Game) drawRect(screen *ebiten.Image, r levels.Rect, clr color.Color) {
	s, _, _ := g.scale()
	x, y := g.worldToScreen(locomotion.Vec2{X: r.MinX, Y: r.MaxY})
	vector.FillRect(screen, float32(x), float32(y), float32(r.Width()*s), float32(r.Height()*s), clr, false)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, r := range g.sim.World.Statics() {
		g.drawRect(screen, r, colornames.Slategray)
	}

	pos := g.sim.Body.Position()
	ext := g.sim.Character.Extents()
	var bodyColor color.Color = colornames.Dodgerblue
	if c := g.sim.CharacterSpec.DebugColor; c != nil && c.Color != nil {
		bodyColor = c.Color
	}
	g.drawRect(screen, levels.Rect{
		MinX: pos.X - ext.X, MinY: pos.Y - ext.Y,
		MaxX: pos.X + ext.X, MaxY: pos.Y + ext.Y,
	}, bodyColor)

	sig := g.sim.Character.Signals()
	aim := sig.AimOrFacing()
	x0, y0 := g.worldToScreen(pos)
	x1, y1 := g.worldToScreen(pos.Add(aim.Scale(aimLineLength)))
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, colornames.Orange, true)

	hud := fmt.Sprintf("FPS: %.1f  tick: %d\nstate: %s  grounded: %v  wall: %s  facing: %s\nvel: %.2f, %.2f",
		ebiten.ActualFPS(), sig.Tick,
		sig.State, sig.Grounded, sig.WallSide, sig.Facing,
		sig.Velocity.X, sig.Velocity.Y,
	)
	if g.lastEvent.Kind != "" {
		hud += fmt.Sprintf("\nlast event: %s @%d", g.lastEvent.Kind, g.lastEvent.Tick)
	}
	if err := g.sim.Err(); err != nil {
		hud += "\nlocomotion disabled: " + err.Error()
	}
	if g.status != "" {
		hud += "\n" + g.status
	}
	if g.debug {
		hud += "\nR: respawn  F2: copy signals"
	}
	ebitenutil.DebugPrint(screen, hud)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
