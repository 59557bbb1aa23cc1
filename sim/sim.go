// Package sim assembles a physics world, a level and one locomotion
// character from the prefab specs, and steps them together at a fixed rate.
package sim

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
)

type Options struct {
	// Level overrides the level named in world.yaml.
	Level string
	// LevelDir loads levels from disk instead of the embedded set.
	LevelDir string
	Log      *zap.Logger
}

type Sim struct {
	opts Options
	log  *zap.Logger

	WorldSpec     *prefabs.WorldSpec
	CharacterSpec *prefabs.CharacterSpec
	World         *physics.World
	Level         *levels.Level
	Body          *physics.Body
	Character     *locomotion.Character

	sensor  locomotion.SensorConfig
	elapsed float64
}

func New(opts Options) (*Sim, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ws, err := prefabs.LoadWorldSpec()
	if err != nil {
		return nil, fmt.Errorf("sim: world spec: %w", err)
	}
	cs, err := prefabs.LoadCharacterSpec()
	if err != nil {
		return nil, fmt.Errorf("sim: character spec: %w", err)
	}
	sensor, err := cs.Sensor.Config()
	if err != nil {
		return nil, err
	}

	s := &Sim{
		opts:          opts,
		log:           log,
		WorldSpec:     ws,
		CharacterSpec: cs,
		World:         physics.NewWorld(ws.PhysicsConfig(), log.Named("physics")),
	}
	if err := s.loadLevel(); err != nil {
		return nil, err
	}

	s.sensor = sensor
	s.Body = s.World.NewCharacterBody(s.SpawnPosition(), cs.Collider.Extents(), cs.Mass)
	s.buildCharacter(cs.Motion.Config())
	return s, nil
}

// buildCharacter creates the locomotion character around the existing body.
// A motion config error leaves a disabled character that ignores input; the
// world keeps running. locomotion.New logs the cause.
func (s *Sim) buildCharacter(cfg locomotion.MotionConfig) {
	cs := s.CharacterSpec
	s.Character, _ = locomotion.New(cfg, s.Body, s.World, cs.Collider.Extents(),
		locomotion.WithLogger(s.log.Named("locomotion").With(zap.String("character", cs.Name))),
		locomotion.WithSensorConfig(s.sensor),
	)
}

// Err reports why the character is disabled, or nil.
func (s *Sim) Err() error { return s.Character.Err() }

func (s *Sim) levelName() string {
	if s.opts.Level != "" {
		return s.opts.Level
	}
	return s.WorldSpec.Level
}

func (s *Sim) loadLevel() error {
	name := s.levelName()
	opts := levels.Options{PixelsPerUnit: s.WorldSpec.PixelsPerUnit}

	var (
		lvl *levels.Level
		err error
	)
	if s.opts.LevelDir != "" {
		lvl, err = levels.LoadFS(os.DirFS(s.opts.LevelDir), name, opts)
	} else {
		lvl, err = levels.Load(name, opts)
	}
	if err != nil {
		return err
	}

	s.World.ClearStatics()
	s.World.AddLevel(lvl)
	s.Level = lvl
	return nil
}

// FixedStep is the simulation step in seconds.
func (s *Sim) FixedStep() float64 { return s.WorldSpec.FixedStep }

// Elapsed is the simulated time since the last respawn.
func (s *Sim) Elapsed() float64 { return s.elapsed }

// SpawnPosition is the body centre for the level's spawn point, which marks
// the feet.
func (s *Sim) SpawnPosition() locomotion.Vec2 {
	extents := s.CharacterSpec.Collider.Extents()
	sp := locomotion.Vec2{}
	if s.Level != nil {
		sp = locomotion.Vec2{X: s.Level.Spawn.X, Y: s.Level.Spawn.Y}
	}
	return locomotion.Vec2{X: sp.X, Y: sp.Y + extents.Y}
}

// Step ticks the character with in, advances physics by one fixed step and
// returns the events raised during the tick.
func (s *Sim) Step(in locomotion.InputSnapshot) []locomotion.Event {
	dt := s.FixedStep()
	s.Character.Tick(dt, in)
	s.World.Step(dt)
	s.elapsed += dt
	return s.Character.Events().Drain()
}

func (s *Sim) Respawn() {
	s.Character.Reset(s.SpawnPosition())
	s.elapsed = 0
}

// ReloadCharacter rereads character.yaml and applies the motion settings. A
// character disabled by a bad config is rebuilt once the config is valid.
// Collider and sensor changes need a restart.
func (s *Sim) ReloadCharacter() error {
	cs, err := prefabs.LoadCharacterSpec()
	if err != nil {
		return err
	}
	cfg := cs.Motion.Config()
	if s.Character.Disabled() {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.buildCharacter(cfg)
	} else if err := s.Character.Reconfigure(cfg); err != nil {
		return err
	}
	s.CharacterSpec.Motion = cs.Motion
	s.CharacterSpec.DebugColor = cs.DebugColor
	return nil
}

// ReloadLevel rebuilds the static geometry and respawns the character.
func (s *Sim) ReloadLevel() error {
	if err := s.loadLevel(); err != nil {
		return err
	}
	s.Respawn()
	return nil
}

// HandleChange reacts to a file reported by prefabs.Watcher.
func (s *Sim) HandleChange(path string) error {
	switch prefabs.KindOf(path) {
	case prefabs.KindSpec:
		switch filepath.Base(path) {
		case prefabs.CharacterFile:
			s.log.Info("reloading character", zap.String("file", path))
			return s.ReloadCharacter()
		case prefabs.WorldFile:
			s.log.Warn("world settings changed, restart to apply", zap.String("file", path))
		}
	case prefabs.KindLevel:
		s.log.Info("reloading level", zap.String("file", path))
		return s.ReloadLevel()
	}
	return nil
}
