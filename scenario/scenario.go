package scenario

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
)

// Script produces one InputSnapshot per tick from a tengo program.
//
// Each run sees tick, elapsed, state, grounded, facing, vx, vy and a mem map that
// persists across ticks. It sets any of move, sprint, jump, release,
// fast_fall, slide, aim_x, aim_y and done; unset outputs read as zero.
type Script struct {
	name     string
	compiled *tengo.Compiled
	memory   *tengo.Map
}

var outputs = map[string]any{
	"move":      0.0,
	"sprint":    false,
	"jump":      false,
	"release":   false,
	"fast_fall": false,
	"slide":     false,
	"aim_x":     0.0,
	"aim_y":     0.0,
	"done":      false,
}

var inputs = map[string]any{
	"tick":     0,
	"elapsed":  0.0,
	"state":    "",
	"grounded": false,
	"facing":   "",
	"vx":       0.0,
	"vy":       0.0,
}

// Load compiles src. name is only used in errors.
func Load(name string, src []byte) (*Script, error) {
	script := tengo.NewScript(src)
	globals := map[string]any{"mem": map[string]any{}}
	for k, v := range inputs {
		globals[k] = v
	}
	for k, v := range outputs {
		globals[k] = v
	}
	for k, v := range globals {
		if err := script.Add(k, v); err != nil {
			return nil, fmt.Errorf("scenario: %s: add %s: %w", name, k, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	return &Script{
		name:     name,
		compiled: compiled,
		memory:   &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// LoadPrefab loads a script from the prefab scripts directory.
func LoadPrefab(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return Load(name, src)
}

func (s *Script) Name() string { return s.name }

// Next runs the script for one tick and reports the input plus whether the
// script asked to stop.
func (s *Script) Next(ctx context.Context, tick uint64, elapsed float64, sig locomotion.Signals) (locomotion.InputSnapshot, bool, error) {
	set := map[string]any{
		"tick":     int64(tick),
		"elapsed":  elapsed,
		"state":    sig.State.String(),
		"grounded": sig.Grounded,
		"facing":   sig.Facing.String(),
		"vx":       sig.Velocity.X,
		"vy":       sig.Velocity.Y,
	}
	for k, v := range outputs {
		set[k] = v
	}
	for k, v := range set {
		if err := s.compiled.Set(k, v); err != nil {
			return locomotion.InputSnapshot{}, false, fmt.Errorf("scenario: %s: set %s: %w", s.name, k, err)
		}
	}
	if err := s.compiled.Set("mem", s.memory); err != nil {
		return locomotion.InputSnapshot{}, false, fmt.Errorf("scenario: %s: set mem: %w", s.name, err)
	}

	if err := s.compiled.RunContext(ctx); err != nil {
		return locomotion.InputSnapshot{}, false, fmt.Errorf("scenario: %s: tick %d: %w", s.name, tick, err)
	}

	in := locomotion.InputSnapshot{
		MoveAxis:     s.float("move"),
		SprintHeld:   s.bool("sprint"),
		JumpPressed:  s.bool("jump"),
		JumpReleased: s.bool("release"),
		FastFallHeld: s.bool("fast_fall"),
		SlidePressed: s.bool("slide"),
		AimDirection: locomotion.Vec2{X: s.float("aim_x"), Y: s.float("aim_y")},
	}
	return in, s.bool("done"), nil
}

func (s *Script) float(name string) float64 {
	v := s.compiled.Get(name)
	if v.IsUndefined() {
		return 0
	}
	return v.Float()
}

func (s *Script) bool(name string) bool {
	v := s.compiled.Get(name)
	if v.IsUndefined() {
		return false
	}
	return v.Bool()
}
