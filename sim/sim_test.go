package sim

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/prefabs"
)

func newSim(t *testing.T, opts Options) *Sim {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewSpawnsOnGround(t *testing.T) {
	s := newSim(t, Options{})
	if s.Level.Name == "" {
		t.Fatal("level not loaded")
	}
	if len(s.World.Statics()) == 0 {
		t.Fatal("no static geometry")
	}

	for i := 0; i < 60; i++ {
		s.Step(locomotion.InputSnapshot{})
	}
	if !s.Character.Grounded() {
		t.Fatalf("character not grounded after settling, pos %v", s.Body.Position())
	}
	if got := s.Character.State(); got != locomotion.StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
}

func TestStepRunsAndJumps(t *testing.T) {
	s := newSim(t, Options{})
	for i := 0; i < 30; i++ {
		s.Step(locomotion.InputSnapshot{})
	}
	start := s.Body.Position()

	for i := 0; i < 20; i++ {
		s.Step(locomotion.InputSnapshot{MoveAxis: 1})
	}
	if s.Body.Position().X <= start.X {
		t.Fatalf("character did not move right: %v -> %v", start, s.Body.Position())
	}

	events := s.Step(locomotion.InputSnapshot{MoveAxis: 1, JumpPressed: true})
	found := false
	for _, e := range events {
		if e.Kind == locomotion.EventJumped {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a jumped event, got %v", events)
	}
	if s.Body.Velocity().Y <= 0 {
		t.Fatalf("expected upward velocity, got %v", s.Body.Velocity())
	}
}

func TestRespawnAndLevelOverride(t *testing.T) {
	s := newSim(t, Options{Level: "tower.tmx"})
	if s.Level.Name != "tower.tmx" {
		t.Fatalf("level = %q", s.Level.Name)
	}
	for i := 0; i < 10; i++ {
		s.Step(locomotion.InputSnapshot{MoveAxis: -1})
	}
	s.Respawn()
	if got, want := s.Body.Position(), s.SpawnPosition(); math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("position after respawn = %v, want %v", got, want)
	}
	if s.Elapsed() != 0 {
		t.Fatalf("elapsed = %v after respawn", s.Elapsed())
	}

	if err := s.HandleChange("prefabs/character.yaml"); err != nil {
		t.Fatalf("HandleChange spec: %v", err)
	}
	if err := s.HandleChange("levels/tower.tmx"); err != nil {
		t.Fatalf("HandleChange level: %v", err)
	}
}

func TestUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "missing.json"}); err == nil {
		t.Fatal("expected an error for a missing level")
	}
}

const characterYAML = `name: test
mass: 1
motion:
  move_speed: %v
collider:
  width: 0.8
  height: 1.6
sensor:
  skin: 0.15
  ground_mask: [ground, wall]
`

func writeCharacter(t *testing.T, dir string, moveSpeed float64) string {
	t.Helper()
	path := filepath.Join(dir, prefabs.CharacterFile)
	if err := os.WriteFile(path, []byte(fmt.Sprintf(characterYAML, moveSpeed)), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvalidMotionDisablesCharacter(t *testing.T) {
	dir := t.TempDir()
	prev := prefabs.OverrideDir()
	prefabs.SetOverrideDir(dir)
	t.Cleanup(func() { prefabs.SetOverrideDir(prev) })

	path := writeCharacter(t, dir, -1)
	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New should keep running with a disabled character: %v", err)
	}
	if !s.Character.Disabled() || !errors.Is(s.Err(), locomotion.ErrInvalidConfig) {
		t.Fatalf("expected a character disabled by ErrInvalidConfig, got %v", s.Err())
	}

	start := s.Body.Position()
	for i := 0; i < 10; i++ {
		if events := s.Step(locomotion.InputSnapshot{MoveAxis: 1, JumpPressed: true}); len(events) != 0 {
			t.Fatalf("disabled character raised events: %v", events)
		}
	}
	if math.Abs(s.Body.Position().X-start.X) > 1e-6 {
		t.Fatalf("disabled character moved: %v -> %v", start, s.Body.Position())
	}

	writeCharacter(t, dir, 6)
	if err := s.HandleChange(path); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if s.Character.Disabled() {
		t.Fatalf("character still disabled after a valid reload: %v", s.Err())
	}
	for i := 0; i < 20; i++ {
		s.Step(locomotion.InputSnapshot{MoveAxis: 1})
	}
	if s.Body.Position().X <= start.X {
		t.Fatalf("character did not move after reload: %v", s.Body.Position())
	}
}

func TestWorldEditDoesNotReloadCharacter(t *testing.T) {
	s := newSim(t, Options{})
	before := s.Character
	if err := s.HandleChange(filepath.Join("prefabs", prefabs.WorldFile)); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if s.Character != before || s.Character.Config() != before.Config() {
		t.Fatal("world edit touched the character")
	}
}
