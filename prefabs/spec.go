package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/locomotion/locomotion"
	"github.com/milk9111/locomotion/physics"
)

const (
	CharacterFile = "character.yaml"
	WorldFile     = "world.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CharacterSpec struct {
	Name       string       `yaml:"name"`
	Mass       float64      `yaml:"mass"`
	Motion     MotionSpec   `yaml:"motion"`
	Collider   ColliderSpec `yaml:"collider"`
	Sensor     SensorSpec   `yaml:"sensor"`
	DebugColor *YAMLColor   `yaml:"debug_color"`
}

func LoadCharacterSpec() (*CharacterSpec, error) {
	spec, err := LoadSpec[CharacterSpec](CharacterFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// MotionSpec is the motion block of a character prefab. A nil field means the
// key was left out.
type MotionSpec struct {
	MoveSpeed             *float64 `yaml:"move_speed"`
	SprintMultiplier      *float64 `yaml:"sprint_multiplier"`
	JumpForce             *float64 `yaml:"jump_force"`
	JumpCutMultiplier     *float64 `yaml:"jump_cut_multiplier"`
	FastFallForce         *float64 `yaml:"fast_fall_force"`
	CoyoteTime            *float64 `yaml:"coyote_time"`
	JumpBufferTime        *float64 `yaml:"jump_buffer_time"`
	SlideSpeedMultiplier  *float64 `yaml:"slide_speed_multiplier"`
	SlideDuration         *float64 `yaml:"slide_duration"`
	SlideCooldown         *float64 `yaml:"slide_cooldown"`
	SlideJumpMultiplier   *float64 `yaml:"slide_jump_multiplier"`
	SlideJumpForwardForce *float64 `yaml:"slide_jump_forward_force"`
	SlideJumpForwardScale *float64 `yaml:"slide_jump_forward_scale"`
	SlideJumpMinSpeed     *float64 `yaml:"slide_jump_min_speed"`
}

// Config converts the spec. Keys left out take the core defaults; keys set
// to zero stay zero.
func (s MotionSpec) Config() locomotion.MotionConfig {
	cfg := locomotion.DefaultMotionConfig()
	setIfPresent(&cfg.MoveSpeed, s.MoveSpeed)
	setIfPresent(&cfg.SprintMultiplier, s.SprintMultiplier)
	setIfPresent(&cfg.JumpForce, s.JumpForce)
	setIfPresent(&cfg.JumpCutMultiplier, s.JumpCutMultiplier)
	setIfPresent(&cfg.FastFallForce, s.FastFallForce)
	setIfPresent(&cfg.CoyoteTime, s.CoyoteTime)
	setIfPresent(&cfg.JumpBufferTime, s.JumpBufferTime)
	setIfPresent(&cfg.SlideSpeedMultiplier, s.SlideSpeedMultiplier)
	setIfPresent(&cfg.SlideDuration, s.SlideDuration)
	setIfPresent(&cfg.SlideCooldown, s.SlideCooldown)
	setIfPresent(&cfg.SlideJumpMultiplier, s.SlideJumpMultiplier)
	setIfPresent(&cfg.SlideJumpForwardForce, s.SlideJumpForwardForce)
	setIfPresent(&cfg.SlideJumpForwardScale, s.SlideJumpForwardScale)
	setIfPresent(&cfg.SlideJumpMinSpeed, s.SlideJumpMinSpeed)
	return cfg
}

func setIfPresent(dst, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// ColliderSpec is the full collider size in world units.
type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (c ColliderSpec) Extents() locomotion.Vec2 {
	return locomotion.Vec2{X: c.Width / 2, Y: c.Height / 2}
}

type SensorSpec struct {
	ProbeDistance     float64  `yaml:"probe_distance"`
	FootprintInset    float64  `yaml:"footprint_inset"`
	WallProbeDistance float64  `yaml:"wall_probe_distance"`
	Skin              float64  `yaml:"skin"`
	GroundMask        []string `yaml:"ground_mask"`
	WallMask          []string `yaml:"wall_mask"`
}

func (s SensorSpec) Config() (locomotion.SensorConfig, error) {
	ground, err := physics.LayerMask(s.GroundMask...)
	if err != nil {
		return locomotion.SensorConfig{}, fmt.Errorf("prefabs: ground_mask: %w", err)
	}
	wall, err := physics.LayerMask(s.WallMask...)
	if err != nil {
		return locomotion.SensorConfig{}, fmt.Errorf("prefabs: wall_mask: %w", err)
	}
	return locomotion.SensorConfig{
		ProbeDistance:     s.ProbeDistance,
		FootprintInset:    s.FootprintInset,
		WallProbeDistance: s.WallProbeDistance,
		Skin:              s.Skin,
		GroundMask:        ground,
		WallMask:          wall,
	}, nil
}

type WorldSpec struct {
	Gravity       float64 `yaml:"gravity"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
	FixedStep     float64 `yaml:"fixed_step"`
	Iterations    int     `yaml:"iterations"`
	SolidFriction float64 `yaml:"solid_friction"`
	Level         string  `yaml:"level"`
}

func LoadWorldSpec() (*WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec](WorldFile)
	if err != nil {
		return nil, err
	}
	if spec.FixedStep <= 0 {
		spec.FixedStep = 1.0 / 60
	}
	return &spec, nil
}

func (s WorldSpec) PhysicsConfig() physics.Config {
	return physics.Config{
		Gravity:       s.Gravity,
		Iterations:    s.Iterations,
		SolidFriction: s.SolidFriction,
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
