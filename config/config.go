package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Runtime holds process settings read from the environment. Command-line
// flags override them.
type Runtime struct {
	LogLevel      string `env:"LOCO_LOG_LEVEL"`
	LogFile       string `env:"LOCO_LOG_FILE"`
	Debug         bool   `env:"LOCO_DEBUG"`
	PrefabDir     string `env:"LOCO_PREFAB_DIR" envDefault:"prefabs"`
	LevelDir      string `env:"LOCO_LEVEL_DIR"`
	TelemetryAddr string `env:"LOCO_TELEMETRY_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Runtime, error) {
	var rt Runtime
	if err := ParseEnv(&rt); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}
