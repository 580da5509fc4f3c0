package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors AppConfig but uses strings for durations to make TOML friendly.
// Pointers distinguish "not set" from a zero value.
type FileConfig struct {
	Player          string   `toml:"player"`
	Command         string   `toml:"command"`
	Args            []string `toml:"args"`
	ProcessName     string   `toml:"process_name"`
	Slot            string   `toml:"slot"`
	SpawnSlots      *int     `toml:"spawn_slots"`
	KickSlots       *int     `toml:"kick_slots"`
	RegisterTimeout string   `toml:"register_timeout"`
	ClampToDisplays *bool    `toml:"clamp_to_displays"`
	LogLevel        string   `toml:"log_level"`
	LogDev          *bool    `toml:"log_dev"`
	LogFile         string   `toml:"log_file"`
	MetricsFile     string   `toml:"metrics_file"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
// Unknown keys are rejected so that typos do not go unnoticed.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	f, err := os.Open(path)
	if err != nil {
		return fc, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/playersnap/config.toml, or ""
// when no config directory can be determined
func DefaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "playersnap", "config.toml")
	}
	return ""
}

// ApplyFileConfig copies every value set in fc onto cfg
func ApplyFileConfig(cfg *AppConfig, fc FileConfig) error {
	setString(fc.Player, &cfg.Player)
	setString(fc.Command, &cfg.Command)
	setString(fc.ProcessName, &cfg.ProcessName)
	setString(fc.LogLevel, &cfg.LogLevel)
	setString(fc.LogFile, &cfg.LogFile)
	setString(fc.MetricsFile, &cfg.MetricsFile)

	if fc.Args != nil {
		cfg.Args = fc.Args
	}

	if err := setDuration("slot", fc.Slot, &cfg.Slot); err != nil {
		return err
	}
	if err := setDuration("register_timeout", fc.RegisterTimeout, &cfg.RegisterTimeout); err != nil {
		return err
	}

	setInt(fc.SpawnSlots, &cfg.SpawnSlots)
	setInt(fc.KickSlots, &cfg.KickSlots)
	setBool(fc.ClampToDisplays, &cfg.ClampToDisplays)
	setBool(fc.LogDev, &cfg.LogDev)

	return nil
}

func setString(v string, dst *string) {
	if v != "" {
		*dst = v
	}
}

func setInt(v *int, dst *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(v *bool, dst *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(key, v string, dst *time.Duration) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
