package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override, e.g. PLAYERSNAP_PLAYER
const EnvPrefix = "PLAYERSNAP"

const (
	defaultPlayer          = "vlc"
	defaultSlot            = 400 * time.Millisecond
	defaultSpawnSlots      = 2
	defaultKickSlots       = 1
	defaultRegisterTimeout = 5 * time.Second
	defaultLogLevel        = "info"
)

// AppConfig holds application configuration.
// Values come from the defaults, then the TOML file, then the environment.
type AppConfig struct {
	// Player is the MPRIS name suffix, e.g. "vlc" for org.mpris.MediaPlayer2.vlc
	Player string `envconfig:"PLAYER"`
	// Command starts the player when it is not running
	Command string   `envconfig:"COMMAND"`
	Args    []string `envconfig:"ARGS"`
	// ProcessName is what close kills
	ProcessName string `envconfig:"PROCESS_NAME"`

	Slot            time.Duration `envconfig:"SLOT"`
	SpawnSlots      int           `envconfig:"SPAWN_SLOTS"`
	KickSlots       int           `envconfig:"KICK_SLOTS"`
	RegisterTimeout time.Duration `envconfig:"REGISTER_TIMEOUT"`

	// ClampToDisplays moves restored windows back on screen when the monitor layout changed
	ClampToDisplays bool `envconfig:"CLAMP_TO_DISPLAYS"`

	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogDev      bool   `envconfig:"LOG_DEV"`
	LogFile     string `envconfig:"LOG_FILE"`
	MetricsFile string `envconfig:"METRICS_FILE"`
}

// Default returns the built-in configuration
func Default() *AppConfig {
	return &AppConfig{
		Player:          defaultPlayer,
		Command:         defaultPlayer,
		ProcessName:     defaultPlayer,
		Slot:            defaultSlot,
		SpawnSlots:      defaultSpawnSlots,
		KickSlots:       defaultKickSlots,
		RegisterTimeout: defaultRegisterTimeout,
		ClampToDisplays: true,
		LogLevel:        defaultLogLevel,
	}
}

// Load builds the configuration. An empty path falls back to DefaultConfigPath
// and tolerates a missing file; an explicit path must exist.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		fc, err := LoadFileConfig(path)
		switch {
		case err == nil:
			if err := ApplyFileConfig(cfg, fc); err != nil {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.MetricsFile = expandPath(cfg.MetricsFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the restore sequence cannot work with
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Player == "" {
		errs = append(errs, errors.New("player must not be empty"))
	}
	if c.Command == "" {
		errs = append(errs, errors.New("command must not be empty"))
	}
	if c.ProcessName == "" {
		errs = append(errs, errors.New("process_name must not be empty"))
	}
	if c.Slot <= 0 {
		errs = append(errs, fmt.Errorf("slot must be positive, got %s", c.Slot))
	}
	if c.SpawnSlots < 0 || c.KickSlots < 0 {
		errs = append(errs, errors.New("slot counts must not be negative"))
	}
	if c.RegisterTimeout < 0 {
		errs = append(errs, errors.New("register_timeout must not be negative"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Fields describes the configuration for the startup log line
func (c *AppConfig) Fields() []zap.Field {
	return []zap.Field{
		zap.String("player", c.Player),
		zap.String("command", c.Command),
		zap.String("processName", c.ProcessName),
		zap.Duration("slot", c.Slot),
		zap.Int("spawnSlots", c.SpawnSlots),
		zap.Int("kickSlots", c.KickSlots),
		zap.Duration("registerTimeout", c.RegisterTimeout),
		zap.Bool("clampToDisplays", c.ClampToDisplays),
		zap.String("logFile", c.LogFile),
		zap.String("metricsFile", c.MetricsFile),
	}
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
