package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cyclenes/emu/log"
	"cyclenes/hw/input"
)

type Config struct {
	Input   input.Config  `toml:"input"`
	Video   VideoConfig   `toml:"video"`
	General GeneralConfig `toml:"general"`
}

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	DisableVSync bool `toml:"disable_vsync"`
}

type GeneralConfig struct {
	// Comma-separated list of modules with debug logs enabled, overridden by
	// the --log flag.
	LogModules string `toml:"log_modules"`
}

const (
	defaultScale = 3
	maxScale     = 8
)

func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{Scale: defaultScale},
	}
}

// Check fixes invalid values.
func (cfg *Config) Check() {
	if cfg.Video.Scale < 1 || cfg.Video.Scale > maxScale {
		log.ModEmu.WarnZ("invalid video scale, using default").
			Int("scale", cfg.Video.Scale).
			Int("default", defaultScale).
			End()
		cfg.Video.Scale = defaultScale
	}
	cfg.Input.Validate()
}

const cfgFilename = "config.toml"

// ConfigDir returns the directory holding the configuration file, creating
// it if needed.
func ConfigDir() (string, error) {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	dir := filepath.Join(cfgdir, "cyclenes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// LoadConfig reads the configuration file at path. Missing settings keep
// their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return DefaultConfig(), err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		log.ModEmu.WarnZ("unknown config keys").
			String("path", path).
			Stringer("first", undec[0]).
			Int("count", len(undec)).
			End()
	}
	cfg.Check()
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the config directory, or
// returns the default configuration if it can't be loaded.
func LoadConfigOrDefault() Config {
	dir, err := ConfigDir()
	if err != nil {
		log.ModEmu.WarnZ("using default config").Error("err", err).End()
		return DefaultConfig()
	}
	cfg, err := LoadConfig(filepath.Join(dir, cfgFilename))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModEmu.WarnZ("invalid config file, using default").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig writes cfg at path.
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return err
	}
	log.ModEmu.WithField("path", path).Infof("configuration saved")
	return nil
}

// SaveConfigDefault writes cfg in the config directory.
func SaveConfigDefault(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return SaveConfig(cfg, filepath.Join(dir, cfgFilename))
}
