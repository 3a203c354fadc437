// Package config loads sprout's settings from an optional YAML file,
// SPROUT_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/redpandashots/plant-watering-reminder/internal/logging"
	"github.com/redpandashots/plant-watering-reminder/internal/store"
)

const envPrefix = "SPROUT"

type Settings struct {
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
	Notify NotifyConfig `mapstructure:"notify"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// NotifyConfig configures reminder delivery. URLs are shoutrrr service
// URLs; with none set, reminders are only logged.
type NotifyConfig struct {
	URLs     []string      `mapstructure:"urls"`
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// New returns a viper instance with defaults and environment bindings set.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "sprout.db"
	}
	v.SetDefault("db.path", dbPath)
	v.SetDefault("log.path", filepath.Join(filepath.Dir(dbPath), "sprout.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("notify.urls", []string{})
	v.SetDefault("notify.interval", 24*time.Hour)
	v.SetDefault("notify.timeout", 10*time.Second)
}

// Load reads configFile, or config.yaml from the default locations when
// configFile is empty, and decodes the merged settings. A missing default
// file is not an error; a missing explicit file is.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range defaultConfigPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks value ranges that the decoder cannot.
func (s *Settings) Validate() error {
	if s.DB.Path == "" {
		return errors.New("db.path must not be empty")
	}
	if !logging.ValidLevel(s.Log.Level) {
		return fmt.Errorf("log.level %q: want debug, info, warn or error", s.Log.Level)
	}
	if s.Notify.Interval < time.Minute {
		return fmt.Errorf("notify.interval %s: must be at least 1m", s.Notify.Interval)
	}
	if s.Notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout %s: must be positive", s.Notify.Timeout)
	}
	return nil
}

func defaultConfigPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "sprout"))
	}
	return append(paths, ".")
}
