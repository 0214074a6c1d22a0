// Package config loads countdown settings from flags, COUNTDOWN_* environment
// variables and an optional YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// Duration in seconds configured at launch; 0 starts idle.
	Duration int
	Interval time.Duration
	History  History
	Log      Log
}

type History struct {
	Enabled bool
	Path    string
	Limit   int
}

type Log struct {
	Level string
	File  string
}

const EnvPrefix = "COUNTDOWN"

func setDefaults(v *viper.Viper) {
	v.SetDefault("duration", 0)
	v.SetDefault("interval", time.Second)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "countdown.db")
	v.SetDefault("history.limit", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "countdown.log")
}

// BindFlags registers the command line flags on fs and binds them to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.Int("duration", 0, "Seconds to count down from at launch (0 to start idle)")
	fs.Duration("interval", time.Second, "Tick period")
	fs.Bool("history", true, "Record finished runs")
	fs.String("history-path", "countdown.db", "Path to the run history database")
	fs.Int("history-limit", 5, "Number of recent runs to show")
	fs.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	fs.String("log-file", "countdown.log", "Log file")

	for key, flag := range map[string]string{
		"duration":        "duration",
		"interval":        "interval",
		"history.enabled": "history",
		"history.path":    "history-path",
		"history.limit":   "history-limit",
		"log.level":       "log-level",
		"log.file":        "log-file",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// Load reads configuration into a validated Config. file may be empty.
func Load(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must be >=0, got %d", c.Duration)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be >0, got %s", c.Interval)
	}
	if c.History.Enabled {
		if c.History.Path == "" {
			return fmt.Errorf("history path is required when history is enabled")
		}
		if c.History.Limit <= 0 {
			return fmt.Errorf("history limit must be >0, got %d", c.History.Limit)
		}
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	return nil
}

func (l Log) ParseLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
