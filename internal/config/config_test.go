package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	require.Equal(t, Config{
		Duration: 0,
		Interval: time.Second,
		History:  History{Enabled: true, Path: "countdown.db", Limit: 5},
		Log:      Log{Level: "info", File: "countdown.log"},
	}, cfg)
}

func TestEnv(t *testing.T) {
	t.Setenv("COUNTDOWN_DURATION", "90")
	t.Setenv("COUNTDOWN_INTERVAL", "250ms")
	t.Setenv("COUNTDOWN_HISTORY_ENABLED", "false")
	t.Setenv("COUNTDOWN_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 90, cfg.Duration)
	require.Equal(t, 250*time.Millisecond, cfg.Interval)
	require.False(t, cfg.History.Enabled)

	level, err := cfg.Log.ParseLevel()
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, level)
}

func TestFlags(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("countdown", pflag.ContinueOnError)
	require.NoError(t, BindFlags(fs, v))
	require.NoError(t, fs.Parse([]string{"--duration=25", "--history-path=/tmp/runs.db", "--history-limit=3"}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Duration)
	require.Equal(t, "/tmp/runs.db", cfg.History.Path)
	require.Equal(t, 3, cfg.History.Limit)
	require.Equal(t, time.Second, cfg.Interval)
}

func TestFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "countdown.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
duration: 300
history:
  limit: 10
log:
  file: /tmp/countdown.log
`), 0o600))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)
	require.Equal(t, 300, cfg.Duration)
	require.Equal(t, 10, cfg.History.Limit)
	require.True(t, cfg.History.Enabled)
	require.Equal(t, "/tmp/countdown.log", cfg.Log.File)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Interval: time.Second,
		History:  History{Enabled: true, Path: "x.db", Limit: 1},
		Log:      Log{Level: "warn"},
	}
	require.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"negative duration": func(c *Config) { c.Duration = -1 },
		"zero interval":     func(c *Config) { c.Interval = 0 },
		"empty path":        func(c *Config) { c.History.Path = "" },
		"zero limit":        func(c *Config) { c.History.Limit = 0 },
		"bad level":         func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}

	disabled := valid
	disabled.History = History{}
	require.NoError(t, disabled.Validate())
}
