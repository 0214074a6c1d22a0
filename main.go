package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"countdown/internal"
	"countdown/internal/config"
	"countdown/internal/countdown"
	"countdown/internal/history"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "countdown",
		Short:         "Count down from a number of seconds in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				cfgFile = os.Getenv(config.EnvPrefix + "_CONFIG")
			}
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	if err := config.BindFlags(cmd.Flags(), v); err != nil {
		panic(err)
	}
	return cmd
}

func newLogger(cfg config.Log) (*logrus.Logger, func() error, error) {
	level, err := cfg.ParseLevel()
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log.SetOutput(f)
	return log, f.Close, nil
}

func run(cfg config.Config) (err error) {
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	machine, err := countdown.New(
		countdown.WithInterval(cfg.Interval),
		countdown.WithLogger(log),
	)
	if err != nil {
		return err
	}
	defer machine.Close()

	var runs internal.RunLister
	if cfg.History.Enabled {
		repo, openErr := history.NewRepository(cfg.History.Path)
		if openErr != nil {
			return fmt.Errorf("failed to open run history: %w", openErr)
		}
		defer func() {
			err = errors.Join(err, repo.Close())
		}()

		detach := history.NewRecorder(repo, log).Attach(machine)
		// Close the machine before detaching so the open run is recorded.
		defer detach()
		defer machine.Close()
		runs = repo
	}

	m := internal.NewModel(machine, runs, cfg.History.Limit, log)

	if cfg.Duration > 0 {
		if err := machine.Configure(cfg.Duration); err != nil {
			return err
		}
	}

	log.WithField("duration", cfg.Duration).Info("starting countdown")
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
