package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dmora/uci"
	"github.com/dmora/uci/internal/config"
	"github.com/dmora/uci/internal/logging"
)

// app carries flag values and the loaded configuration to subcommands.
type app struct {
	configPath string
	enginePath string
	timeout    time.Duration
	logLevel   string

	cfg config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ucictl",
		Short:         "Drive a UCI chess engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&a.enginePath, "engine", "e", "", "engine executable (overrides [engine].path)")
	flags.DurationVar(&a.timeout, "timeout", time.Minute, "overall deadline for the command")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")

	root.AddCommand(newInfoCmd(a))
	root.AddCommand(newSendCmd(a))
	root.AddCommand(newBestMoveCmd(a))
	root.AddCommand(newValidateCmd(a))

	return root
}

func (a *app) setup() error {
	a.log = logging.ConfigureRuntime()
	if a.logLevel != "" {
		lvl, ok := logging.ParseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		a.log = a.log.Level(lvl)
	}
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.enginePath != "" {
		a.cfg.Engine.Path = a.enginePath
	}
	if a.cfg.Engine.Path == "" {
		return errors.New("engine path required: use --engine or [engine].path")
	}
	return nil
}

// context derives the command deadline from --timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), a.timeout)
}

// open launches the engine and applies the [options] table.
func (a *app) open(ctx context.Context) (*uci.Engine, error) {
	eng, err := uci.New(ctx, a.cfg.Engine.Path, a.cfg.EngineOptions(a.log)...)
	if err != nil {
		return nil, err
	}
	for _, name := range a.cfg.OptionNames() {
		if err := eng.SetOption(ctx, name, string(a.cfg.Options[name])); err != nil {
			_ = eng.Close()
			return nil, fmt.Errorf("option %s: %w", name, err)
		}
	}
	return eng, nil
}
