// Package main provides the textreality command: play a world file on the
// terminal, check a world for authoring errors, and manage saved games.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/config"
	"github.com/cory-johannsen/textreality/internal/observability"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	v := config.NewViper()
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "textreality",
		Short:         "Play and check text adventure worlds",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/textreality.yaml", "path to configuration file")
	rootCmd.PersistentFlags().String("world", "", "world YAML file (overrides content.world)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides logging.level)")

	env := &environment{viper: v, configPath: &configPath}
	rootCmd.AddCommand(
		newPlayCmd(env),
		newCheckCmd(env),
		newSavesCmd(env),
	)

	return rootCmd.ExecuteContext(ctx)
}

// flagKeys maps command-line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"world":      "content.world",
	"log-level":  "logging.level",
	"slot":       "saves.slot",
	"difficulty": "game.difficulty",
	"hints":      "game.hints",
	"saves":      "saves.backend",
}

// environment resolves configuration and logging lazily so that flags are
// parsed before the config file is read.
type environment struct {
	viper      *viper.Viper
	configPath *string
}

// load reads the config file when it exists. A missing file is only an error
// when --config was given explicitly.
func (e *environment) load(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	if _, err := os.Stat(*e.configPath); err == nil {
		e.viper.SetConfigFile(*e.configPath)
		if err := e.viper.ReadInConfig(); err != nil {
			return config.Config{}, nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if cmd.Flags().Changed("config") {
		return config.Config{}, nil, fmt.Errorf("config file %s: %w", *e.configPath, err)
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			e.viper.Set(key, f.Value.String())
		}
	})

	cfg, err := config.LoadFromViper(e.viper)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}
