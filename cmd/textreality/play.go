package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/app"
	"github.com/cory-johannsen/textreality/internal/observability"
)

func newPlayCmd(env *environment) *cobra.Command {
	var restore bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a world on this terminal",
		Long:  "Plays the configured world, reading commands from stdin. The session is saved to the configured slot when it ends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, env, restore)
		},
	}

	cmd.Flags().BoolVarP(&restore, "restore", "r", false, "resume the game saved in the slot")
	cmd.Flags().String("slot", "", "save slot (overrides saves.slot)")
	cmd.Flags().String("difficulty", "", "easy, medium or hard (overrides game.difficulty)")
	cmd.Flags().Bool("hints", false, "offer hints (overrides game.hints)")
	cmd.Flags().String("saves", "", "save backend: none, memory, bolt or postgres (overrides saves.backend)")

	return cmd
}

func runPlay(cmd *cobra.Command, env *environment, restore bool) error {
	ctx := cmd.Context()
	cfg, logger, err := env.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Logger = observability.ForSession(logger, a.Blueprint.ID, cfg.Saves.Slot)

	session := a.Session(cmd.InOrStdin(), cmd.OutOrStdout())
	if restore {
		ok, err := session.Restore(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "No saved game in slot %q; starting a new game.\n", cfg.Saves.Slot)
		}
	}
	if err := session.Run(ctx); err != nil {
		return err
	}
	a.Logger.Info("session ended",
		zap.Int("score", a.Game.Score()),
		zap.Int("moves", a.Game.NumberOfMoves()),
	)
	return nil
}
