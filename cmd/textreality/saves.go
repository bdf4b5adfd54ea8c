package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/textreality/internal/app"
	"github.com/cory-johannsen/textreality/internal/config"
	"github.com/cory-johannsen/textreality/internal/savegame"
)

func newSavesCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List or delete saved games",
	}
	cmd.PersistentFlags().String("saves", "", "save backend: bolt or postgres (overrides saves.backend)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved games",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSaves(cmd, env, func(store savegame.Store) error {
					recs, err := store.List(cmd.Context())
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if len(recs) == 0 {
						fmt.Fprintln(out, "No saved games.")
						return nil
					}
					for _, r := range recs {
						fmt.Fprintf(out, "%-16s %4d commands  saved %s  (%s)\n",
							r.Slot, len(r.Inputs), r.UpdatedAt.Local().Format("2006-01-02 15:04"), r.ID)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <slot>",
			Short: "Delete a saved game",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSaves(cmd, env, func(store savegame.Store) error {
					if err := store.Delete(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func withSaves(cmd *cobra.Command, env *environment, fn func(savegame.Store) error) error {
	cfg, logger, err := env.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := app.OpenSaves(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}
	if store == nil {
		return fmt.Errorf("saves are disabled (saves.backend = %s)", config.BackendNone)
	}
	return fn(store)
}
