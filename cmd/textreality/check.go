package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/textreality/internal/app"
	"github.com/cory-johannsen/textreality/internal/config"
)

func newCheckCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a world file and its scripts",
		Long:  "Loads the world, its Lua hooks and content strings without starting a game, and reports what was found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, env)
		},
	}
}

func runCheck(cmd *cobra.Command, env *environment) error {
	env.viper.Set("saves.backend", config.BackendNone)
	cfg, logger, err := env.load(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	bp := a.Blueprint
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "world %q is valid\n", bp.ID)
	fmt.Fprintf(out, "  locations: %d (start %s)\n", bp.World.Len(), bp.World.Start().ID)
	fmt.Fprintf(out, "  nouns:     %d\n", len(bp.Nouns))
	fmt.Fprintf(out, "  macros:    %d\n", a.Game.Macros().Count())
	fmt.Fprintf(out, "  strings:   %d\n", a.Strings.Count())
	fmt.Fprintf(out, "  characters: %d\n", bp.World.Characters().Len())
	for _, c := range bp.World.Characters().All() {
		where, _ := bp.World.CharacterLocation(c.ID)
		fmt.Fprintf(out, "    %-12s %s\n", c.ID, where.ID)
	}

	ids := make([]string, 0, len(bp.Hooks))
	for id := range bp.Hooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Fprintf(out, "  hooks:     %d\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(out, "    %-12s %s\n", id, bp.Hooks[id])
	}
	return nil
}
