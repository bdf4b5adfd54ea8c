// Package app assembles one playable session from configuration: the world,
// its Lua hooks, the content strings, the save backend and the game itself.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/config"
	"github.com/cory-johannsen/textreality/internal/console"
	"github.com/cory-johannsen/textreality/internal/game/content"
	"github.com/cory-johannsen/textreality/internal/game/engine"
	"github.com/cory-johannsen/textreality/internal/game/world"
	"github.com/cory-johannsen/textreality/internal/savegame"
	"github.com/cory-johannsen/textreality/internal/scripting"
	"github.com/cory-johannsen/textreality/internal/storage/postgres"
)

// App owns every component of a session. Components are closed in reverse
// order of construction.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Blueprint *world.Blueprint
	Strings   *content.Store
	Scripts   *scripting.Manager
	Saves     savegame.Store
	Game      *engine.Game

	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// New loads the world named by cfg and builds the session around it.
//
// Precondition: cfg must be validated; logger must be non-nil.
// Postcondition: Returns a ready App or an error; on error everything opened
// so far is closed.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	start := time.Now()
	a := &App{Config: cfg, Logger: logger}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	logger.Info("session assembled",
		zap.String("world", a.Blueprint.ID),
		zap.Int("locations", a.Blueprint.World.Len()),
		zap.Int("hooks", len(a.Blueprint.Hooks)),
		zap.String("saves", cfg.Saves.Backend),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	bp, err := world.LoadFromFile(a.Config.Content.World)
	if err != nil {
		return err
	}
	if a.Config.Content.ScriptDir != "" {
		bp.ScriptDir = a.Config.Content.ScriptDir
	}
	a.Blueprint = bp

	a.Strings = content.NewStore(content.WithCompression(a.Config.Content.Compress))
	if a.Config.Content.Strings != "" {
		if err := a.Strings.LoadFile(a.Config.Content.Strings); err != nil {
			return err
		}
	}

	if bp.ScriptDir != "" || len(bp.Hooks) > 0 {
		a.Scripts = scripting.NewManager(a.Logger.Named("lua"))
		a.addCloser("scripts", func() error { a.Scripts.Close(); return nil })
		if bp.ScriptDir != "" {
			if err := a.Scripts.Load(bp.ScriptDir, bp.ScriptInstructionLimit); err != nil {
				return err
			}
		}
		if err := a.Scripts.Bind(bp.World, bp.Hooks); err != nil {
			return err
		}
	}

	difficulty, err := engine.ParseDifficulty(a.Config.Game.Difficulty)
	if err != nil {
		return err
	}
	a.Game, err = engine.NewFromBlueprint(bp,
		engine.WithLogger(a.Logger),
		engine.WithDifficulty(difficulty),
		engine.WithHints(a.Config.Game.Hints),
		engine.WithContent(a.Strings),
	)
	if err != nil {
		return err
	}

	store, closeStore, err := OpenSaves(ctx, a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Saves = store
	if closeStore != nil {
		a.addCloser("saves", closeStore)
	}
	return nil
}

func (a *App) addCloser(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// Session returns a console session for the game bound to in and out, with
// autosave into the configured slot when a save backend is enabled.
func (a *App) Session(in io.Reader, out io.Writer) *console.Session {
	renderer := console.NewRenderer(console.WithWidth(a.Config.Game.WrapWidth))
	opts := []console.SessionOption{
		console.WithRenderer(renderer),
		console.WithLogger(a.Logger),
	}
	if a.Saves != nil {
		opts = append(opts, console.WithSaves(a.Saves, a.Config.Saves.Slot))
	}
	return console.NewSession(a.Game, in, out, opts...)
}

// Close releases components in reverse order of construction and joins any errors.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.Logger.Error("closing component", zap.String("component", c.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("closing %s: %w", c.name, err))
			continue
		}
		a.Logger.Debug("component closed", zap.String("component", c.name))
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenSaves opens the save backend selected by cfg.Saves.Backend. The returned
// close function is nil when there is nothing to release; the store is nil for
// the "none" backend.
//
// Precondition: cfg must be validated.
func OpenSaves(ctx context.Context, cfg config.Config, logger *zap.Logger) (savegame.Store, func() error, error) {
	switch cfg.Saves.Backend {
	case config.BackendNone:
		return nil, nil, nil
	case config.BackendMemory:
		return savegame.NewMemoryStore(), nil, nil
	case config.BackendBolt:
		s, err := savegame.OpenBolt(cfg.Saves.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("opening save database: %w", err)
		}
		if err := pool.Ready(ctx, 5*time.Second); err != nil {
			_ = pool.Close()
			return nil, nil, fmt.Errorf("opening save database: %w", err)
		}
		logger.Debug("save database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
		return pool.Saves(), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown save backend %q", cfg.Saves.Backend)
	}
}
