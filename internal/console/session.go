package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/game/engine"
	"github.com/cory-johannsen/textreality/internal/savegame"
)

// DefaultPrompt is written before each line of input.
const DefaultPrompt = "> "

// Session drives one game from a line reader to a writer.
type Session struct {
	game     *engine.Game
	renderer *Renderer
	in       io.Reader
	out      io.Writer
	prompt   string
	store    savegame.Store
	slot     string
	logger   *zap.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRenderer replaces the default renderer.
func WithRenderer(r *Renderer) SessionOption {
	return func(s *Session) { s.renderer = r }
}

// WithPrompt replaces DefaultPrompt.
func WithPrompt(prompt string) SessionOption {
	return func(s *Session) { s.prompt = prompt }
}

// WithSaves enables autosave into slot of store when the session ends.
func WithSaves(store savegame.Store, slot string) SessionOption {
	return func(s *Session) {
		s.store = store
		s.slot = slot
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a Session for g reading from in and writing to out.
//
// Precondition: g, in and out must be non-nil.
func NewSession(g *engine.Game, in io.Reader, out io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		game:   g,
		in:     in,
		out:    out,
		prompt: DefaultPrompt,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = NewRenderer()
	}
	return s
}

// Restore replays the saved slot into the game and prints where the player
// now stands. It reports false when the slot holds no save.
//
// Precondition: the game must be freshly constructed.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	rec, err := s.store.Load(ctx, s.slot)
	if errors.Is(err, savegame.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restoring slot %q: %w", s.slot, err)
	}
	s.game.Load(rec.Inputs)
	s.logger.Info("session restored", zap.Int("commands", len(rec.Inputs)), zap.Time("saved_at", rec.UpdatedAt))
	return true, nil
}

// Run writes the banner, then processes lines until the player exits, the
// input ends or ctx is cancelled. The session is autosaved on every exit path.
//
// Postcondition: Returns nil on a normal end; a non-nil error only for write or save failures.
func (s *Session) Run(ctx context.Context) error {
	if err := s.writeBlock(s.renderer.Banner(s.game)); err != nil {
		return err
	}

	// The reader stops at EOF or at its next line once Run has returned. A
	// Read already blocked on s.in cannot be interrupted.
	readCtx, stop := context.WithCancel(ctx)
	defer stop()
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if _, err := io.WriteString(s.out, s.prompt); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		select {
		case <-ctx.Done():
			s.logger.Info("session interrupted")
			return s.autosave(ctx)
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						s.logger.Warn("reading input", zap.Error(err))
					}
				default:
				}
				return s.autosave(ctx)
			}
			reply := s.game.ProcessCommand(line)
			if err := s.writeBlock(s.renderer.Render(s.game, reply)); err != nil {
				return err
			}
			if reply.State == engine.StateExit {
				return s.autosave(ctx)
			}
		}
	}
}

func (s *Session) writeBlock(text string) error {
	if text == "" {
		return nil
	}
	if _, err := fmt.Fprintf(s.out, "%s\n", text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (s *Session) autosave(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	inputs := s.game.Save()
	if len(inputs) == 0 {
		return nil
	}
	rec, err := s.store.Save(context.WithoutCancel(ctx), s.slot, inputs)
	if err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	s.logger.Info("session saved", zap.String("slot", rec.Slot), zap.Int("commands", len(rec.Inputs)))
	return nil
}
