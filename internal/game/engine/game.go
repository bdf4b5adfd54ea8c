// Package engine wires the parser, the world graph and the macro engine into a
// playable game session.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/textreality/internal/game/command"
	"github.com/cory-johannsen/textreality/internal/game/content"
	"github.com/cory-johannsen/textreality/internal/game/macro"
	"github.com/cory-johannsen/textreality/internal/game/synonym"
	"github.com/cory-johannsen/textreality/internal/game/world"
)

// ErrInvalidArgument is returned when a Game is constructed without a prologue
// or start location.
var ErrInvalidArgument = errors.New("invalid argument")

// Scene is an optional linear sequence (a dialogue or cut-scene) that takes
// player input ahead of the parser while it is playing.
type Scene interface {
	// Playing reports whether the scene still wants input.
	Playing() bool
	// Process consumes one raw input line and returns the narrative reply.
	Process(raw string) string
}

// Game is one play session: the parser and its vocabulary, the macro table,
// the command log, the player's inventory and position.
//
// A Game is not safe for concurrent use; independent sessions use independent Games.
type Game struct {
	// Prologue is the opening narrative.
	Prologue string
	// HelpText is rendered for the help override.
	HelpText string
	// HintsEnabled allows the presentation layer to offer hints at HintCost.
	HintsEnabled bool
	// Difficulty scales score increases and hint costs.
	Difficulty Difficulty

	parser    *command.Parser
	macros    *macro.Engine
	content   *content.Store
	queue     *command.Queue
	inventory *world.Inventory
	start     *world.Location
	current   *world.Location
	visited   []*world.Location
	score     int
	moves     int
	scene     Scene
	logger    *zap.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithDifficulty sets the difficulty level.
func WithDifficulty(d Difficulty) Option {
	return func(g *Game) { g.Difficulty = d }
}

// WithHelpText sets the help text.
func WithHelpText(text string) Option {
	return func(g *Game) { g.HelpText = text }
}

// WithHints enables or disables hints.
func WithHints(enabled bool) Option {
	return func(g *Game) { g.HintsEnabled = enabled }
}

// WithParser replaces the default parser.
func WithParser(p *command.Parser) Option {
	return func(g *Game) { g.parser = p }
}

// WithMacros replaces the default, empty macro engine.
func WithMacros(m *macro.Engine) Option {
	return func(g *Game) { g.macros = m }
}

// WithContent sets the store consulted by RetrieveText.
func WithContent(s *content.Store) Option {
	return func(g *Game) { g.content = s }
}

// WithScene installs a scene that intercepts input while it is playing.
func WithScene(s Scene) Option {
	return func(g *Game) { g.scene = s }
}

// NewGame creates a Game positioned at start.
//
// Precondition: prologue must be non-empty and start non-nil.
// Postcondition: Returns a Game with start recorded as visited, or an error
// wrapping ErrInvalidArgument.
func NewGame(prologue string, start *world.Location, opts ...Option) (*Game, error) {
	if strings.TrimSpace(prologue) == "" {
		return nil, fmt.Errorf("prologue must not be empty: %w", ErrInvalidArgument)
	}
	if start == nil {
		return nil, fmt.Errorf("start location must not be nil: %w", ErrInvalidArgument)
	}
	g := &Game{
		Prologue:   prologue,
		Difficulty: Easy,
		queue:      command.NewQueue(),
		inventory:  world.NewInventory(),
		start:      start,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.parser == nil {
		g.parser = command.NewParser()
	}
	if g.macros == nil {
		g.macros = macro.NewEngine(macro.WithLogger(g.logger))
	}
	if g.content == nil {
		g.content = content.NewStore()
	}
	g.enter(start)
	return g, nil
}

// NewFromBlueprint creates a Game from a loaded world, registering its nouns
// and macros. A parser supplied through opts must already know the world's nouns.
//
// Precondition: bp must hold a validated world.
// Postcondition: Returns a Game at the world's start location or an error.
func NewFromBlueprint(bp *world.Blueprint, opts ...Option) (*Game, error) {
	if bp == nil || bp.World == nil {
		return nil, fmt.Errorf("blueprint must hold a world: %w", ErrInvalidArgument)
	}
	nouns := synonym.NewTable()
	for surface, canonical := range bp.Nouns {
		if err := nouns.Add(surface, canonical); err != nil {
			return nil, fmt.Errorf("world %q: %w", bp.ID, err)
		}
	}
	base := []Option{
		WithHelpText(bp.HelpText),
		WithParser(command.NewParser(command.WithNouns(nouns))),
	}
	g, err := NewGame(bp.Prologue, bp.World.Start(), append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	for name, text := range bp.Macros {
		g.macros.AddMacro(name, text)
	}
	return g, nil
}

// ProcessCommand interprets one line of player input.
//
// Postcondition: Always returns a Reply. Empty input yields StatePlaying with
// no text and leaves the command log untouched; override phrases yield their
// state tag without reaching the parser.
func (g *Game) ProcessCommand(raw string) Reply {
	if raw == "" {
		return Reply{State: StatePlaying}
	}
	if reply, ok := checkOverrides(raw); ok {
		return reply
	}
	if g.scene != nil && g.scene.Playing() {
		return Reply{State: StatePlaying, Text: g.macros.Substitute(g.scene.Process(raw))}
	}
	return g.dispatch(raw)
}

func (g *Game) dispatch(raw string) Reply {
	cmd := g.parser.Parse(raw)
	g.queue.Add(cmd)
	here := g.current
	text := here.ProcessCommand(g, cmd)
	g.logger.Debug("command dispatched",
		zap.String("input", raw),
		zap.Stringer("verb", cmd.Verb),
		zap.String("noun", cmd.Noun),
		zap.String("noun2", cmd.Noun2),
		zap.String("location", here.ID),
		zap.String("now_at", g.current.ID),
		zap.Bool("profanity", cmd.ProfanityDetected),
	)
	return Reply{State: StatePlaying, Text: g.macros.Substitute(text)}
}

// Inventory returns the items the player carries.
func (g *Game) Inventory() *world.Inventory {
	return g.inventory
}

// CurrentLocation returns where the player is.
func (g *Game) CurrentLocation() *world.Location {
	return g.current
}

// StartLocation returns the location the game began in.
func (g *Game) StartLocation() *world.Location {
	return g.start
}

// MoveTo places the player in l and records it as visited.
//
// Precondition: l must be non-nil.
func (g *Game) MoveTo(l *world.Location) {
	if l == nil {
		return
	}
	g.enter(l)
}

func (g *Game) enter(l *world.Location) {
	g.current = l
	for _, v := range g.visited {
		if v == l {
			return
		}
	}
	g.visited = append(g.visited, l)
	name := strings.ToLower(strings.TrimSpace(l.Name))
	if _, known := g.parser.Nouns().Resolve(name); !known {
		_ = g.parser.Nouns().Add(name, name)
	}
}

// Visited returns the locations entered so far in first-visit order,
// starting with the start location.
func (g *Game) Visited() []*world.Location {
	out := make([]*world.Location, len(g.visited))
	copy(out, g.visited)
	return out
}

// VisitedNames returns the display names of Visited.
func (g *Game) VisitedNames() []string {
	out := make([]string, 0, len(g.visited))
	for _, l := range g.visited {
		out = append(out, l.Name)
	}
	return out
}

// IncreaseScore adds points scaled by the difficulty multiplier.
func (g *Game) IncreaseScore(points int) {
	g.score += points * g.Difficulty.ScoreMultiplier()
}

// DecreaseScore subtracts points, unscaled.
func (g *Game) DecreaseScore(points int) {
	g.score -= points
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// HintCost returns the score cost of one hint at the current difficulty.
func (g *Game) HintCost() int {
	return g.Difficulty.HintCost()
}

// IncrementMoves counts one game-affecting move.
func (g *Game) IncrementMoves() {
	g.moves++
}

// NumberOfMoves returns the moves counted so far.
func (g *Game) NumberOfMoves() int {
	return g.moves
}

// Parser returns the session's parser.
func (g *Game) Parser() *command.Parser {
	return g.parser
}

// Macros returns the session's macro engine.
func (g *Game) Macros() *macro.Engine {
	return g.macros
}

// Content returns the session's content store.
func (g *Game) Content() *content.Store {
	return g.content
}

// RetrieveText returns the content string with the given identifier with
// macros expanded.
//
// Postcondition: Returns "" when the identifier is unknown.
func (g *Game) RetrieveText(id string) string {
	text := g.content.Retrieve(id)
	if text == "" {
		return ""
	}
	return g.macros.Substitute(text)
}

// Commands returns the parsed commands in the order they were processed.
func (g *Game) Commands() []command.Command {
	return g.queue.Commands()
}

// Save returns the raw input of every processed command, in order.
func (g *Game) Save() []string {
	return g.queue.RawInputs()
}

// Load clears the command log and replays inputs through ProcessCommand. It
// returns the reply to the last input.
//
// Precondition: the Game should be freshly constructed for the replay to
// reproduce the saved session.
func (g *Game) Load(inputs []string) Reply {
	g.queue.Clear()
	var last Reply
	for _, in := range inputs {
		last = g.ProcessCommand(in)
	}
	g.logger.Info("game replayed", zap.Int("commands", len(inputs)), zap.String("location", g.current.ID))
	return last
}
