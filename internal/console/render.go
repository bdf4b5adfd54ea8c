package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/textreality/internal/game/content"
	"github.com/cory-johannsen/textreality/internal/game/engine"
)

// Content string IDs looked up by the renderer. Missing IDs fall back to
// built-in wording.
const (
	StringWelcomeBanner = "welcome_banner"
	StringGoodbye       = "goodbye"
	StringScoreLine     = "score_line"
	StringHintCost      = "hint_cost"
	StringNoItems       = "no_items"
	StringVisitedHeader = "visited_header"
)

var fallbackStrings = map[string]string{
	StringGoodbye:       "Goodbye.",
	StringScoreLine:     "Your score is %d after %d moves.",
	StringHintCost:      "A hint will cost you %d points.",
	StringNoItems:       "You are not carrying anything.",
	StringVisitedHeader: "You have visited:",
}

// Renderer turns engine replies into terminal text.
type Renderer struct {
	strings *content.Store
	width   int
	color   bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStrings supplies the narrative strings store.
func WithStrings(s *content.Store) RendererOption {
	return func(r *Renderer) { r.strings = s }
}

// WithWidth sets the wrap column; 0 disables wrapping.
func WithWidth(width int) RendererOption {
	return func(r *Renderer) { r.width = width }
}

// WithColor enables ANSI colors for headings and lists.
func WithColor(enabled bool) RendererOption {
	return func(r *Renderer) { r.color = enabled }
}

// NewRenderer returns a Renderer. Without options it wraps at 80 columns,
// uses no color and the built-in wording.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{width: 80}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Banner renders the opening screen: the welcome banner, the prologue and the
// start location.
func (r *Renderer) Banner(g *engine.Game) string {
	var parts []string
	if banner := r.text(g, StringWelcomeBanner); banner != "" {
		parts = append(parts, r.paint(BrightYellow, strings.TrimSpace(banner)))
	}
	parts = append(parts, r.wrap(g.Macros().Substitute(g.Prologue)))
	parts = append(parts, r.wrap(g.Macros().Substitute(g.CurrentLocation().Describe())))
	return strings.Join(parts, "\n\n")
}

// Render formats reply for display. Override states are answered from the
// game's getters rather than the reply text.
func (r *Renderer) Render(g *engine.Game, reply engine.Reply) string {
	switch reply.State {
	case engine.StatePlaying:
		return r.wrap(reply.Text)
	case engine.StateClearScreen:
		return ClearScreen
	case engine.StateExit:
		return r.text(g, StringGoodbye)
	case engine.StateScore:
		return r.text(g, StringScoreLine, g.Score(), g.NumberOfMoves())
	case engine.StateInventory:
		names := g.Inventory().Names()
		if len(names) == 0 {
			return r.text(g, StringNoItems)
		}
		return r.list("You are carrying:", names)
	case engine.StateHelp:
		help := r.wrap(g.Macros().Substitute(g.HelpText))
		if g.HintsEnabled {
			help += "\n" + r.text(g, StringHintCost, g.HintCost())
		}
		return help
	case engine.StateVisited:
		return r.list(r.text(g, StringVisitedHeader), g.VisitedNames())
	default:
		return reply.Text
	}
}

// text retrieves id from the renderer's strings, the game's content store or
// the fallback, applies args as fmt verbs when given, then expands macros.
// Formatting runs first so a "%" inside a macro value is kept literally.
func (r *Renderer) text(g *engine.Game, id string, args ...any) string {
	var s string
	if r.strings != nil {
		s = r.strings.Retrieve(id)
	} else {
		s = g.Content().Retrieve(id)
	}
	if s == "" {
		s = fallbackStrings[id]
	}
	if len(args) > 0 {
		s = fmt.Sprintf(s, args...)
	}
	return strings.TrimSpace(g.Macros().Substitute(s))
}

func (r *Renderer) list(header string, items []string) string {
	var b strings.Builder
	b.WriteString(r.paint(Cyan, header))
	for _, item := range items {
		b.WriteString("\n  ")
		b.WriteString(r.paint(BrightCyan, item))
	}
	return b.String()
}

func (r *Renderer) paint(color, text string) string {
	if !r.color {
		return text
	}
	return Colorize(color, text)
}

// wrap word-wraps text at the configured width and trims the padding lipgloss
// adds to short lines.
func (r *Renderer) wrap(text string) string {
	if r.width <= 0 || text == "" {
		return text
	}
	rendered := lipgloss.NewStyle().Width(r.width).Render(text)
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
