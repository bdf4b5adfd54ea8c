// Package macro expands $(name) tokens in narrative text.
package macro

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var tokenPattern = regexp.MustCompile(`\$\(([^()\s]+)\)`)

// Engine holds the macro table for one game session.
//
// An Engine is owned by a single session and is not safe for concurrent use.
type Engine struct {
	macros map[string]string
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report unexpanded cyclic tokens.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an Engine with no macros.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{macros: make(map[string]string), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddMacro registers replacement for name, overwriting any previous value. name
// may be given bare ("first") or as a token ("$(first)").
//
// Precondition: name must be non-empty once unwrapped.
func (e *Engine) AddMacro(name, replacement string) {
	name = normalize(name)
	if name == "" {
		return
	}
	e.macros[name] = replacement
}

// RemoveMacro deletes the macro for name, if present.
func (e *Engine) RemoveMacro(name string) {
	delete(e.macros, normalize(name))
}

// Macro returns the raw replacement registered for name.
func (e *Engine) Macro(name string) (string, bool) {
	r, ok := e.macros[normalize(name)]
	return r, ok
}

// Count returns the number of registered macros.
func (e *Engine) Count() int {
	return len(e.macros)
}

// Names returns the registered macro names, sorted.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.macros))
	for name := range e.macros {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Substitute expands every known token in text, recursively. The spliced
// result is scanned again so a token formed across a replacement boundary is
// expanded too; a macro expanded in an earlier scan is not expanded again.
//
// Postcondition: Always terminates. A token whose name is unknown, or whose
// expansion would re-enter a macro already being expanded, is left verbatim.
func (e *Engine) Substitute(text string) string {
	if !strings.Contains(text, "$(") {
		return text
	}
	spent := make(map[string]bool)
	for {
		active := make(map[string]bool, len(spent))
		for name := range spent {
			active[name] = true
		}
		used := make(map[string]bool)
		out := e.expand(text, active, used)
		fresh := false
		for name := range used {
			if !spent[name] {
				spent[name] = true
				fresh = true
			}
		}
		if out == text || !fresh || !strings.Contains(out, "$(") {
			return out
		}
		text = out
	}
}

func (e *Engine) expand(text string, active, used map[string]bool) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-1]
		replacement, ok := e.macros[name]
		if !ok {
			return token
		}
		if active[name] {
			e.logger.Debug("macro cycle left unexpanded", zap.String("macro", name))
			return token
		}
		used[name] = true
		active[name] = true
		out := e.expand(replacement, active, used)
		delete(active, name)
		return out
	})
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "$(") && strings.HasSuffix(name, ")") {
		name = name[2 : len(name)-1]
	}
	return strings.TrimSpace(name)
}
