package command

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps verb phrases and aliases to verb definitions.
type Registry struct {
	verbs    map[string]*VerbDef // canonical phrase → definition
	aliases  map[string]string   // alias phrase → canonical phrase
	maxWords int
}

// NewRegistry creates a Registry populated with the given verb definitions.
//
// Precondition: No two definitions may share a phrase or alias.
// Postcondition: Returns a Registry or an error on phrase/alias collisions.
func NewRegistry(defs []VerbDef) (*Registry, error) {
	r := &Registry{
		verbs:   make(map[string]*VerbDef, len(defs)),
		aliases: make(map[string]string),
	}

	for i := range defs {
		def := &defs[i]
		phrase := normalizePhrase(def.Phrase)
		if phrase == "" {
			return nil, fmt.Errorf("verb %s has an empty phrase", def.Verb)
		}
		if def.Verb == Unknown {
			return nil, fmt.Errorf("phrase %q cannot map to the unknown verb", phrase)
		}
		if _, exists := r.verbs[phrase]; exists {
			return nil, fmt.Errorf("duplicate verb phrase: %q", phrase)
		}
		if _, exists := r.aliases[phrase]; exists {
			return nil, fmt.Errorf("verb phrase %q conflicts with an existing alias", phrase)
		}
		r.verbs[phrase] = def
		r.track(phrase)

		for _, alias := range def.Aliases {
			alias = normalizePhrase(alias)
			if _, exists := r.verbs[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with verb phrase %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, phrase)
			}
			r.aliases[alias] = phrase
			r.track(alias)
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in verbs.
//
// Postcondition: Returns a Registry with all built-in verbs registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinVerbs())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a verb definition by phrase or alias.
//
// Postcondition: Returns (definition, true) if found, or (nil, false).
func (r *Registry) Resolve(phrase string) (*VerbDef, bool) {
	phrase = normalizePhrase(phrase)
	if def, ok := r.verbs[phrase]; ok {
		return def, true
	}
	if canonical, ok := r.aliases[phrase]; ok {
		return r.verbs[canonical], true
	}
	return nil, false
}

// Match finds the longest verb phrase at the start of words.
//
// Precondition: words must already be lowercased.
// Postcondition: Returns the matched verb and the number of words consumed,
// or (Unknown, 0) when no phrase matches.
func (r *Registry) Match(words []string) (Verb, int) {
	n := r.maxWords
	if len(words) < n {
		n = len(words)
	}
	for ; n > 0; n-- {
		if def, ok := r.Resolve(strings.Join(words[:n], " ")); ok {
			return def.Verb, n
		}
	}
	return Unknown, 0
}

// Verbs returns all registered definitions ordered by verb.
func (r *Registry) Verbs() []*VerbDef {
	result := make([]*VerbDef, 0, len(r.verbs))
	for _, def := range r.verbs {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Verb < result[j].Verb })
	return result
}

func (r *Registry) track(phrase string) {
	if n := len(strings.Fields(phrase)); n > r.maxWords {
		r.maxWords = n
	}
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
