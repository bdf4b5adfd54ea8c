package command

import (
	"strings"

	"github.com/cory-johannsen/textreality/internal/game/profanity"
	"github.com/cory-johannsen/textreality/internal/game/synonym"
)

// Command is the structured result of parsing one line of player input.
type Command struct {
	// Verb is the recognized action; Unknown when no verb phrase matched.
	Verb Verb
	// Noun is the canonical token of the first object, or empty.
	Noun string
	// Noun2 is the canonical token of the second object ("use key on door"), or empty.
	Noun2 string
	// Preposition joins the two objects, canonicalized ("onto" becomes "on").
	Preposition string
	// RawNoun holds the words of the first noun phrase as typed, articles removed.
	RawNoun string
	// RawNoun2 holds the words of the second noun phrase as typed, articles removed.
	RawNoun2 string
	// FullTextCommand is the original input line, preserved for replay.
	FullTextCommand string
	// ProfanityDetected is set when the filter found a blocklisted word anywhere in the input.
	ProfanityDetected bool
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "some": true, "my": true,
}

var prepositions = map[string]string{
	"on": "on", "onto": "on", "upon": "on",
	"with": "with", "using": "with",
	"to": "to", "towards": "to",
	"at": "at",
	"in": "in", "into": "in", "inside": "in",
	"under": "under", "beneath": "under", "below": "under",
	"from": "from",
	"behind": "behind",
}

// Parser turns raw player input into Commands.
//
// A Parser is owned by a single game session and is not safe for concurrent use.
type Parser struct {
	verbs  *Registry
	nouns  *synonym.Table
	filter *profanity.Filter
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithRegistry replaces the built-in verb registry.
func WithRegistry(r *Registry) ParserOption {
	return func(p *Parser) { p.verbs = r }
}

// WithNouns uses an existing synonym table for noun resolution.
func WithNouns(t *synonym.Table) ParserOption {
	return func(p *Parser) { p.nouns = t }
}

// WithFilter replaces the built-in profanity filter.
func WithFilter(f *profanity.Filter) ParserOption {
	return func(p *Parser) { p.filter = f }
}

// NewParser creates a Parser with the built-in verbs, an empty noun table and
// the built-in profanity filter, then applies opts.
//
// Postcondition: Returns a Parser whose Nouns() table is non-nil.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.verbs == nil {
		p.verbs = DefaultRegistry()
	}
	if p.nouns == nil {
		p.nouns = synonym.NewTable()
	}
	if p.filter == nil {
		p.filter = profanity.NewFilter()
	}
	return p
}

// Nouns returns the synonym table used to resolve nouns.
func (p *Parser) Nouns() *synonym.Table {
	return p.nouns
}

// Verbs returns the verb registry.
func (p *Parser) Verbs() *Registry {
	return p.verbs
}

// Parse interprets a raw input line.
//
// Supported shapes: "verb", "verb noun", "verb noun preposition noun2". A bare
// direction ("north", "n") is read as "go <direction>".
//
// Postcondition: Never fails. Verb is Unknown when no verb phrase matches;
// Noun and Noun2 are canonical tokens or empty; FullTextCommand == raw.
func (p *Parser) Parse(raw string) Command {
	cmd := Command{
		Verb:              Unknown,
		FullTextCommand:   raw,
		ProfanityDetected: p.filter.FirstProfanityIn(raw) != "",
	}

	words := tokenize(raw)
	if len(words) == 0 {
		return cmd
	}

	if dir, ok := CanonicalDirection(words[0]); ok {
		cmd.Verb = Go
		cmd.Noun = dir
		cmd.RawNoun = words[0]
		return cmd
	}

	// Without a verb every word is a candidate noun.
	verb, consumed := p.verbs.Match(words)
	rest := words
	if consumed > 0 {
		cmd.Verb = verb
		rest = words[consumed:]
	}

	phrase1, prep, phrase2 := splitAtPreposition(stripArticles(rest))
	if len(phrase1) == 0 && len(phrase2) > 0 {
		phrase1, phrase2 = phrase2, nil
	}

	cmd.Preposition = prep
	cmd.RawNoun = strings.Join(phrase1, " ")
	cmd.RawNoun2 = strings.Join(phrase2, " ")
	if cmd.Verb == Go {
		cmd.Noun = p.resolveDirection(phrase1)
	} else {
		cmd.Noun = p.resolveNoun(phrase1)
	}
	cmd.Noun2 = p.resolveNoun(phrase2)
	return cmd
}

// resolveDirection prefers a direction word and falls back to the noun table
// so "go hallway" can still be interpreted by a location.
func (p *Parser) resolveDirection(phrase []string) string {
	for _, w := range phrase {
		if dir, ok := CanonicalDirection(w); ok {
			return dir
		}
	}
	return p.resolveNoun(phrase)
}

// resolveNoun tries the whole phrase, the phrase with spaces removed, then each
// word left to right.
func (p *Parser) resolveNoun(phrase []string) string {
	if len(phrase) == 0 {
		return ""
	}
	if tok, ok := p.nouns.Resolve(strings.Join(phrase, " ")); ok {
		return tok
	}
	if tok, ok := p.nouns.Resolve(strings.Join(phrase, "")); ok {
		return tok
	}
	for _, w := range phrase {
		if tok, ok := p.nouns.Resolve(w); ok {
			return tok
		}
	}
	return ""
}

func tokenize(raw string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

func stripArticles(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			out = append(out, w)
		}
	}
	return out
}

func splitAtPreposition(words []string) (before []string, prep string, after []string) {
	for i, w := range words {
		if canonical, ok := prepositions[w]; ok {
			return words[:i], canonical, words[i+1:]
		}
	}
	return words, "", nil
}
