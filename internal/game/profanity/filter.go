// Package profanity detects blocklisted words in player input.
package profanity

import (
	"strings"
	"unicode"
)

// minEmbeddedLen is the shortest blocklist entry matched inside a longer word.
const minEmbeddedLen = 4

// defaultBlocklist is the fixed set of words the filter reports.
var defaultBlocklist = []string{
	"arsehole",
	"asshole",
	"bastard",
	"bitch",
	"bollocks",
	"bullshit",
	"cunt",
	"dickhead",
	"fuck",
	"fucker",
	"fucking",
	"motherfucker",
	"piss",
	"shit",
	"shitty",
	"slut",
	"twat",
	"wanker",
	"whore",
}

// Filter reports profanity in words and free text.
type Filter struct {
	words    map[string]bool
	embedded []string
}

// NewFilter creates a Filter over the built-in blocklist.
func NewFilter() *Filter {
	return NewFilterWithWords(defaultBlocklist)
}

// NewFilterWithWords creates a Filter over the given blocklist.
//
// Postcondition: Empty entries are ignored; matching is case-insensitive.
func NewFilterWithWords(words []string) *Filter {
	f := &Filter{words: make(map[string]bool, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || f.words[w] {
			continue
		}
		f.words[w] = true
		if len(w) >= minEmbeddedLen {
			f.embedded = append(f.embedded, w)
		}
	}
	return f
}

// IsProfanity reports whether word exactly matches a blocklist entry.
//
// Postcondition: Returns false for empty input.
func (f *Filter) IsProfanity(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	return f.words[word]
}

// FirstProfanityIn scans text word by word, left to right, and returns the first
// hit. A word that is itself a blocklist entry is returned as typed (lowercased);
// otherwise the first blocklist entry embedded in the word is returned.
//
// Postcondition: Returns "" when text is empty or contains no profanity.
func (f *Filter) FirstProfanityIn(text string) string {
	for _, word := range splitWords(text) {
		if f.words[word] {
			return word
		}
		for _, entry := range f.embedded {
			if strings.Contains(word, entry) {
				return entry
			}
		}
	}
	return ""
}

func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
