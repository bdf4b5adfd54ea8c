// Package synonym maps the words a player may type onto canonical noun tokens.
package synonym

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateKey is returned when a surface form is already bound to a
// different canonical token.
var ErrDuplicateKey = errors.New("surface form already registered")

// Table maps lowercase surface forms to canonical tokens.
//
// A Table is owned by a single game session and is not safe for concurrent use.
type Table struct {
	entries map[string]string // surface form → canonical token
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]string)}
}

// Add registers surface as an alternate form of canonical.
//
// Precondition: surface and canonical must be non-empty after trimming.
// Postcondition: Resolve(surface) returns canonical. Returns ErrDuplicateKey if
// surface is already bound to a different token; re-adding the same binding is a no-op.
func (t *Table) Add(surface, canonical string) error {
	key := normalize(surface)
	value := normalize(canonical)
	if key == "" {
		return fmt.Errorf("synonym: surface form must not be empty")
	}
	if value == "" {
		return fmt.Errorf("synonym: canonical token for %q must not be empty", key)
	}
	if existing, ok := t.entries[key]; ok {
		if existing == value {
			return nil
		}
		return fmt.Errorf("synonym %q -> %q (already %q): %w", key, value, existing, ErrDuplicateKey)
	}
	t.entries[key] = value
	return nil
}

// MustAdd calls Add and panics on error. Intended for world construction code
// where a conflict is an authoring bug.
func (t *Table) MustAdd(surface, canonical string) {
	if err := t.Add(surface, canonical); err != nil {
		panic(err)
	}
}

// Resolve returns the canonical token for surface.
//
// Postcondition: Returns (token, true) if surface is registered (case-insensitive),
// or ("", false) otherwise.
func (t *Table) Resolve(surface string) (string, bool) {
	v, ok := t.entries[normalize(surface)]
	return v, ok
}

// Len returns the number of registered surface forms.
func (t *Table) Len() int {
	return len(t.entries)
}

// Canonicals returns the distinct canonical tokens in sorted order.
func (t *Table) Canonicals() []string {
	seen := make(map[string]bool, len(t.entries))
	out := make([]string, 0, len(t.entries))
	for _, v := range t.entries {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
