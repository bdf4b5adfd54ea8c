package npc

import (
	"errors"
	"fmt"
)

// ErrDuplicateCharacter is returned when a character ID is registered twice.
var ErrDuplicateCharacter = errors.New("character already registered")

// Registry indexes the characters of one world by ID.
//
// A Registry is owned by a single session and is not safe for concurrent use.
type Registry struct {
	byID  map[string]*Character
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Character)}
}

// Add registers c.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: Returns an error wrapping ErrDuplicateCharacter if the ID is taken.
func (r *Registry) Add(c *Character) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("character must be non-nil with an ID: %w", ErrInvalidArgument)
	}
	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("character %q: %w", c.ID, ErrDuplicateCharacter)
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return nil
}

// Get returns the character with the given ID.
func (r *Registry) Get(id string) (*Character, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns the characters in registration order.
func (r *Registry) All() []*Character {
	out := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered characters.
func (r *Registry) Len() int {
	return len(r.byID)
}
