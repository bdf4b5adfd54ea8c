package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/textreality/internal/game/npc"
)

// World is the arena of locations for one game session, indexed by ID for O(1)
// lookup.
//
// A World is owned by a single session and is not safe for concurrent use.
type World struct {
	locations  map[string]*Location
	order      []string
	start      string
	characters *npc.Registry
}

// NewWorld creates a World from the given locations. The first location is the
// start location unless SetStart is called.
//
// Postcondition: Returns a World with all locations indexed by ID, or an error on
// duplicate IDs.
func NewWorld(locations ...*Location) (*World, error) {
	w := &World{
		locations:  make(map[string]*Location, len(locations)),
		characters: npc.NewRegistry(),
	}
	for _, l := range locations {
		if err := w.Add(l); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Add indexes l.
//
// Precondition: l must be non-nil with a non-empty ID.
// Postcondition: Returns an error if the ID is already present.
func (w *World) Add(l *Location) error {
	if l == nil || l.ID == "" {
		return fmt.Errorf("location must be non-nil with an ID: %w", ErrInvalidArgument)
	}
	if _, exists := w.locations[l.ID]; exists {
		return fmt.Errorf("duplicate location ID %q", l.ID)
	}
	w.locations[l.ID] = l
	w.order = append(w.order, l.ID)
	if w.start == "" {
		w.start = l.ID
	}
	return nil
}

// Location returns the location with the given ID.
//
// Postcondition: Returns (location, true) if found, or (nil, false) otherwise.
func (w *World) Location(id string) (*Location, bool) {
	l, ok := w.locations[id]
	return l, ok
}

// SetStart selects the start location.
//
// Precondition: id must name a known location.
func (w *World) SetStart(id string) error {
	if _, ok := w.locations[id]; !ok {
		return fmt.Errorf("start location %q not found", id)
	}
	w.start = id
	return nil
}

// Start returns the start location, or nil if the world is empty.
func (w *World) Start() *Location {
	if w.start == "" {
		return nil
	}
	return w.locations[w.start]
}

// Locations returns all locations in the order they were added.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (w *World) Locations() []*Location {
	out := make([]*Location, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.locations[id])
	}
	return out
}

// Characters returns the registry of every character in the world.
func (w *World) Characters() *npc.Registry {
	return w.characters
}

// Place registers c and puts it in the location with the given ID.
//
// Postcondition: Returns an error if the location is unknown or the character
// ID is already registered.
func (w *World) Place(c *npc.Character, locationID string) error {
	if c == nil {
		return fmt.Errorf("character must not be nil: %w", ErrInvalidArgument)
	}
	l, ok := w.locations[locationID]
	if !ok {
		return fmt.Errorf("character %q: location %q not found", c.ID, locationID)
	}
	if err := w.characters.Add(c); err != nil {
		return err
	}
	return l.AddCharacter(c)
}

// CharacterLocation returns the location currently holding the character.
func (w *World) CharacterLocation(id string) (*Location, bool) {
	for _, lid := range w.order {
		l := w.locations[lid]
		for _, c := range l.characters {
			if c.ID == id {
				return l, true
			}
		}
	}
	return nil, false
}

// Len returns the number of locations.
func (w *World) Len() int {
	return len(w.locations)
}

// Validate checks that the world has a start location and that every exit
// targets a location held by this world.
//
// Postcondition: Returns nil if the graph is closed, or every violation joined.
func (w *World) Validate() error {
	var errs []error
	if w.Start() == nil {
		errs = append(errs, errors.New("world has no start location"))
	}
	ids := make([]string, 0, len(w.locations))
	for id := range w.locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, e := range w.locations[id].Exits().All() {
			if known, ok := w.locations[e.Destination.ID]; !ok || known != e.Destination {
				errs = append(errs, fmt.Errorf("location %q: exit %q targets unknown location %q",
					id, e.Direction, e.Destination.ID))
			}
		}
	}
	return errors.Join(errs...)
}
