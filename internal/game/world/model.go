// Package world provides the game world model: locations, exits, doors,
// directions, items and the YAML world loader.
package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidArgument is returned when world construction receives a missing
// or empty required value.
var ErrInvalidArgument = errors.New("invalid argument")

// Direction represents a compass direction or named exit.
type Direction string

// Standard compass directions and vertical movements.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
	Up, Down,
}

var opposites = map[Direction]Direction{
	North: South, South: North,
	East: West, West: East,
	Northeast: Southwest, Southwest: Northeast,
	Northwest: Southeast, Southeast: Northwest,
	Up: Down, Down: Up,
}

// IsStandard reports whether d is one of the ten standard directions.
func (d Direction) IsStandard() bool {
	_, ok := opposites[d]
	return ok
}

// Opposite returns the opposite of a standard direction.
// For custom directions ("stairs", "portal") it returns an empty string.
func (d Direction) Opposite() Direction {
	return opposites[d]
}

// Item is an object that can lie in a location or be carried by the player.
type Item struct {
	// Name is the display name; its lowercase form is the inventory key.
	Name string
	// Description is shown when the player looks at the item.
	Description string
	// PickUpMessage is shown when the item is taken. Empty uses a generic message.
	PickUpMessage string
}

// NewItem creates an Item.
//
// Precondition: name must be non-empty.
// Postcondition: Returns an Item or an error wrapping ErrInvalidArgument.
func NewItem(name, description, pickUpMessage string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name must not be empty: %w", ErrInvalidArgument)
	}
	return &Item{Name: name, Description: description, PickUpMessage: pickUpMessage}, nil
}

// Key returns the case-insensitive lookup key for the item.
func (i *Item) Key() string {
	return itemKey(i.Name)
}

// Inventory is an insertion-ordered set of items keyed case-insensitively by name.
// The player's belongings and the items lying in a location both use it.
type Inventory struct {
	items map[string]*Item
	order []string
}

// NewInventory creates an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]*Item)}
}

// Add puts item into the inventory.
//
// Precondition: item must be non-nil.
// Postcondition: Returns an error if an item with the same name is already held.
func (inv *Inventory) Add(item *Item) error {
	if item == nil {
		return fmt.Errorf("item must not be nil: %w", ErrInvalidArgument)
	}
	key := item.Key()
	if _, exists := inv.items[key]; exists {
		return fmt.Errorf("item %q already held", item.Name)
	}
	inv.items[key] = item
	inv.order = append(inv.order, key)
	return nil
}

// Remove takes the named item out of the inventory.
//
// Postcondition: Returns (item, true) if it was held, or (nil, false).
func (inv *Inventory) Remove(name string) (*Item, bool) {
	key := itemKey(name)
	item, ok := inv.items[key]
	if !ok {
		return nil, false
	}
	delete(inv.items, key)
	for i, k := range inv.order {
		if k == key {
			inv.order = append(inv.order[:i], inv.order[i+1:]...)
			break
		}
	}
	return item, true
}

// Get returns the named item without removing it.
func (inv *Inventory) Get(name string) (*Item, bool) {
	item, ok := inv.items[itemKey(name)]
	return item, ok
}

// Has reports whether the named item is held.
func (inv *Inventory) Has(name string) bool {
	_, ok := inv.items[itemKey(name)]
	return ok
}

// Count returns the number of items held.
func (inv *Inventory) Count() int {
	return len(inv.items)
}

// Items returns the held items in the order they were added.
func (inv *Inventory) Items() []*Item {
	out := make([]*Item, 0, len(inv.order))
	for _, k := range inv.order {
		out = append(out, inv.items[k])
	}
	return out
}

// Names returns the display names of held items, sorted.
func (inv *Inventory) Names() []string {
	out := make([]string, 0, len(inv.items))
	for _, item := range inv.items {
		out = append(out, item.Name)
	}
	sort.Strings(out)
	return out
}

func itemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
