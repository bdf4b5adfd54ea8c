package world

import (
	"errors"
	"fmt"
)

// ErrExitExists is returned when a direction is already mapped at a location.
var ErrExitExists = errors.New("exit already exists")

// Door holds the lock state of a passage. Two reciprocal exits share one Door,
// so unlocking it from either side opens both.
type Door struct {
	// Locked blocks traversal while true.
	Locked bool
	// UnlockObject is the canonical noun of the item that unlocks the door.
	UnlockObject string
	// UnlockMessage replaces the generic confirmation when the door is unlocked.
	UnlockMessage string
}

// Exit represents a directed passage from one location to another.
type Exit struct {
	// Direction is the compass direction or named exit (e.g., "stairs").
	Direction Direction
	// Destination is the location the exit leads to.
	Destination *Location
	// Door is the optional lock shared with the reciprocal exit; nil means always open.
	Door *Door
	// Hidden exits are not listed to the player.
	Hidden bool
}

// Locked reports whether the exit currently blocks traversal.
func (e *Exit) Locked() bool {
	return e.Door != nil && e.Door.Locked
}

// ExitOption configures an Exit as it is added.
type ExitOption func(*Exit)

// Locked places a locked door on the exit that opens with unlockObject.
func Locked(unlockObject string) ExitOption {
	return func(e *Exit) {
		e.Door = &Door{Locked: true, UnlockObject: unlockObject}
	}
}

// WithDoor places an existing door on the exit.
func WithDoor(d *Door) ExitOption {
	return func(e *Exit) { e.Door = d }
}

// Hidden keeps the exit out of listings.
func Hidden() ExitOption {
	return func(e *Exit) { e.Hidden = true }
}

// ExitTable maps directions to exits for one location. At most one exit may
// exist per direction.
type ExitTable struct {
	exits map[Direction]*Exit
	order []Direction
}

// NewExitTable creates an empty ExitTable.
func NewExitTable() *ExitTable {
	return &ExitTable{exits: make(map[Direction]*Exit)}
}

// Add maps dir to dest.
//
// Precondition: dir must be non-empty and dest non-nil.
// Postcondition: Returns the new Exit, or an error wrapping ErrExitExists if dir
// is already mapped (the existing exit is left untouched).
func (t *ExitTable) Add(dir Direction, dest *Location, opts ...ExitOption) (*Exit, error) {
	if dir == "" {
		return nil, fmt.Errorf("exit direction must not be empty: %w", ErrInvalidArgument)
	}
	if dest == nil {
		return nil, fmt.Errorf("exit %q destination must not be nil: %w", dir, ErrInvalidArgument)
	}
	if _, exists := t.exits[dir]; exists {
		return nil, fmt.Errorf("direction %q: %w", dir, ErrExitExists)
	}
	e := &Exit{Direction: dir, Destination: dest}
	for _, opt := range opts {
		opt(e)
	}
	t.exits[dir] = e
	t.order = append(t.order, dir)
	return e, nil
}

// Get returns the exit in the given direction, if one exists.
//
// Postcondition: Returns (exit, true) if found, or (nil, false) otherwise.
func (t *ExitTable) Get(dir Direction) (*Exit, bool) {
	e, ok := t.exits[dir]
	return e, ok
}

// All returns every exit in the order added.
func (t *ExitTable) All() []*Exit {
	out := make([]*Exit, 0, len(t.order))
	for _, d := range t.order {
		out = append(out, t.exits[d])
	}
	return out
}

// Visible returns all non-hidden exits in the order added.
func (t *ExitTable) Visible() []*Exit {
	var out []*Exit
	for _, d := range t.order {
		if e := t.exits[d]; !e.Hidden {
			out = append(out, e)
		}
	}
	return out
}

// LockedExits returns all currently locked exits in the order added.
func (t *ExitTable) LockedExits() []*Exit {
	var out []*Exit
	for _, d := range t.order {
		if e := t.exits[d]; e.Locked() {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of exits.
func (t *ExitTable) Len() int {
	return len(t.exits)
}
