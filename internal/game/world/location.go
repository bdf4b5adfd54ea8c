package world

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/textreality/internal/game/command"
	"github.com/cory-johannsen/textreality/internal/game/npc"
)

// Replies produced by the default command handler.
const (
	MsgLocked         = "The door is locked."
	MsgNoExit         = "You can't go that way."
	MsgGoWhere        = "Go where?"
	MsgNotUnderstood  = "I don't understand that."
	MsgRude           = "There is no need to be rude."
	MsgNothingSpecial = "You see nothing special."
	MsgTakeWhat       = "Take what?"
	MsgNotHere        = "You can't see that here."
	MsgDropWhat       = "Drop what?"
	MsgNotCarried     = "You are not carrying that."
	MsgUseWhat        = "Use what?"
	MsgNoFit          = "That doesn't unlock anything here."
	MsgNothingLocked  = "There is nothing locked here."
	MsgNobodyToTalk   = "There is nobody here to talk to."
	MsgNobodyWants    = "Nobody here wants that."
	MsgNothingToRead  = "There is nothing here to read."
	MsgGiveWhat       = "Give what?"
)

// Actor is the session state a location acts on while handling a command:
// the player's belongings, position and score.
type Actor interface {
	// Inventory returns the items the player carries.
	Inventory() *Inventory
	// CurrentLocation returns where the player is.
	CurrentLocation() *Location
	// MoveTo places the player in l.
	MoveTo(l *Location)
	// IncreaseScore adds points to the player's score.
	IncreaseScore(points int)
	// IncrementMoves counts one game-affecting move.
	IncrementMoves()
	// RetrieveText returns the content string with the given identifier, or "".
	RetrieveText(id string) string
}

// Intercept inspects a command before the default handler sees it. Returning
// handled=false passes the command on to the next intercept, and finally to
// the default handler.
type Intercept func(a Actor, l *Location, cmd command.Command) (reply string, handled bool)

// Location is a node in the world graph.
type Location struct {
	// ID uniquely identifies the location within a World.
	ID string
	// Name is the short display name.
	Name string
	// Description is shown when the lights are on.
	Description string
	// LightsOffDescription is shown instead of Description when LightsOn is false.
	LightsOffDescription string
	// LightsOn selects which description is rendered.
	LightsOn bool

	exits      *ExitTable
	items      *Inventory
	flags      map[string]bool
	characters []*npc.Character
	intercepts []Intercept
}

// NewLocation creates a lit Location with no exits. The ID is derived from name.
//
// Precondition: name and description must be non-empty.
// Postcondition: Returns a Location or an error wrapping ErrInvalidArgument.
func NewLocation(name, description string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("location name must not be empty: %w", ErrInvalidArgument)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("location %q: description must not be empty: %w", name, ErrInvalidArgument)
	}
	return &Location{
		ID:          IDFromName(name),
		Name:        name,
		Description: description,
		LightsOn:    true,
		exits:       NewExitTable(),
		items:       NewInventory(),
		flags:       make(map[string]bool),
	}, nil
}

// IDFromName derives a location ID: lowercase with spaces replaced by underscores.
func IDFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Exits returns the location's exit table.
func (l *Location) Exits() *ExitTable {
	return l.exits
}

// Items returns the items lying in the location.
func (l *Location) Items() *Inventory {
	return l.items
}

// AddExit maps dir to dest from this location.
//
// Precondition: dest must be non-nil.
// Postcondition: Returns an error wrapping ErrExitExists if dir is already mapped.
func (l *Location) AddExit(dir Direction, dest *Location, opts ...ExitOption) error {
	if _, err := l.exits.Add(dir, dest, opts...); err != nil {
		return fmt.Errorf("location %q: %w", l.ID, err)
	}
	return nil
}

// Connect adds an exit from a to b in dir and, when dir is standard and b has
// no exit in the opposite direction, the reciprocal exit from b back to a. Both
// exits share the same door.
//
// Precondition: a and b must be non-nil.
// Postcondition: Returns an error wrapping ErrExitExists if a already maps dir.
func Connect(a *Location, dir Direction, b *Location, opts ...ExitOption) error {
	if a == nil || b == nil {
		return fmt.Errorf("connect %q: locations must not be nil: %w", dir, ErrInvalidArgument)
	}
	forward, err := a.exits.Add(dir, b, opts...)
	if err != nil {
		return fmt.Errorf("location %q: %w", a.ID, err)
	}
	back := dir.Opposite()
	if back == "" {
		return nil
	}
	if _, exists := b.exits.Get(back); exists {
		return nil
	}
	_, err = b.exits.Add(back, a, WithDoor(forward.Door))
	return err
}

// SetDoorLock locks or unlocks the door on the exit in dir.
//
// Precondition: an exit must exist in dir.
// Postcondition: The exit (and any reciprocal exit sharing its door) reports
// Locked() == locked. An open passage gains a door when it is first locked.
func (l *Location) SetDoorLock(locked bool, dir Direction) error {
	e, ok := l.exits.Get(dir)
	if !ok {
		return fmt.Errorf("location %q: no exit %q", l.ID, dir)
	}
	if e.Door == nil {
		if !locked {
			return nil
		}
		e.Door = &Door{}
		if back, ok := e.Destination.exits.Get(dir.Opposite()); ok && back.Destination == l && back.Door == nil {
			back.Door = e.Door
		}
	}
	e.Door.Locked = locked
	return nil
}

// Describe returns the description matching the current light state.
func (l *Location) Describe() string {
	if !l.LightsOn && l.LightsOffDescription != "" {
		return l.LightsOffDescription
	}
	return l.Description
}

// ToggleLights flips the light state and returns the new value.
func (l *Location) ToggleLights() bool {
	l.LightsOn = !l.LightsOn
	return l.LightsOn
}

// AddCharacter places c in the location.
//
// Precondition: c must be non-nil.
// Postcondition: Returns an error if a character with the same ID is already here.
func (l *Location) AddCharacter(c *npc.Character) error {
	if c == nil {
		return fmt.Errorf("location %q: character must not be nil: %w", l.ID, ErrInvalidArgument)
	}
	for _, present := range l.characters {
		if present.ID == c.ID {
			return fmt.Errorf("location %q: character %q already present", l.ID, c.ID)
		}
	}
	l.characters = append(l.characters, c)
	return nil
}

// RemoveCharacter takes the character with the given ID out of the location.
func (l *Location) RemoveCharacter(id string) (*npc.Character, bool) {
	for i, c := range l.characters {
		if c.ID == id {
			l.characters = append(l.characters[:i], l.characters[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// Characters returns the characters present, in arrival order.
func (l *Location) Characters() []*npc.Character {
	out := make([]*npc.Character, len(l.characters))
	copy(out, l.characters)
	return out
}

// Character finds a present character by name or ID.
func (l *Location) Character(name string) (*npc.Character, bool) {
	for _, c := range l.characters {
		if c.Matches(name) {
			return c, true
		}
	}
	return nil, false
}

// Flag returns a named boolean set by location scripts or intercepts.
func (l *Location) Flag(name string) bool {
	return l.flags[name]
}

// SetFlag stores a named boolean on the location.
func (l *Location) SetFlag(name string, value bool) {
	l.flags[name] = value
}

// Intercept appends fn to the location's intercept chain. Intercepts run in
// the order they were added.
func (l *Location) Intercept(fn Intercept) {
	if fn != nil {
		l.intercepts = append(l.intercepts, fn)
	}
}

// ProcessCommand runs cmd through the intercept chain and falls back to the
// default handler when no intercept handles it.
//
// Precondition: a must be non-nil.
// Postcondition: Always returns a reply; player-facing failures are replies, not errors.
func (l *Location) ProcessCommand(a Actor, cmd command.Command) string {
	for _, fn := range l.intercepts {
		if reply, handled := fn(a, l, cmd); handled {
			return reply
		}
	}
	return l.Default(a, cmd)
}

// Default is the generic handler shared by every location.
func (l *Location) Default(a Actor, cmd command.Command) string {
	if cmd.ProfanityDetected {
		return MsgRude
	}
	switch cmd.Verb {
	case command.Go:
		return l.goDirection(a, cmd)
	case command.Look:
		return l.look(a, cmd)
	case command.Take:
		return l.take(a, cmd)
	case command.Drop:
		return l.drop(a, cmd)
	case command.Use:
		return l.use(a, cmd)
	case command.Open:
		return l.open(a, cmd)
	case command.Talk:
		return l.talk(cmd)
	case command.Give:
		return l.give(a, cmd)
	case command.Read:
		return MsgNothingToRead
	default:
		return MsgNotUnderstood
	}
}

func (l *Location) goDirection(a Actor, cmd command.Command) string {
	if cmd.Noun == "" && cmd.RawNoun == "" {
		return MsgGoWhere
	}
	e, ok := l.exits.Get(Direction(cmd.Noun))
	if !ok {
		return MsgNoExit
	}
	if e.Locked() {
		return MsgLocked
	}
	a.MoveTo(e.Destination)
	return e.Destination.Describe()
}

func (l *Location) look(a Actor, cmd command.Command) string {
	if cmd.Noun == "" && cmd.RawNoun == "" {
		return l.Describe()
	}
	if cmd.Noun == strings.ToLower(l.Name) || cmd.Noun == l.ID {
		return l.Describe()
	}
	for _, name := range []string{cmd.Noun, cmd.RawNoun} {
		if name == "" {
			continue
		}
		if c, ok := l.Character(name); ok && c.Description != "" {
			return c.Description
		}
		if item, ok := l.items.Get(name); ok && item.Description != "" {
			return item.Description
		}
		if item, ok := a.Inventory().Get(name); ok && item.Description != "" {
			return item.Description
		}
	}
	return MsgNothingSpecial
}

func (l *Location) take(a Actor, cmd command.Command) string {
	name := objectName(cmd)
	if name == "" {
		return MsgTakeWhat
	}
	if a.Inventory().Has(name) {
		return fmt.Sprintf("You already have the %s.", name)
	}
	item, ok := l.items.Remove(name)
	if !ok {
		return MsgNotHere
	}
	if err := a.Inventory().Add(item); err != nil {
		_ = l.items.Add(item)
		return MsgNotHere
	}
	if item.PickUpMessage != "" {
		return item.PickUpMessage
	}
	return fmt.Sprintf("You take the %s.", item.Name)
}

func (l *Location) drop(a Actor, cmd command.Command) string {
	name := objectName(cmd)
	if name == "" {
		return MsgDropWhat
	}
	item, ok := a.Inventory().Remove(name)
	if !ok {
		return MsgNotCarried
	}
	_ = l.items.Add(item)
	return fmt.Sprintf("You drop the %s.", item.Name)
}

// use applies the unlock rule: the carried object opens every locked door here
// that names it, optionally restricted to the direction given as second noun.
func (l *Location) use(a Actor, cmd command.Command) string {
	name := objectName(cmd)
	if name == "" {
		return MsgUseWhat
	}
	if !a.Inventory().Has(name) {
		return fmt.Sprintf("You do not have a %s.", name)
	}
	return l.unlockWith(name, Direction(cmd.Noun2))
}

// open unlocks a door with the object named after "with", or with any carried
// object that fits.
func (l *Location) open(a Actor, cmd command.Command) string {
	locked := l.exits.LockedExits()
	if len(locked) == 0 {
		return MsgNothingLocked
	}
	if cmd.Noun2 != "" {
		if !a.Inventory().Has(cmd.Noun2) {
			return fmt.Sprintf("You do not have a %s.", cmd.Noun2)
		}
		return l.unlockWith(cmd.Noun2, "")
	}
	for _, e := range locked {
		if e.Door.UnlockObject != "" && a.Inventory().Has(e.Door.UnlockObject) {
			return l.unlockWith(e.Door.UnlockObject, e.Direction)
		}
	}
	return MsgLocked
}

func (l *Location) unlockWith(object string, only Direction) string {
	var opened []*Exit
	for _, e := range l.exits.LockedExits() {
		if only != "" && only.IsStandard() && e.Direction != only {
			continue
		}
		if e.Door.UnlockObject == object {
			e.Door.Locked = false
			opened = append(opened, e)
		}
	}
	if len(opened) == 0 {
		return MsgNoFit
	}
	if msg := opened[0].Door.UnlockMessage; msg != "" {
		return msg
	}
	return fmt.Sprintf("You unlock the door to the %s.", opened[0].Direction)
}

// addressee picks the character named by noun or raw, or the only character
// present when neither is given.
func (l *Location) addressee(noun, raw string) (*npc.Character, bool) {
	if noun == "" && raw == "" {
		if len(l.characters) == 1 {
			return l.characters[0], true
		}
		return nil, false
	}
	for _, name := range []string{noun, raw} {
		if c, ok := l.Character(name); ok {
			return c, true
		}
	}
	return nil, false
}

func (l *Location) talk(cmd command.Command) string {
	c, ok := l.addressee(cmd.Noun, cmd.RawNoun)
	if !ok {
		return MsgNobodyToTalk
	}
	if c.Busy {
		return c.BusyMessage()
	}
	if c.Greeting != "" {
		return c.Greeting
	}
	return fmt.Sprintf("%s has nothing to say.", c.Name)
}

// give hands a carried item to a character, who keeps it only if it is the
// item they want.
func (l *Location) give(a Actor, cmd command.Command) string {
	if len(l.characters) == 0 {
		return MsgNobodyWants
	}
	name := objectName(cmd)
	if name == "" {
		return MsgGiveWhat
	}
	if !a.Inventory().Has(name) {
		return MsgNotCarried
	}
	c, ok := l.addressee(cmd.Noun2, cmd.RawNoun2)
	if !ok {
		return MsgNobodyWants
	}
	if c.Busy {
		return c.BusyMessage()
	}
	item, _ := a.Inventory().Get(name)
	if c.Wants == "" || c.Wants != item.Key() {
		return fmt.Sprintf("%s doesn't want the %s.", c.Name, item.Name)
	}
	a.Inventory().Remove(name)
	c.Wants = ""
	if c.Points > 0 {
		a.IncreaseScore(c.Points)
	}
	if c.Thanks != "" {
		return c.Thanks
	}
	return fmt.Sprintf("%s takes the %s.", c.Name, item.Name)
}

func objectName(cmd command.Command) string {
	if cmd.Noun != "" {
		return cmd.Noun
	}
	return cmd.RawNoun
}
