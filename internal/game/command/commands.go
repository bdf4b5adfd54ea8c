// Package command provides the verb registry, the natural language parser, and
// the command queue used for save and replay.
package command

// Verb is the closed set of actions the parser can recognize.
type Verb int

// Recognized verbs. Unknown is the zero value so an unparsed Command is never
// mistaken for a real action.
const (
	Unknown Verb = iota
	Go
	Look
	Take
	Drop
	Use
	Give
	Talk
	Open
	Read
)

var verbNames = map[Verb]string{
	Unknown: "unknown",
	Go:      "go",
	Look:    "look",
	Take:    "take",
	Drop:    "drop",
	Use:     "use",
	Give:    "give",
	Talk:    "talk",
	Open:    "open",
	Read:    "read",
}

// String returns the canonical lowercase name of the verb.
func (v Verb) String() string {
	if name, ok := verbNames[v]; ok {
		return name
	}
	return "unknown"
}

// ParseVerb returns the Verb whose canonical name is name.
//
// Postcondition: Returns (Unknown, false) for unrecognized names.
func ParseVerb(name string) (Verb, bool) {
	for v, n := range verbNames {
		if n == name && v != Unknown {
			return v, true
		}
	}
	return Unknown, false
}

// VerbDef defines the phrases a player may type for one verb.
type VerbDef struct {
	// Verb is the action this definition produces.
	Verb Verb
	// Phrase is the canonical phrase for the verb.
	Phrase string
	// Aliases are alternate phrases, possibly several words long ("pick up").
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
}

// BuiltinVerbs returns the verb phrases understood by every game.
func BuiltinVerbs() []VerbDef {
	return []VerbDef{
		{Verb: Go, Phrase: "go", Aliases: []string{"walk", "run", "head", "move", "travel", "climb", "go to"}, Help: "Move in a direction (go north)"},
		{Verb: Look, Phrase: "look", Aliases: []string{"l", "look at", "examine", "x", "inspect", "check", "search"}, Help: "Look around, or at something (look at mat)"},
		{Verb: Take, Phrase: "take", Aliases: []string{"get", "grab", "pick", "pick up", "collect"}, Help: "Pick something up (take key)"},
		{Verb: Drop, Phrase: "drop", Aliases: []string{"put down", "discard", "throw away"}, Help: "Put something down (drop key)"},
		{Verb: Use, Phrase: "use", Aliases: []string{"unlock", "turn", "flip", "press", "push", "switch", "apply"}, Help: "Use something, optionally on something else (use key on door)"},
		{Verb: Give, Phrase: "give", Aliases: []string{"hand", "offer"}, Help: "Give something to someone (give coin to guard)"},
		{Verb: Talk, Phrase: "talk", Aliases: []string{"talk to", "speak", "speak to", "chat", "ask"}, Help: "Talk to someone (talk to guard)"},
		{Verb: Open, Phrase: "open", Help: "Open something (open door)"},
		{Verb: Read, Phrase: "read", Help: "Read something (read note)"},
	}
}

// directionAliases maps every accepted direction word onto its canonical name.
var directionAliases = map[string]string{
	"north": "north", "n": "north",
	"south": "south", "s": "south",
	"east": "east", "e": "east",
	"west": "west", "w": "west",
	"northeast": "northeast", "ne": "northeast",
	"northwest": "northwest", "nw": "northwest",
	"southeast": "southeast", "se": "southeast",
	"southwest": "southwest", "sw": "southwest",
	"up": "up", "u": "up",
	"down": "down", "d": "down",
}

// CanonicalDirection returns the canonical direction name for word.
//
// Postcondition: Returns ("", false) if word is not a direction.
func CanonicalDirection(word string) (string, bool) {
	d, ok := directionAliases[word]
	return d, ok
}

// IsMovementCommand reports whether word is a bare direction the player may
// type on its own to move.
func IsMovementCommand(word string) bool {
	_, ok := directionAliases[word]
	return ok
}
