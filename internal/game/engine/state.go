package engine

import (
	"fmt"
	"strings"
)

// State tells the presentation layer what to do with a Reply.
type State int

const (
	// StatePlaying carries narrative text to display.
	StatePlaying State = iota
	// StateClearScreen asks for the screen to be cleared.
	StateClearScreen
	// StateExit ends the session.
	StateExit
	// StateScore asks for the score to be shown.
	StateScore
	// StateInventory asks for the inventory to be shown.
	StateInventory
	// StateHelp asks for the help text to be shown.
	StateHelp
	// StateVisited asks for the visited-location list to be shown.
	StateVisited
)

var stateNames = [...]string{"playing", "clear_screen", "exit", "score", "inventory", "help", "visited"}

// String returns the state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Reply is the result of processing one line of input.
type Reply struct {
	State State
	Text  string
}

var overrides = map[string]State{
	"clear":        StateClearScreen,
	"cls":          StateClearScreen,
	"clearscreen":  StateClearScreen,
	"clear screen": StateClearScreen,

	"quit":           StateExit,
	"exit":           StateExit,
	"run away":       StateExit,
	"kill yourself":  StateExit,
	"kill your self": StateExit,

	"score":            StateScore,
	"show score":       StateScore,
	"view score":       StateScore,
	"see score":        StateScore,
	"what is my score": StateScore,

	"inventory":      StateInventory,
	"view inventory": StateInventory,

	"help":            StateHelp,
	"help me":         StateHelp,
	"instructions":    StateHelp,
	"manual":          StateHelp,
	"man":             StateHelp,
	"read manual":     StateHelp,
	"read the manual": StateHelp,

	"locations":         StateVisited,
	"visited":           StateVisited,
	"visited locations": StateVisited,
}

// checkOverrides matches whole-line meta commands. The reply text is the
// lowercased phrase.
func checkOverrides(raw string) (Reply, bool) {
	phrase := strings.ToLower(strings.TrimSpace(raw))
	state, ok := overrides[phrase]
	if !ok {
		return Reply{}, false
	}
	return Reply{State: state, Text: phrase}, true
}

// IsOverride reports whether raw is a meta command handled before parsing.
func IsOverride(raw string) bool {
	_, ok := checkOverrides(raw)
	return ok
}

// Difficulty scales scoring and hint costs.
type Difficulty int

const (
	// Easy is the default difficulty.
	Easy Difficulty = iota
	// Medium doubles score increases.
	Medium
	// Hard triples score increases.
	Hard
)

// String returns the lowercase difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty converts "easy", "medium" or "hard" (any case) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Easy, fmt.Errorf("unknown difficulty %q", s)
	}
}

// ScoreMultiplier returns 1, 2 or 3 for Easy, Medium or Hard.
func (d Difficulty) ScoreMultiplier() int {
	switch d {
	case Medium:
		return 2
	case Hard:
		return 3
	default:
		return 1
	}
}

// HintCost returns 1, 3 or 10 for Easy, Medium or Hard.
func (d Difficulty) HintCost() int {
	switch d {
	case Medium:
		return 3
	case Hard:
		return 10
	default:
		return 1
	}
}
