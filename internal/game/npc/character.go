// Package npc defines the non-player characters that share locations with the
// player: who they are, what they say and what they will accept.
package npc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when a character is constructed without a name.
var ErrInvalidArgument = errors.New("invalid argument")

// Gender selects the pronoun used when a character is referred to.
type Gender int

const (
	// Other is the default and refers to the character as "they".
	Other Gender = iota
	// Male refers to the character as "he".
	Male
	// Female refers to the character as "she".
	Female
)

// String returns the lowercase gender name.
func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "other"
	}
}

// ParseGender converts "male", "female", "other" or "" (any case) to a Gender.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "other":
		return Other, nil
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	default:
		return Other, fmt.Errorf("unknown gender %q", s)
	}
}

// Pronoun returns the subject pronoun for g.
func (g Gender) Pronoun() string {
	switch g {
	case Male:
		return "he"
	case Female:
		return "she"
	default:
		return "they"
	}
}

// Character is a non-player character.
type Character struct {
	// ID uniquely identifies the character within a world.
	ID string
	// Name is the display name; its lowercase form is the noun the player uses.
	Name        string
	Description string
	Gender      Gender
	// Busy characters refuse conversation and gifts.
	Busy bool
	// Greeting is the reply to talk. Empty uses a generic reply.
	Greeting string
	// Wants is the item key the character accepts from the player.
	Wants string
	// Thanks is the reply when the wanted item is given.
	Thanks string
	// Points are awarded when the wanted item is given.
	Points int
}

// NewCharacter creates an idle Character whose ID is derived from name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns a Character or an error wrapping ErrInvalidArgument.
func NewCharacter(name, description string, gender Gender) (*Character, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("character name must not be empty: %w", ErrInvalidArgument)
	}
	return &Character{
		ID:          IDFromName(name),
		Name:        strings.TrimSpace(name),
		Description: description,
		Gender:      gender,
	}, nil
}

// IDFromName derives a character ID: lowercase with spaces replaced by underscores.
func IDFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Key returns the case-insensitive noun for the character.
func (c *Character) Key() string {
	return strings.ToLower(c.Name)
}

// Matches reports whether name refers to c by key or ID.
func (c *Character) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return name != "" && (name == c.Key() || name == c.ID)
}

// BusyMessage is the reply given while the character is busy.
func (c *Character) BusyMessage() string {
	if c.Gender == Other {
		return "They are busy right now."
	}
	p := c.Gender.Pronoun()
	return strings.ToUpper(p[:1]) + p[1:] + " is busy right now."
}
