package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/textreality/internal/game/command"
	"github.com/cory-johannsen/textreality/internal/game/synonym"
	"github.com/cory-johannsen/textreality/internal/game/world"
)

const (
	housePrologue = "Welcome to test adventure. You will be bedazzled with awesomeness."

	outsideDescription = "You are standing on a driveway outside of a house. It is nighttime and very cold. " +
		"There is frost on the ground. There is a door to the north with a plant pot next to the door mat."
	hallwayDescription = "You are standing in a hallway that is modern, yet worn. There is a door to the west. " +
		"To the south the front door leads back to the driveway."
	hallwayLightsOff = "You are standing in a very dimly lit hallway. Your eyes struggle to adjust to the low light. " +
		"You notice there is a switch on the wall to your left."
	loungeDescription = "You are standing in the lounge. There is a sofa and a TV inside. " +
		"There is a door back to the hallway to the east."

	msgFoundKey     = "You move the plant pot and find a key sitting under it."
	msgPlantPot     = "It's a plant pot. Quite unremarkable."
	msgDoormat      = "It's a doormat where people wipe their feet. On it is written 'There is no place like 10.0.0.1'."
	msgPickUpKey    = "You pick up the key."
	msgUnlock       = "You turn the key in the lock and you hear a THUNK of the door unlocking."
	msgLightsFlick  = "You flip the lightswitch and the lights flicker for a few seconds until they illuminate the hallway. "
	msgNoKey        = "You do not have a key."
	msgWhatKey      = "What key?"
	searchedPotFlag = "searched_plant_pot"
)

type house struct {
	game    *Game
	outside *world.Location
	hallway *world.Location
	lounge  *world.Location
}

func houseNouns() *synonym.Table {
	nouns := synonym.NewTable()
	for surface, canonical := range map[string]string{
		"light": "lightswitch", "lightswitch": "lightswitch", "switch": "lightswitch",
		"plantpot": "plantpot", "plant": "plantpot", "pot": "plantpot",
		"key": "key", "keys": "key",
		"doormat": "doormat", "mat": "doormat",
		"door": "door", "frontdoor": "door",
	} {
		nouns.MustAdd(surface, canonical)
	}
	return nouns
}

func outsideIntercept(a world.Actor, l *world.Location, cmd command.Command) (string, bool) {
	switch cmd.Verb {
	case command.Use:
		if cmd.Noun == "door" || (cmd.Noun == "key" && cmd.Noun2 == "door") {
			if !a.Inventory().Has("key") {
				return msgNoKey, true
			}
			_ = l.SetDoorLock(false, world.North)
			a.IncreaseScore(1)
			a.IncrementMoves()
			return msgUnlock, true
		}
	case command.Look:
		switch cmd.Noun {
		case "plantpot":
			l.SetFlag(searchedPotFlag, true)
			if a.Inventory().Has("key") {
				return msgPlantPot, true
			}
			a.IncrementMoves()
			return msgFoundKey, true
		case "doormat":
			return msgDoormat, true
		}
	case command.Take:
		if cmd.Noun != "key" {
			return "", false
		}
		if !l.Flag(searchedPotFlag) {
			return msgWhatKey, true
		}
		if a.Inventory().Has("key") {
			return "You already have the key.", true
		}
		key, _ := world.NewItem("Key", "It is a small brass key.", msgPickUpKey)
		_ = a.Inventory().Add(key)
		a.IncreaseScore(1)
		a.IncrementMoves()
		return key.PickUpMessage, true
	}
	return "", false
}

func hallwayIntercept(a world.Actor, l *world.Location, cmd command.Command) (string, bool) {
	if cmd.Verb != command.Use || cmd.Noun != "lightswitch" {
		return "", false
	}
	a.IncrementMoves()
	a.IncreaseScore(1)
	if l.ToggleLights() {
		return msgLightsFlick + l.Description, true
	}
	return l.Describe(), true
}

func newHouse(t *testing.T, opts ...Option) *house {
	t.Helper()
	outside, err := world.NewLocation("Outside", outsideDescription)
	require.NoError(t, err)
	hallway, err := world.NewLocation("Hallway", hallwayDescription)
	require.NoError(t, err)
	hallway.LightsOffDescription = hallwayLightsOff
	hallway.LightsOn = false
	lounge, err := world.NewLocation("Lounge", loungeDescription)
	require.NoError(t, err)

	require.NoError(t, world.Connect(outside, world.North, hallway, world.Locked("key")))
	require.NoError(t, world.Connect(hallway, world.West, lounge))
	outside.Intercept(outsideIntercept)
	hallway.Intercept(hallwayIntercept)

	opts = append([]Option{WithParser(command.NewParser(command.WithNouns(houseNouns())))}, opts...)
	g, err := NewGame(housePrologue, outside, opts...)
	require.NoError(t, err)
	return &house{game: g, outside: outside, hallway: hallway, lounge: lounge}
}
