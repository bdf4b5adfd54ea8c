package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/textreality/internal/game/npc"
)

func TestNewWorld_IndexesAndStart(t *testing.T) {
	outside, hall := mustLocation(t, "Outside"), mustLocation(t, "Hallway")
	w, err := NewWorld(outside, hall)
	require.NoError(t, err)

	assert.Equal(t, 2, w.Len())
	assert.Same(t, outside, w.Start())
	got, ok := w.Location("hallway")
	require.True(t, ok)
	assert.Same(t, hall, got)
	assert.Equal(t, []*Location{outside, hall}, w.Locations())

	require.NoError(t, w.SetStart("hallway"))
	assert.Same(t, hall, w.Start())
	assert.Error(t, w.SetStart("attic"))
}

func TestNewWorld_DuplicateID(t *testing.T) {
	_, err := NewWorld(mustLocation(t, "Hallway"), mustLocation(t, "Hallway"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate location ID")
}

func TestWorld_EmptyHasNoStart(t *testing.T) {
	w, err := NewWorld()
	require.NoError(t, err)
	assert.Nil(t, w.Start())
	assert.Error(t, w.Validate())
}

func TestWorld_ValidateDanglingExit(t *testing.T) {
	outside, stray := mustLocation(t, "Outside"), mustLocation(t, "Stray")
	require.NoError(t, outside.AddExit(North, stray))
	w, err := NewWorld(outside)
	require.NoError(t, err)

	err = w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `targets unknown location "stray"`)

	require.NoError(t, w.Add(stray))
	assert.NoError(t, w.Validate())
}

func TestWorld_Place(t *testing.T) {
	lawn := mustLocation(t, "Lawn")
	w, err := NewWorld(lawn)
	require.NoError(t, err)

	g, err := npc.NewCharacter("Gardener", "", npc.Female)
	require.NoError(t, err)
	assert.Error(t, w.Place(g, "nowhere"))
	assert.ErrorIs(t, w.Place(nil, "lawn"), ErrInvalidArgument)

	require.NoError(t, w.Place(g, "lawn"))
	assert.ErrorIs(t, w.Place(g, "lawn"), npc.ErrDuplicateCharacter)

	where, ok := w.CharacterLocation("gardener")
	require.True(t, ok)
	assert.Same(t, lawn, where)
	_, ok = w.CharacterLocation("cat")
	assert.False(t, ok)
}
