package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/textreality/internal/game/npc"
)

func TestNewCharacter_Defaults(t *testing.T) {
	c, err := npc.NewCharacter("Geoff", "", npc.Other)
	require.NoError(t, err)
	assert.Equal(t, "geoff", c.ID)
	assert.Equal(t, "Geoff", c.Name)
	assert.Equal(t, "", c.Description)
	assert.Equal(t, npc.Other, c.Gender)
	assert.False(t, c.Busy)
}

func TestNewCharacter_WithDescriptionAndGender(t *testing.T) {
	c, err := npc.NewCharacter("Arther", "Knight", npc.Male)
	require.NoError(t, err)
	assert.Equal(t, "Arther", c.Name)
	assert.Equal(t, "Knight", c.Description)
	assert.Equal(t, npc.Male, c.Gender)
}

func TestNewCharacter_EmptyNameRejected(t *testing.T) {
	for _, name := range []string{"", "   "} {
		_, err := npc.NewCharacter(name, "", npc.Other)
		assert.ErrorIs(t, err, npc.ErrInvalidArgument)
	}
}

func TestCharacter_MatchesKeyOrID(t *testing.T) {
	c, err := npc.NewCharacter("Old Gardener", "", npc.Female)
	require.NoError(t, err)
	assert.True(t, c.Matches("old gardener"))
	assert.True(t, c.Matches("OLD_GARDENER"))
	assert.False(t, c.Matches("gardener"))
	assert.False(t, c.Matches(""))
}

func TestCharacter_BusyMessageUsesPronoun(t *testing.T) {
	cases := map[npc.Gender]string{
		npc.Male:   "He is busy right now.",
		npc.Female: "She is busy right now.",
		npc.Other:  "They are busy right now.",
	}
	for g, want := range cases {
		c, err := npc.NewCharacter("Sam", "", g)
		require.NoError(t, err)
		assert.Equal(t, want, c.BusyMessage(), "gender %v", g)
	}
}

func TestParseGender(t *testing.T) {
	g, err := npc.ParseGender("Female")
	require.NoError(t, err)
	assert.Equal(t, npc.Female, g)

	g, err = npc.ParseGender("")
	require.NoError(t, err)
	assert.Equal(t, npc.Other, g)

	_, err = npc.ParseGender("robot")
	assert.Error(t, err)
}

func TestLoadTemplateFromBytes_Build(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(`
name: Gardener
description: A stooped old woman in a straw hat.
gender: female
greeting: "Lovely weather for the roses."
wants: Trowel
thanks: "She beams and pockets the trowel."
points: 2
`))
	require.NoError(t, err)
	c, err := tmpl.Build()
	require.NoError(t, err)
	assert.Equal(t, "gardener", c.ID)
	assert.Equal(t, npc.Female, c.Gender)
	assert.Equal(t, "trowel", c.Wants)
	assert.Equal(t, 2, c.Points)
	assert.Equal(t, "Lovely weather for the roses.", c.Greeting)
}

func TestTemplate_ValidateAggregates(t *testing.T) {
	err := npc.Template{Gender: "robot", Points: -1, Thanks: "ta"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "unknown gender")
	assert.Contains(t, err.Error(), "points must be >= 0")
	assert.Contains(t, err.Error(), "thanks and points need wants")
}

func TestRegistry_AddGetAll(t *testing.T) {
	r := npc.NewRegistry()
	a, _ := npc.NewCharacter("Guard", "", npc.Male)
	b, _ := npc.NewCharacter("Cat", "", npc.Other)
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))
	assert.ErrorIs(t, r.Add(a), npc.ErrDuplicateCharacter)
	assert.ErrorIs(t, r.Add(nil), npc.ErrInvalidArgument)

	got, ok := r.Get("guard")
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, []*npc.Character{a, b}, r.All())
	assert.Equal(t, 2, r.Len())
}

func TestProperty_Character_IDMatchesName(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z]{1,8}( [A-Za-z]{1,8}){0,2}`).Draw(rt, "name")
		c, err := npc.NewCharacter(name, "", npc.Other)
		if err != nil {
			rt.Fatalf("NewCharacter(%q): %v", name, err)
		}
		if !c.Matches(name) || !c.Matches(c.ID) {
			rt.Fatalf("character %q does not match its own name or ID %q", name, c.ID)
		}
	})
}
