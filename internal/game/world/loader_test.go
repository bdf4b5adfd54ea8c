package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/textreality/internal/game/synonym"
)

const validWorldYAML = `
world:
  id: house
  prologue: |
    You stand before a house.
  help: Try looking around.
  start: outside
  script_dir: scripts
  script_instruction_limit: 50000
  nouns:
    plant pot: plantpot
    plant: plantpot
  macros:
    house: the old house
  locations:
    - id: outside
      name: Outside
      description: You are outside $(house).
      exits:
        - direction: north
          target: hallway
          locked: true
          unlock_object: Key
          unlock_message: The lock clicks.
      items:
        - name: doormat
          description: A worn doormat.
      script: outside_command
    - id: hallway
      name: Hallway
      description: A long hallway.
      lights_off_description: It is dark.
      lights_on: false
      flags:
        creaky: true
      exits:
        - direction: east
          target: lounge
        - direction: trapdoor
          target: outside
          one_way: true
    - name: Lounge
      description: A comfortable lounge.
      nouns:
        sofa: sofa
        couch: sofa
`

func TestLoadFromBytes_Valid(t *testing.T) {
	bp, err := LoadFromBytes([]byte(validWorldYAML))
	require.NoError(t, err)

	assert.Equal(t, "house", bp.ID)
	assert.Equal(t, "You stand before a house.", bp.Prologue)
	assert.Equal(t, "Try looking around.", bp.HelpText)
	assert.Equal(t, "scripts", bp.ScriptDir)
	assert.Equal(t, 50000, bp.ScriptInstructionLimit)
	assert.Equal(t, "the old house", bp.Macros["house"])
	assert.Equal(t, map[string]string{"outside": "outside_command"}, bp.Hooks)

	w := bp.World
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, "outside", w.Start().ID)

	hall, ok := w.Location("hallway")
	require.True(t, ok)
	assert.False(t, hall.LightsOn)
	assert.Equal(t, "It is dark.", hall.Describe())
	assert.True(t, hall.Flag("creaky"))

	lounge, ok := w.Location("lounge")
	require.True(t, ok, "ID derived from name")
	assert.True(t, lounge.LightsOn)
}

func TestLoadFromBytes_ExitsAndDoors(t *testing.T) {
	bp, err := LoadFromBytes([]byte(validWorldYAML))
	require.NoError(t, err)
	outside, _ := bp.World.Location("outside")
	hall, _ := bp.World.Location("hallway")
	lounge, _ := bp.World.Location("lounge")

	fwd, ok := outside.Exits().Get(North)
	require.True(t, ok)
	assert.True(t, fwd.Locked())
	assert.Equal(t, "key", fwd.Door.UnlockObject)
	assert.Equal(t, "The lock clicks.", fwd.Door.UnlockMessage)

	back, ok := hall.Exits().Get(South)
	require.True(t, ok, "two-way exit gets a reciprocal")
	assert.Same(t, fwd.Door, back.Door)

	_, ok = lounge.Exits().Get(West)
	assert.True(t, ok)

	_, ok = hall.Exits().Get(Direction("trapdoor"))
	assert.True(t, ok)
	assert.Equal(t, 1, outside.Exits().Len(), "one-way and custom exits add no reciprocal")
}

func TestLoadFromBytes_Nouns(t *testing.T) {
	bp, err := LoadFromBytes([]byte(validWorldYAML))
	require.NoError(t, err)
	assert.Equal(t, "plantpot", bp.Nouns["plant pot"])
	assert.Equal(t, "key", bp.Nouns["key"], "unlock objects become nouns")
	assert.Equal(t, "doormat", bp.Nouns["doormat"], "items become nouns")
	assert.Equal(t, "sofa", bp.Nouns["couch"])
}

func TestLoadFromBytes_Items(t *testing.T) {
	bp, err := LoadFromBytes([]byte(validWorldYAML))
	require.NoError(t, err)
	outside, _ := bp.World.Location("outside")
	item, ok := outside.Items().Get("doormat")
	require.True(t, ok)
	assert.Equal(t, "A worn doormat.", item.Description)
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("not: [valid yaml"))
	assert.Error(t, err)
}

func TestLoadFromBytes_ValidationErrors(t *testing.T) {
	data := `
world:
  start: attic
  locations:
    - id: outside
      name: Outside
      description: Outside.
      exits:
        - direction: north
          target: nowhere
        - direction: east
          target: outside
          locked: true
`
	_, err := LoadFromBytes([]byte(data))
	require.Error(t, err)
	for _, want := range []string{
		"world ID must not be empty",
		"world prologue must not be empty",
		`start location "attic" not found`,
		`targets unknown location "nowhere"`,
		"needs an unlock_object",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadFromBytes_DuplicateExit(t *testing.T) {
	data := `
world:
  id: w
  prologue: Hi.
  locations:
    - id: a
      name: A
      description: A.
      exits:
        - direction: north
          target: b
        - direction: north
          target: a
    - id: b
      name: B
      description: B.
`
	_, err := LoadFromBytes([]byte(data))
	assert.ErrorIs(t, err, ErrExitExists)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "house.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validWorldYAML), 0644))

	bp, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "house", bp.ID)
	assert.Equal(t, filepath.Join(dir, "scripts"), bp.ScriptDir)
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/world.yaml")
	assert.Error(t, err)
}

func TestLoadSampleHouseWorld(t *testing.T) {
	bp, err := LoadFromFile("../../../content/worlds/house.yaml")
	require.NoError(t, err)
	assert.Equal(t, "house", bp.ID)
	assert.Equal(t, "outside", bp.World.Start().ID)
	require.NoError(t, bp.World.Validate())
}

const charactersWorldYAML = `
world:
  id: garden
  prologue: A quiet garden.
  characters:
    - name: Gardener
      description: A stooped old woman in a straw hat.
      gender: female
      greeting: Lovely weather for the roses.
      wants: trowel
      thanks: She beams and pockets the trowel.
      points: 2
    - id: cat
      name: Tabby Cat
      busy: true
  locations:
    - name: Lawn
      description: A neat lawn.
      characters: [gardener]
      items:
        - name: trowel
      exits:
        - direction: east
          target: shed
    - name: Shed
      description: A cramped shed.
      characters: [cat]
`

func TestLoadFromBytes_Characters(t *testing.T) {
	bp, err := LoadFromBytes([]byte(charactersWorldYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, bp.World.Characters().Len())

	lawn, _ := bp.World.Location("lawn")
	g, ok := lawn.Character("gardener")
	require.True(t, ok)
	assert.Equal(t, "trowel", g.Wants)
	assert.Equal(t, 2, g.Points)

	where, ok := bp.World.CharacterLocation("cat")
	require.True(t, ok)
	assert.Equal(t, "shed", where.ID)
	cat, _ := bp.World.Characters().Get("cat")
	assert.True(t, cat.Busy)

	assert.Equal(t, "gardener", bp.Nouns["gardener"], "character names become nouns")
	assert.Equal(t, "tabby cat", bp.Nouns["tabby cat"])
}

func TestLoadFromBytes_CharacterErrors(t *testing.T) {
	cases := map[string]string{
		"unknown character": `
world:
  id: w
  prologue: p
  locations:
    - name: A
      description: d
      characters: [ghost]
`,
		"placed twice": `
world:
  id: w
  prologue: p
  characters:
    - name: Guard
  locations:
    - name: A
      description: d
      characters: [guard]
    - name: B
      description: d
      characters: [guard]
`,
		"invalid template": `
world:
  id: w
  prologue: p
  characters:
    - name: Guard
      gender: robot
  locations:
    - name: A
      description: d
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromBytes_ConflictingNounFailsAuthoring(t *testing.T) {
	doc := `
world:
  id: w
  prologue: p
  nouns:
    pot: plantpot
  locations:
    - name: Kitchen
      description: A kitchen.
      items:
        - name: pot
          description: A cooking pot.
`
	_, err := LoadFromBytes([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, synonym.ErrDuplicateKey)

	doc = `
world:
  id: w
  prologue: p
  locations:
    - name: A
      description: d
      nouns:
        box: crate
    - name: B
      description: d
      nouns:
        box: chest
`
	_, err = LoadFromBytes([]byte(doc))
	assert.ErrorIs(t, err, synonym.ErrDuplicateKey)
}

func TestLoadFromBytes_SameNounBindingTwiceIsAllowed(t *testing.T) {
	doc := `
world:
  id: w
  prologue: p
  nouns:
    key: key
  locations:
    - name: A
      description: d
      items:
        - name: key
      exits:
        - direction: north
          target: b
          locked: true
          unlock_object: key
    - name: B
      description: d
`
	bp, err := LoadFromBytes([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "key", bp.Nouns["key"])
}
