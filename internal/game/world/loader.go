package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/textreality/internal/game/npc"
	"github.com/cory-johannsen/textreality/internal/game/synonym"
)

// Blueprint is a fully constructed world plus the session-level vocabulary and
// script bindings declared alongside it.
type Blueprint struct {
	// ID names the world.
	ID string
	// Prologue is the opening narrative shown before the first command.
	Prologue string
	// HelpText is shown for the help override.
	HelpText string
	// ScriptDir is the directory of Lua files backing location hooks; empty means none.
	ScriptDir string
	// ScriptInstructionLimit bounds each Lua hook invocation; zero uses the scripting default.
	ScriptInstructionLimit int
	// World holds the connected locations.
	World *World
	// Nouns maps surface forms to canonical nouns, including every item name and unlock object.
	Nouns map[string]string
	// Macros maps macro names to replacement text.
	Macros map[string]string
	// Hooks maps location IDs to the Lua function that intercepts their commands.
	Hooks map[string]string
}

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a world.
type yamlWorld struct {
	ID                     string            `yaml:"id"`
	Prologue               string            `yaml:"prologue"`
	Help                   string            `yaml:"help"`
	Start                  string            `yaml:"start"`
	ScriptDir              string            `yaml:"script_dir"`
	ScriptInstructionLimit int               `yaml:"script_instruction_limit"`
	Nouns                  map[string]string `yaml:"nouns"`
	Macros                 map[string]string `yaml:"macros"`
	Characters             []npc.Template    `yaml:"characters"`
	Locations              []yamlLocation    `yaml:"locations"`
}

// yamlLocation is the YAML representation of a location.
type yamlLocation struct {
	ID                   string            `yaml:"id"`
	Name                 string            `yaml:"name"`
	Description          string            `yaml:"description"`
	LightsOffDescription string            `yaml:"lights_off_description"`
	LightsOn             *bool             `yaml:"lights_on"`
	Exits                []yamlExit        `yaml:"exits"`
	Items                []yamlItem        `yaml:"items"`
	Nouns                map[string]string `yaml:"nouns"`
	Flags                map[string]bool   `yaml:"flags"`
	Characters           []string          `yaml:"characters"`
	Script               string            `yaml:"script"`
}

// yamlExit is the YAML representation of an exit.
type yamlExit struct {
	Direction     string `yaml:"direction"`
	Target        string `yaml:"target"`
	Locked        bool   `yaml:"locked"`
	UnlockObject  string `yaml:"unlock_object"`
	UnlockMessage string `yaml:"unlock_message"`
	OneWay        bool   `yaml:"one_way"`
	Hidden        bool   `yaml:"hidden"`
}

// yamlItem is the YAML representation of an item lying in a location.
type yamlItem struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	PickUpMessage string `yaml:"pick_up_message"`
}

// LoadFromFile reads and builds a world YAML file. A relative script_dir is
// resolved against the directory holding the file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated Blueprint or a non-nil error.
func LoadFromFile(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	bp, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading world file %s: %w", path, err)
	}
	if bp.ScriptDir != "" && !filepath.IsAbs(bp.ScriptDir) {
		bp.ScriptDir = filepath.Join(filepath.Dir(path), bp.ScriptDir)
	}
	return bp, nil
}

// LoadFromBytes parses a world from YAML bytes and connects its locations.
//
// Precondition: data must be valid YAML conforming to the world schema.
// Postcondition: Returns a validated Blueprint or a non-nil error.
func LoadFromBytes(data []byte) (*Blueprint, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}
	if err := file.World.validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	bp, err := convertYAMLWorld(file.World)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if err := bp.World.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return bp, nil
}

func (yw yamlWorld) validate() error {
	var errs []error
	if yw.ID == "" {
		errs = append(errs, errors.New("world ID must not be empty"))
	}
	if strings.TrimSpace(yw.Prologue) == "" {
		errs = append(errs, errors.New("world prologue must not be empty"))
	}
	if len(yw.Locations) == 0 {
		errs = append(errs, errors.New("world must have at least one location"))
	}
	ids := make(map[string]bool, len(yw.Locations))
	for i, yl := range yw.Locations {
		id := yl.id()
		if id == "" {
			errs = append(errs, fmt.Errorf("location %d: name must not be empty", i))
			continue
		}
		if ids[id] {
			errs = append(errs, fmt.Errorf("duplicate location ID %q", id))
		}
		ids[id] = true
	}
	if yw.Start != "" && !ids[yw.Start] {
		errs = append(errs, fmt.Errorf("start location %q not found", yw.Start))
	}
	for _, yl := range yw.Locations {
		for _, ye := range yl.Exits {
			if ye.Direction == "" {
				errs = append(errs, fmt.Errorf("location %q: exit direction must not be empty", yl.id()))
			}
			if !ids[ye.Target] {
				errs = append(errs, fmt.Errorf("location %q: exit %q targets unknown location %q",
					yl.id(), ye.Direction, ye.Target))
			}
			if ye.Locked && ye.UnlockObject == "" {
				errs = append(errs, fmt.Errorf("location %q: locked exit %q needs an unlock_object",
					yl.id(), ye.Direction))
			}
		}
	}
	for surface, canonical := range yw.Nouns {
		if strings.TrimSpace(canonical) == "" {
			errs = append(errs, fmt.Errorf("noun %q has an empty canonical form", surface))
		}
	}
	chars := make(map[string]bool, len(yw.Characters))
	for _, tmpl := range yw.Characters {
		if err := tmpl.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if chars[tmpl.CharacterID()] {
			errs = append(errs, fmt.Errorf("duplicate character ID %q", tmpl.CharacterID()))
		}
		chars[tmpl.CharacterID()] = true
	}
	placed := make(map[string]string)
	for _, yl := range yw.Locations {
		for _, id := range yl.Characters {
			if !chars[id] {
				errs = append(errs, fmt.Errorf("location %q: unknown character %q", yl.id(), id))
				continue
			}
			if prev, ok := placed[id]; ok {
				errs = append(errs, fmt.Errorf("character %q placed in both %q and %q", id, prev, yl.id()))
			}
			placed[id] = yl.id()
		}
	}
	return errors.Join(errs...)
}

func (yl yamlLocation) id() string {
	if yl.ID != "" {
		return yl.ID
	}
	return IDFromName(yl.Name)
}

// convertYAMLWorld creates every location first, then adds declared exits, then
// fills in reciprocal exits for two-way passages.
func convertYAMLWorld(yw yamlWorld) (*Blueprint, error) {
	bp := &Blueprint{
		ID:                     yw.ID,
		Prologue:               strings.TrimSpace(yw.Prologue),
		HelpText:               strings.TrimSpace(yw.Help),
		ScriptDir:              yw.ScriptDir,
		ScriptInstructionLimit: yw.ScriptInstructionLimit,
		Nouns:                  make(map[string]string),
		Macros:                 make(map[string]string, len(yw.Macros)),
		Hooks:                  make(map[string]string),
	}
	for surface, canonical := range yw.Nouns {
		if err := addNoun(bp.Nouns, surface, canonical); err != nil {
			return nil, err
		}
	}
	for name, text := range yw.Macros {
		bp.Macros[name] = strings.TrimSpace(text)
	}

	w, err := NewWorld()
	if err != nil {
		return nil, err
	}
	for _, yl := range yw.Locations {
		l, err := NewLocation(yl.Name, strings.TrimSpace(yl.Description))
		if err != nil {
			return nil, err
		}
		l.ID = yl.id()
		l.LightsOffDescription = strings.TrimSpace(yl.LightsOffDescription)
		if yl.LightsOn != nil {
			l.LightsOn = *yl.LightsOn
		}
		for name, v := range yl.Flags {
			l.SetFlag(name, v)
		}
		for _, yi := range yl.Items {
			item, err := NewItem(yi.Name, strings.TrimSpace(yi.Description), strings.TrimSpace(yi.PickUpMessage))
			if err != nil {
				return nil, fmt.Errorf("location %q: %w", l.ID, err)
			}
			if err := l.Items().Add(item); err != nil {
				return nil, fmt.Errorf("location %q: %w", l.ID, err)
			}
			if err := addNoun(bp.Nouns, item.Key(), item.Key()); err != nil {
				return nil, fmt.Errorf("location %q: %w", l.ID, err)
			}
		}
		for surface, canonical := range yl.Nouns {
			if err := addNoun(bp.Nouns, surface, canonical); err != nil {
				return nil, fmt.Errorf("location %q: %w", l.ID, err)
			}
		}
		if yl.Script != "" {
			bp.Hooks[l.ID] = yl.Script
		}
		if err := w.Add(l); err != nil {
			return nil, err
		}
	}
	if yw.Start != "" {
		if err := w.SetStart(yw.Start); err != nil {
			return nil, err
		}
	}

	templates := make(map[string]npc.Template, len(yw.Characters))
	for _, tmpl := range yw.Characters {
		templates[tmpl.CharacterID()] = tmpl
	}
	for _, yl := range yw.Locations {
		for _, id := range yl.Characters {
			c, err := templates[id].Build()
			if err != nil {
				return nil, err
			}
			if err := w.Place(c, yl.id()); err != nil {
				return nil, err
			}
			if err := addNoun(bp.Nouns, c.Key(), c.Key()); err != nil {
				return nil, fmt.Errorf("character %q: %w", c.ID, err)
			}
			if c.Wants != "" {
				if err := addNoun(bp.Nouns, c.Wants, c.Wants); err != nil {
					return nil, fmt.Errorf("character %q: %w", c.ID, err)
				}
			}
		}
	}

	for _, yl := range yw.Locations {
		from, _ := w.Location(yl.id())
		for _, ye := range yl.Exits {
			to, _ := w.Location(ye.Target)
			var opts []ExitOption
			if ye.Locked || ye.UnlockObject != "" {
				object := strings.ToLower(ye.UnlockObject)
				opts = append(opts, WithDoor(&Door{Locked: ye.Locked, UnlockObject: object, UnlockMessage: ye.UnlockMessage}))
				if err := addNoun(bp.Nouns, object, object); err != nil {
					return nil, fmt.Errorf("location %q: %w", from.ID, err)
				}
			}
			if ye.Hidden {
				opts = append(opts, Hidden())
			}
			if err := from.AddExit(Direction(strings.ToLower(ye.Direction)), to, opts...); err != nil {
				return nil, err
			}
		}
	}

	for _, yl := range yw.Locations {
		from, _ := w.Location(yl.id())
		for _, ye := range yl.Exits {
			if ye.OneWay {
				continue
			}
			dir := Direction(strings.ToLower(ye.Direction))
			back := dir.Opposite()
			if back == "" {
				continue
			}
			forward, _ := from.Exits().Get(dir)
			to := forward.Destination
			existing, ok := to.Exits().Get(back)
			switch {
			case !ok:
				if _, err := to.Exits().Add(back, from, WithDoor(forward.Door)); err != nil {
					return nil, err
				}
			case existing.Destination == from && existing.Door == nil:
				existing.Door = forward.Door
			}
		}
	}

	bp.World = w
	return bp, nil
}

// addNoun binds surface to canonical. Rebinding a surface form to the same
// canonical token is allowed.
func addNoun(nouns map[string]string, surface, canonical string) error {
	surface = strings.ToLower(strings.TrimSpace(surface))
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if surface == "" {
		return nil
	}
	if existing, exists := nouns[surface]; exists && existing != canonical {
		return fmt.Errorf("noun %q -> %q (already %q): %w", surface, canonical, existing, synonym.ErrDuplicateKey)
	}
	nouns[surface] = canonical
	return nil
}
