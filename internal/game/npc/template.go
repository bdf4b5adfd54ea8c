package npc

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is the YAML form of a character declared in a world file.
type Template struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Gender      string `yaml:"gender"`
	Busy        bool   `yaml:"busy"`
	Greeting    string `yaml:"greeting"`
	Wants       string `yaml:"wants"`
	Thanks      string `yaml:"thanks"`
	Points      int    `yaml:"points"`
}

// CharacterID returns the declared ID, or one derived from Name.
func (t Template) CharacterID() string {
	if t.ID != "" {
		return t.ID
	}
	return IDFromName(t.Name)
}

// Validate checks the template.
//
// Postcondition: Returns nil iff Name is non-empty, Gender parses, Points >= 0
// and Thanks/Points are only set together with Wants; otherwise every
// violation joined.
func (t Template) Validate() error {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, errors.New("character: name must not be empty"))
	}
	if _, err := ParseGender(t.Gender); err != nil {
		errs = append(errs, fmt.Errorf("character %q: %w", t.CharacterID(), err))
	}
	if t.Points < 0 {
		errs = append(errs, fmt.Errorf("character %q: points must be >= 0", t.CharacterID()))
	}
	if t.Wants == "" && (t.Thanks != "" || t.Points > 0) {
		errs = append(errs, fmt.Errorf("character %q: thanks and points need wants", t.CharacterID()))
	}
	return errors.Join(errs...)
}

// Build validates t and creates the Character it describes.
//
// Postcondition: Returns a Character or the validation error.
func (t Template) Build() (*Character, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	gender, _ := ParseGender(t.Gender)
	c, err := NewCharacter(t.Name, strings.TrimSpace(t.Description), gender)
	if err != nil {
		return nil, err
	}
	c.ID = t.CharacterID()
	c.Busy = t.Busy
	c.Greeting = strings.TrimSpace(t.Greeting)
	c.Wants = strings.ToLower(strings.TrimSpace(t.Wants))
	c.Thanks = strings.TrimSpace(t.Thanks)
	c.Points = t.Points
	return c, nil
}

// LoadTemplateFromBytes parses and validates a single character template.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated Template or an error.
func LoadTemplateFromBytes(data []byte) (Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return Template{}, fmt.Errorf("parsing character YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}
