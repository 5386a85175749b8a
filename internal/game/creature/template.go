package creature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	MaxHealth int    `yaml:"max_health"`
	Damage    int    `yaml:"damage"`
	// ActionTime is the duration string (e.g. "3s") an attack or defense
	// takes before its completion timer fires.
	ActionTime string `yaml:"action_time"`
	// NamePool lists display names drawn at random for rooms spawned from
	// this template. Optional.
	NamePool []string `yaml:"name_pool"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth and
// Damage are >= 1, and ActionTime parses as a positive duration.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("creature template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("creature template %q: name must not be empty", t.ID)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("creature template %q: max_health must be >= 1", t.ID)
	}
	if t.Damage < 1 {
		return fmt.Errorf("creature template %q: damage must be >= 1", t.ID)
	}
	d, err := time.ParseDuration(t.ActionTime)
	if err != nil {
		return fmt.Errorf("creature template %q: action_time %q is not a valid duration: %w", t.ID, t.ActionTime, err)
	}
	if d <= 0 {
		return fmt.Errorf("creature template %q: action_time must be positive", t.ID)
	}
	return nil
}

// ActionDuration returns the parsed action time.
//
// Precondition: Validate must have succeeded.
func (t *Template) ActionDuration() time.Duration {
	d, _ := time.ParseDuration(t.ActionTime)
	return d
}

// LoadTemplateFromBytes parses a single creature template from raw YAML.
//
// Postcondition: Returns a validated *Template or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing creature template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns templates keyed by id.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse,
// validate, or duplicate-id failure.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, exists := templates[tmpl.ID]; exists {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}

// Template ids the server requires.
const (
	TemplateSkeleton = "skeleton"
	TemplatePlayer   = "player"
)

// DefaultTemplates returns the compiled-in templates used when no content
// directory is configured. The skeleton is durable but weak; players hit
// harder and act faster.
func DefaultTemplates() map[string]*Template {
	return map[string]*Template{
		TemplateSkeleton: {
			ID:         TemplateSkeleton,
			Name:       "skeleton",
			MaxHealth:  100,
			Damage:     5,
			ActionTime: "3s",
			NamePool:   DefaultNamePool(),
		},
		TemplatePlayer: {
			ID:         TemplatePlayer,
			Name:       "player",
			MaxHealth:  100,
			Damage:     20,
			ActionTime: "2s",
		},
	}
}
