package gamedata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

// DefaultViewRange is used when a template does not declare view_range.
const DefaultViewRange int32 = 10

// Stats holds the primary stats declared by a template.
type Stats struct {
	Str int16 `yaml:"str"`
	Vit int16 `yaml:"vit"`
	Dex int16 `yaml:"dex"`
	Int int16 `yaml:"int"`
	Wil int16 `yaml:"wil"`
	Cha int16 `yaml:"cha"`
	Spd int16 `yaml:"spd"`
}

// Sprite is the image metadata the renderer uses for a template.
type Sprite struct {
	Image  string `yaml:"image"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Frames int    `yaml:"frames"`
}

// Template defines a character archetype loaded from YAML.
type Template struct {
	ID        string           `yaml:"id"`
	Name      string           `yaml:"name"`
	Race      Race             `yaml:"race"`
	Class     chara.CharaClass `yaml:"class"`
	AI        chara.NpcAIKind  `yaml:"ai"`
	MaxHP     int32            `yaml:"max_hp"`
	Stats     Stats            `yaml:"stats"`
	ViewRange int32            `yaml:"view_range"`
	// GenLevel is the floor depth at which this template is native.
	GenLevel uint32 `yaml:"gen_level"`
	// GenWeight scales how often this template is chosen; 0 never spawns.
	GenWeight float32 `yaml:"gen_weight"`
	Sprite    Sprite  `yaml:"sprite"`
}

// BaseAttr implements chara.BaseStats.
func (t *Template) BaseAttr() chara.CharaBaseAttr {
	return chara.CharaBaseAttr{
		BaseHP: t.MaxHP,
		Str:    t.Stats.Str,
		Vit:    t.Stats.Vit,
		Dex:    t.Stats.Dex,
		Int:    t.Stats.Int,
		Wil:    t.Stats.Wil,
		Cha:    t.Stats.Cha,
		Spd:    t.Stats.Spd,
	}
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// Spd >= 1, GenWeight >= 0 and ViewRange >= 0.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("chara template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("chara template %q: name must not be empty", t.ID)
	}
	if t.MaxHP < 1 {
		return fmt.Errorf("chara template %q: max_hp must be >= 1", t.ID)
	}
	if t.Stats.Spd < 1 {
		return fmt.Errorf("chara template %q: stats.spd must be >= 1", t.ID)
	}
	if t.GenWeight < 0 {
		return fmt.Errorf("chara template %q: gen_weight must be >= 0", t.ID)
	}
	if t.ViewRange < 0 {
		return fmt.Errorf("chara template %q: view_range must be >= 0", t.ID)
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template with ViewRange defaulted and
// Class defaulted to civilian, or an error on unknown fields, a missing race,
// or a failed Validate.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	tmpl := Template{Class: chara.ClassCivilian}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}

	// The zero Race is a real race, so presence is checked separately.
	var required struct {
		Race *Race `yaml:"race"`
	}
	if err := yaml.Unmarshal(data, &required); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if required.Race == nil {
		return nil, fmt.Errorf("chara template %q: race must be set", tmpl.ID)
	}

	if tmpl.ViewRange == 0 {
		tmpl.ViewRange = DefaultViewRange
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir in file name order and returns
// a Table indexed in that order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Table or an error on the first read, parse or
// validate failure, or on a duplicate id.
func LoadTemplates(dir string) (*Table, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}

	templates := make([]*Template, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return NewTable(templates)
}

// yamlFiles lists *.yaml and *.yml files in dir sorted by name.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
