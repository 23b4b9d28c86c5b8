package gamedata

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DungeonKind names a kind of dungeon, e.g. "cave".
type DungeonKind string

// Rules is the read-only dungeon generation rule lookup.
type Rules interface {
	// NpcRaceProbability returns the race affinity weights for kind, or
	// (nil, false) if no rule exists for kind.
	NpcRaceProbability(kind DungeonKind) (map[Race]float32, bool)
}

// DungeonGenParams are the generation rules for one dungeon kind.
type DungeonGenParams struct {
	// NpcRaceProbability is the affinity weight of each race; races absent
	// from the map never spawn.
	NpcRaceProbability map[Race]float32
}

// DungeonRules maps each dungeon kind to its generation rules.
type DungeonRules struct {
	params map[DungeonKind]DungeonGenParams
}

// NewDungeonRules wraps params. The map is copied.
func NewDungeonRules(params map[DungeonKind]DungeonGenParams) *DungeonRules {
	out := make(map[DungeonKind]DungeonGenParams, len(params))
	for k, p := range params {
		races := make(map[Race]float32, len(p.NpcRaceProbability))
		for r, w := range p.NpcRaceProbability {
			races[r] = w
		}
		out[k] = DungeonGenParams{NpcRaceProbability: races}
	}
	return &DungeonRules{params: out}
}

// NpcRaceProbability implements Rules.
func (d *DungeonRules) NpcRaceProbability(kind DungeonKind) (map[Race]float32, bool) {
	p, ok := d.params[kind]
	if !ok {
		return nil, false
	}
	return p.NpcRaceProbability, true
}

// Kinds returns every dungeon kind with a rule, in no particular order.
func (d *DungeonRules) Kinds() []DungeonKind {
	out := make([]DungeonKind, 0, len(d.params))
	for k := range d.params {
		out = append(out, k)
	}
	return out
}

type rulesFile struct {
	DungeonGen map[string]struct {
		NpcRaceProbability map[string]float32 `yaml:"npc_race_probability"`
	} `yaml:"dungeon_gen"`
}

// LoadRulesFromBytes parses dungeon generation rules from YAML of the form:
//
//	dungeon_gen:
//	  cave:
//	    npc_race_probability:
//	      animal: 1.0
//	      bug: 0.5
//
// Postcondition: Returns the rules, or an error on unknown fields, unknown
// races or negative weights.
func LoadRulesFromBytes(data []byte) (*DungeonRules, error) {
	var f rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing rules YAML: %w", err)
	}

	params := make(map[DungeonKind]DungeonGenParams, len(f.DungeonGen))
	for kind, raw := range f.DungeonGen {
		races := make(map[Race]float32, len(raw.NpcRaceProbability))
		for name, w := range raw.NpcRaceProbability {
			race, err := ParseRace(name)
			if err != nil {
				return nil, fmt.Errorf("dungeon %q: %w", kind, err)
			}
			if w < 0 {
				return nil, fmt.Errorf("dungeon %q: race %q weight must be >= 0, got %v", kind, name, w)
			}
			races[race] = w
		}
		params[DungeonKind(kind)] = DungeonGenParams{NpcRaceProbability: races}
	}
	return &DungeonRules{params: params}, nil
}

// LoadRules reads every YAML file in dir and merges their dungeon_gen
// sections. A dungeon kind defined in two files is an error.
//
// Precondition: dir must be a readable directory.
func LoadRules(dir string) (*DungeonRules, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	merged := &DungeonRules{params: make(map[DungeonKind]DungeonGenParams)}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		rules, err := LoadRulesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		for kind, p := range rules.params {
			if _, dup := merged.params[kind]; dup {
				return nil, fmt.Errorf("loading %q: dungeon %q already defined", path, kind)
			}
			merged.params[kind] = p
		}
	}
	return merged, nil
}
