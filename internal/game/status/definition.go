// Package status provides the static attribute revisions granted by each
// status effect kind, loaded from YAML.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

// Def is the static definition of one status kind.
type Def struct {
	Kind        chara.StatusKind        `yaml:"kind"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Revision    chara.CharaAttrRevision `yaml:"revision"`
}

// defFile is the on-disk form of a Def. Kind is a pointer because the zero
// StatusKind is a real kind.
type defFile struct {
	Kind        *chara.StatusKind       `yaml:"kind"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Revision    chara.CharaAttrRevision `yaml:"revision"`
}

// Registry holds all known Defs keyed by kind.
type Registry struct {
	defs map[chara.StatusKind]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[chara.StatusKind]*Def)}
}

// Register adds def, overwriting any existing entry of the same kind.
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.Kind] = def
}

// Get returns the Def for kind, or (nil, false) if not found.
func (r *Registry) Get(kind chara.StatusKind) (*Def, bool) {
	d, ok := r.defs[kind]
	return d, ok
}

// All returns a snapshot slice of all registered Defs ordered by kind.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// RevisionFor implements chara.StatusRevisions. Unregistered kinds grant the
// zero revision.
func (r *Registry) RevisionFor(kind chara.StatusKind) chara.CharaAttrRevision {
	if d, ok := r.defs[kind]; ok {
		return d.Revision
	}
	return chara.CharaAttrRevision{}
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def, and
// returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails
// to parse or two files define the same kind.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f defFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if f.Kind == nil {
			return nil, fmt.Errorf("parsing %q: kind must be set", path)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("parsing %q: name must not be empty", path)
		}
		def := Def{Kind: *f.Kind, Name: f.Name, Description: f.Description, Revision: f.Revision}
		if _, dup := reg.Get(def.Kind); dup {
			return nil, fmt.Errorf("parsing %q: status %q already defined", path, def.Kind)
		}
		reg.Register(&def)
	}
	return reg, nil
}
