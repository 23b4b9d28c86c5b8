// Package savefile writes and reads the character holder as a YAML save file.
package savefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

// Version is the save file format version written by Write.
const Version = 1

// ErrVersion is returned when a save file has an unsupported version.
var ErrVersion = errors.New("unsupported save file version")

type document struct {
	Version    int            `yaml:"version"`
	Persistent []chara.Record `yaml:"persistent"`
	OnMap      []chara.Record `yaml:"on_map"`
}

// Write encodes a snapshot of h to w.
//
// Precondition: h and w must be non-nil.
// Postcondition: Read of the written bytes yields a holder with identical lookups.
func Write(w io.Writer, h *chara.Holder) error {
	snap := h.Snapshot()
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{
		Version:    Version,
		Persistent: snap.Persistent,
		OnMap:      snap.OnMap,
	}); err != nil {
		return fmt.Errorf("encoding save file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding save file: %w", err)
	}
	return nil
}

// Read decodes a save file from r into a new Holder.
//
// Precondition: logger may be nil.
// Postcondition: Returns the restored Holder or an error for malformed YAML,
// an unsupported version, or records in the wrong partition.
func Read(r io.Reader, logger *zap.Logger) (*chara.Holder, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding save file: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w %d", ErrVersion, doc.Version)
	}
	h, err := chara.Restore(chara.Snapshot{Persistent: doc.Persistent, OnMap: doc.OnMap}, logger)
	if err != nil {
		return nil, fmt.Errorf("restoring save file: %w", err)
	}
	return h, nil
}

// WriteFile writes h to path atomically by writing a sibling temp file and
// renaming it into place.
func WriteFile(path string, h *chara.Holder) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, h); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming save file into place: %w", err)
	}
	return nil
}

// ReadFile reads the save file at path.
func ReadFile(path string, logger *zap.Logger) (*chara.Holder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening save file: %w", err)
	}
	defer f.Close()
	return Read(f, logger)
}
