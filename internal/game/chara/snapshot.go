package chara

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Partition names the holder partition a record belongs to.
type Partition string

const (
	PartitionPersistent Partition = "persistent"
	PartitionOnMap      Partition = "on_map"
)

// PartitionOf returns the partition id is routed to.
func PartitionOf(id CharaID) Partition {
	if id.IsOnMap() {
		return PartitionOnMap
	}
	return PartitionPersistent
}

// Record pairs a character with its id.
type Record struct {
	ID    CharaID `yaml:"id" json:"id"`
	Chara *Chara  `yaml:"chara" json:"chara"`
}

// Snapshot is a detached copy of a Holder's contents suitable for saving.
type Snapshot struct {
	Persistent []Record `yaml:"persistent" json:"persistent"`
	OnMap      []Record `yaml:"on_map" json:"on_map"`
}

// Snapshot returns a deep copy of both partitions, each ordered by CompareIDs.
//
// Postcondition: mutating the returned records does not affect h.
func (h *Holder) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Snapshot{
		Persistent: records(h.persistent),
		OnMap:      records(h.onMap),
	}
}

func records(m map[CharaID]*Chara) []Record {
	out := make([]Record, 0, len(m))
	for _, id := range sortedIDs(m) {
		out = append(out, Record{ID: id, Chara: m[id].Clone()})
	}
	return out
}

// SortRecords orders recs by CompareIDs, the order Snapshot produces.
func SortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return CompareIDs(recs[i].ID, recs[j].ID) < 0 })
}

// Restore builds a Holder from s.
//
// Precondition: logger may be nil.
// Postcondition: Returns a Holder whose lookups match the holder s was taken
// from, or an error if a record is in the wrong partition, is duplicated, or
// has a nil character.
func Restore(s Snapshot, logger *zap.Logger) (*Holder, error) {
	h := NewHolder(logger)
	load := func(want Partition, recs []Record) error {
		for _, r := range recs {
			if got := PartitionOf(r.ID); got != want {
				return fmt.Errorf("chara %s: stored in %s partition, belongs to %s", r.ID, want, got)
			}
			if r.Chara == nil {
				return fmt.Errorf("chara %s: missing record body", r.ID)
			}
			if _, dup := h.partitionFor(r.ID)[r.ID]; dup {
				return fmt.Errorf("chara %s: duplicate record", r.ID)
			}
			h.partitionFor(r.ID)[r.ID] = r.Chara.Clone()
		}
		return nil
	}
	if err := load(PartitionPersistent, s.Persistent); err != nil {
		return nil, err
	}
	if err := load(PartitionOnMap, s.OnMap); err != nil {
		return nil, err
	}
	return h, nil
}

// Clone returns a deep copy of c.
func (c *Chara) Clone() *Chara {
	if c == nil {
		return nil
	}
	out := *c
	if c.Name != nil {
		name := *c.Name
		out.Name = &name
	}
	if c.Items != nil {
		out.Items = append(ItemList{}, c.Items...)
	}
	if c.Equip != nil {
		out.Equip = append(EquipItemList{}, c.Equip...)
	}
	if c.Status != nil {
		out.Status = append([]CharaStatus{}, c.Status...)
	}
	if c.Skills != nil {
		out.Skills = make(SkillList, len(c.Skills))
		for k, v := range c.Skills {
			out.Skills[k] = v
		}
	}
	if c.Talk != nil {
		talk := *c.Talk
		out.Talk = &talk
	}
	return &out
}
