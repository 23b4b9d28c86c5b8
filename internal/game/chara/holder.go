package chara

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// UnknownIDError is the panic value raised when a lookup names a character
// the holder does not contain. Every live id must refer to a stored
// character, so reaching it means a holder of the id was not updated when the
// character was removed.
type UnknownIDError struct {
	ID CharaID
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("unknown chara id %s", e.ID)
}

// Holder owns every character, split into a persistent partition (player and
// on-site characters, which survive map changes) and an on-map partition
// (characters of the currently loaded map).
//
// Invariant: no id is present in both partitions; KindOnMap ids live only in
// the on-map partition.
//
// Holder is driven by the single game-state owner. The mutex makes
// ReplaceOnMap and Snapshot atomic with respect to any other goroutine.
type Holder struct {
	mu         sync.Mutex
	persistent map[CharaID]*Chara
	onMap      map[CharaID]*Chara
	logger     *zap.Logger
}

// NewHolder creates an empty Holder.
//
// Precondition: logger may be nil, in which case logging is disabled.
// Postcondition: Len() == 0.
func NewHolder(logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Holder{
		persistent: make(map[CharaID]*Chara),
		onMap:      make(map[CharaID]*Chara),
		logger:     logger,
	}
}

// partitionFor is the only place that routes an id to a partition.
// Caller must hold h.mu.
func (h *Holder) partitionFor(id CharaID) map[CharaID]*Chara {
	if id.IsOnMap() {
		return h.onMap
	}
	return h.persistent
}

// Add stores c under id, replacing any character already stored there.
//
// Precondition: c must not be nil.
// Postcondition: Get(id) == c.
func (h *Holder) Add(id CharaID, c *Chara) {
	if c == nil {
		panic("chara: Holder.Add called with nil chara")
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	part := h.partitionFor(id)
	if _, exists := part[id]; exists {
		h.logger.Debug("overwriting chara", zap.Stringer("id", id))
	}
	part[id] = c
}

// Get returns the character stored under id for reading or mutation.
//
// Precondition: id must be stored; otherwise Get panics with *UnknownIDError.
func (h *Holder) Get(id CharaID) *Chara {
	c, ok := h.Lookup(id)
	if !ok {
		h.logger.Error("lookup of unknown chara id", zap.Stringer("id", id))
		panic(&UnknownIDError{ID: id})
	}
	return c
}

// Lookup returns the character stored under id.
//
// Postcondition: Returns (c, true) if found, or (nil, false) otherwise.
func (h *Holder) Lookup(id CharaID) (*Chara, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.partitionFor(id)[id]
	return c, ok
}

// Remove deletes the character stored under id. Removing an absent id is a no-op.
func (h *Holder) Remove(id CharaID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.partitionFor(id), id)
}

// ReplaceOnMap swaps in next as the whole on-map partition and returns the
// previous one. The caller owns the returned characters.
//
// Precondition: every key of next is a KindOnMap id; ReplaceOnMap panics
// otherwise, leaving the holder unchanged. next may be nil.
// Postcondition: the on-map partition is exactly next.
func (h *Holder) ReplaceOnMap(next map[CharaID]*Chara) map[CharaID]*Chara {
	for id := range next {
		if !id.IsOnMap() {
			panic(fmt.Sprintf("chara: ReplaceOnMap given non on-map id %s", id))
		}
	}
	if next == nil {
		next = make(map[CharaID]*Chara)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	old := h.onMap
	h.onMap = next
	h.logger.Debug("replaced on-map charas",
		zap.Int("old", len(old)),
		zap.Int("new", len(next)),
	)
	return old
}

// Len returns the number of stored characters across both partitions.
func (h *Holder) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.persistent) + len(h.onMap)
}

// IDs returns every stored id, persistent ones first, each group ordered by
// CompareIDs.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (h *Holder) IDs() []CharaID {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := append(sortedIDs(h.persistent), sortedIDs(h.onMap)...)
	if out == nil {
		out = []CharaID{}
	}
	return out
}

// OnMapIDs returns the ids of the on-map partition ordered by CompareIDs.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (h *Holder) OnMapIDs() []CharaID {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := sortedIDs(h.onMap)
	if out == nil {
		out = []CharaID{}
	}
	return out
}

func sortedIDs(m map[CharaID]*Chara) []CharaID {
	if len(m) == 0 {
		return nil
	}
	ids := make([]CharaID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return CompareIDs(ids[i], ids[j]) < 0 })
	return ids
}
