package chara

import "fmt"

// StatusKind is the kind of a status effect.
type StatusKind uint8

const (
	StatusHungry StatusKind = iota
	StatusWeak
	StatusStarving
	StatusAsleep
	StatusPoisoned
)

var statusKindNames = [...]string{"hungry", "weak", "starving", "asleep", "poisoned"}

func (k StatusKind) String() string {
	if int(k) < len(statusKindNames) {
		return statusKindNames[k]
	}
	return fmt.Sprintf("status(%d)", uint8(k))
}

// ParseStatusKind is the inverse of StatusKind.String.
func ParseStatusKind(s string) (StatusKind, error) {
	for i, name := range statusKindNames {
		if name == s {
			return StatusKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k StatusKind) MarshalText() ([]byte, error) {
	if int(k) >= len(statusKindNames) {
		return nil, fmt.Errorf("invalid status kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StatusKind) UnmarshalText(b []byte) error {
	parsed, err := ParseStatusKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsSPStatus reports whether k is one of the mutually exclusive SP statuses.
func (k StatusKind) IsSPStatus() bool {
	return k == StatusHungry || k == StatusWeak || k == StatusStarving
}

// CharaStatus is one active status effect.
type CharaStatus struct {
	Kind StatusKind `yaml:"kind" json:"kind"`
	// TurnLeft counts down for timed statuses such as asleep; zero otherwise.
	TurnLeft uint16 `yaml:"turn_left,omitempty" json:"turn_left,omitempty"`
}

// HasStatus reports whether a status of kind is active.
func (c *Chara) HasStatus(kind StatusKind) bool {
	for _, s := range c.Status {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// AddStatus applies s. Re-applying an active kind keeps the longer TurnLeft.
// Applying an SP status replaces any other SP status.
//
// Postcondition: HasStatus(s.Kind) is true; at most one SP status is active.
func (c *Chara) AddStatus(s CharaStatus) {
	kept := c.Status[:0]
	for _, cur := range c.Status {
		if cur.Kind == s.Kind {
			if cur.TurnLeft > s.TurnLeft {
				s.TurnLeft = cur.TurnLeft
			}
			continue
		}
		if s.Kind.IsSPStatus() && cur.Kind.IsSPStatus() {
			continue
		}
		kept = append(kept, cur)
	}
	c.Status = append(kept, s)
}

// RemoveStatus removes every status of kind. Removing an inactive kind is a no-op.
func (c *Chara) RemoveStatus(kind StatusKind) {
	kept := c.Status[:0]
	for _, cur := range c.Status {
		if cur.Kind != kind {
			kept = append(kept, cur)
		}
	}
	c.Status = kept
}
