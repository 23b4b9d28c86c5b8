package chara

import "fmt"

// Relationship is the disposition of one character toward another.
//
//	         |A|F|N|H
//	ALLY     |A|F|N|H
//	FRIENDLY |F|F|N|H
//	NEUTRAL  |N|N|N|N
//	HOSTILE  |H|H|N|F
type Relationship uint8

const (
	Ally Relationship = iota
	Friendly
	Neutral
	Hostile
)

var relationshipNames = [...]string{"ally", "friendly", "neutral", "hostile"}

// relativeTable is indexed [base][context].
var relativeTable = [4][4]Relationship{
	Ally:     {Ally, Friendly, Neutral, Hostile},
	Friendly: {Friendly, Friendly, Neutral, Hostile},
	Neutral:  {Neutral, Neutral, Neutral, Neutral},
	Hostile:  {Hostile, Hostile, Neutral, Friendly},
}

// Relative composes r, acting as the base disposition, with the situational
// disposition other.
//
// Precondition: r and other are one of Ally, Friendly, Neutral, Hostile.
// Postcondition: Ally.Relative(x) == x; Neutral.Relative(x) == Neutral;
// Hostile.Relative(Hostile) == Friendly.
func (r Relationship) Relative(other Relationship) Relationship {
	if r > Hostile || other > Hostile {
		panic(fmt.Sprintf("chara: Relative called with invalid relationship (%d, %d)", r, other))
	}
	return relativeTable[r][other]
}

// IsHostile reports whether r is Hostile.
func (r Relationship) IsHostile() bool {
	return r == Hostile
}

// String returns the lower-case name of r.
func (r Relationship) String() string {
	if int(r) < len(relationshipNames) {
		return relationshipNames[r]
	}
	return fmt.Sprintf("relationship(%d)", uint8(r))
}

// ParseRelationship is the inverse of Relationship.String.
func ParseRelationship(s string) (Relationship, error) {
	for i, name := range relationshipNames {
		if name == s {
			return Relationship(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown relationship %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Relationship) MarshalText() ([]byte, error) {
	if r > Hostile {
		return nil, fmt.Errorf("invalid relationship %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relationship) UnmarshalText(b []byte) error {
	parsed, err := ParseRelationship(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
