// Package gamedata provides the read-only character template table and
// dungeon generation rules, loaded from YAML content.
package gamedata

import "fmt"

// Race is a character's race.
type Race uint8

const (
	RaceAnimal Race = iota
	RaceHuman
	RaceBug
	RaceSlime
	RaceDevil
	RacePhantom
	RaceGhost
)

var raceNames = [...]string{"animal", "human", "bug", "slime", "devil", "phantom", "ghost"}

func (r Race) String() string {
	if int(r) < len(raceNames) {
		return raceNames[r]
	}
	return fmt.Sprintf("race(%d)", uint8(r))
}

// ParseRace is the inverse of Race.String.
func ParseRace(s string) (Race, error) {
	for i, name := range raceNames {
		if name == s {
			return Race(i), nil
		}
	}
	return 0, fmt.Errorf("unknown race %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Race) MarshalText() ([]byte, error) {
	if int(r) >= len(raceNames) {
		return nil, fmt.Errorf("invalid race %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Race) UnmarshalText(b []byte) error {
	parsed, err := ParseRace(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
