// Package chara defines the character record, its identity, the attribute
// model and the two-partition character holder.
package chara

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// SiteKind distinguishes the kind of site a map or citizen belongs to.
type SiteKind uint8

const (
	// SiteDungeon is an auto-generated dungeon.
	SiteDungeon SiteKind = iota
	// SiteTown is a settlement with permanent residents.
	SiteTown
	// SiteOther covers any hand-authored site that is neither.
	SiteOther
)

var siteKindNames = [...]string{"dungeon", "town", "other"}

// String returns the lower-case name of k.
func (k SiteKind) String() string {
	if int(k) < len(siteKindNames) {
		return siteKindNames[k]
	}
	return fmt.Sprintf("site_kind(%d)", uint8(k))
}

// ParseSiteKind is the inverse of SiteKind.String.
func ParseSiteKind(s string) (SiteKind, error) {
	for i, name := range siteKindNames {
		if name == s {
			return SiteKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown site kind %q", s)
}

// SiteID identifies one site.
type SiteID struct {
	Kind SiteKind
	N    uint32
}

// String renders the site as "<kind>/<n>".
func (s SiteID) String() string {
	return fmt.Sprintf("%s/%d", s.Kind, s.N)
}

// MapID identifies one floor of one site.
type MapID struct {
	Site  SiteID
	Floor uint32
}

// String renders the map as "<kind>/<n>/<floor>".
func (m MapID) String() string {
	return fmt.Sprintf("%s/%d", m.Site, m.Floor)
}

// CharaKind is the discriminant of a CharaID.
type CharaKind uint8

const (
	// KindPlayer is the unique player character.
	KindPlayer CharaKind = iota
	// KindOnSite characters are bound to a site, e.g. town citizens.
	KindOnSite
	// KindOnMap characters exist only while one map is loaded.
	// Randomly generated characters use this kind.
	KindOnMap
)

// CharaID addresses exactly one character.
//
// Invariant: fields that do not belong to Kind are zero, so CharaID can be
// compared with == and used as a map key. Always build ids through PlayerID,
// OnSite or OnMap.
type CharaID struct {
	Kind CharaKind
	Site SiteID
	Map  MapID
	N    uint32
}

// PlayerID returns the id of the player character.
func PlayerID() CharaID {
	return CharaID{Kind: KindPlayer}
}

// OnSite returns the id of the n-th character bound to site.
func OnSite(site SiteID, n uint32) CharaID {
	return CharaID{Kind: KindOnSite, Site: site, N: n}
}

// OnMap returns the id of the n-th character generated for mid.
func OnMap(mid MapID, n uint32) CharaID {
	return CharaID{Kind: KindOnMap, Map: mid, N: n}
}

// IsOnMap reports whether id lives in the transient partition.
func (id CharaID) IsOnMap() bool {
	return id.Kind == KindOnMap
}

// String renders id in the form accepted by ParseCharaID.
func (id CharaID) String() string {
	switch id.Kind {
	case KindPlayer:
		return "player"
	case KindOnSite:
		return fmt.Sprintf("site:%s#%d", id.Site, id.N)
	case KindOnMap:
		return fmt.Sprintf("map:%s#%d", id.Map, id.N)
	default:
		return fmt.Sprintf("chara_kind(%d)#%d", uint8(id.Kind), id.N)
	}
}

// CompareIDs orders ids by kind, then site or map, then sequence number,
// comparing numbers numerically. It returns -1, 0 or +1.
func CompareIDs(a, b CharaID) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		compareSites(a.Site, b.Site),
		compareSites(a.Map.Site, b.Map.Site),
		cmp.Compare(a.Map.Floor, b.Map.Floor),
		cmp.Compare(a.N, b.N),
	)
}

func compareSites(a, b SiteID) int {
	return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.N, b.N))
}

// MarshalText implements encoding.TextMarshaler.
func (id CharaID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *CharaID) UnmarshalText(b []byte) error {
	parsed, err := ParseCharaID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseCharaID parses the output of CharaID.String.
//
// Postcondition: ParseCharaID(id.String()) == id for every id built by
// PlayerID, OnSite or OnMap.
func ParseCharaID(s string) (CharaID, error) {
	if s == "player" {
		return PlayerID(), nil
	}
	prefix, rest, ok := strings.Cut(s, ":")
	if !ok {
		return CharaID{}, fmt.Errorf("chara id %q: missing kind prefix", s)
	}
	path, seq, ok := strings.Cut(rest, "#")
	if !ok {
		return CharaID{}, fmt.Errorf("chara id %q: missing sequence", s)
	}
	n, err := parseUint32(seq)
	if err != nil {
		return CharaID{}, fmt.Errorf("chara id %q: sequence: %w", s, err)
	}
	parts := strings.Split(path, "/")

	switch prefix {
	case "site":
		if len(parts) != 2 {
			return CharaID{}, fmt.Errorf("chara id %q: want site:<kind>/<n>#<seq>", s)
		}
		site, err := parseSite(parts[0], parts[1])
		if err != nil {
			return CharaID{}, fmt.Errorf("chara id %q: %w", s, err)
		}
		return OnSite(site, n), nil
	case "map":
		if len(parts) != 3 {
			return CharaID{}, fmt.Errorf("chara id %q: want map:<kind>/<n>/<floor>#<seq>", s)
		}
		site, err := parseSite(parts[0], parts[1])
		if err != nil {
			return CharaID{}, fmt.Errorf("chara id %q: %w", s, err)
		}
		floor, err := parseUint32(parts[2])
		if err != nil {
			return CharaID{}, fmt.Errorf("chara id %q: floor: %w", s, err)
		}
		return OnMap(MapID{Site: site, Floor: floor}, n), nil
	default:
		return CharaID{}, fmt.Errorf("chara id %q: unknown kind %q", s, prefix)
	}
}

func parseSite(kind, n string) (SiteID, error) {
	k, err := ParseSiteKind(kind)
	if err != nil {
		return SiteID{}, err
	}
	num, err := parseUint32(n)
	if err != nil {
		return SiteID{}, fmt.Errorf("site number: %w", err)
	}
	return SiteID{Kind: k, N: num}, nil
}

func parseUint32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
