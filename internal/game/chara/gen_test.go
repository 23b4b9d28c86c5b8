package chara_test

import (
	"pgregory.net/rapid"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

func genSiteID() *rapid.Generator[chara.SiteID] {
	return rapid.Custom(func(t *rapid.T) chara.SiteID {
		return chara.SiteID{
			Kind: chara.SiteKind(rapid.IntRange(0, 2).Draw(t, "site_kind")),
			N:    rapid.Uint32().Draw(t, "site_n"),
		}
	})
}

func genMapID() *rapid.Generator[chara.MapID] {
	return rapid.Custom(func(t *rapid.T) chara.MapID {
		return chara.MapID{
			Site:  genSiteID().Draw(t, "site"),
			Floor: rapid.Uint32().Draw(t, "floor"),
		}
	})
}

func genCharaID() *rapid.Generator[chara.CharaID] {
	return rapid.Custom(func(t *rapid.T) chara.CharaID {
		switch rapid.IntRange(0, 2).Draw(t, "kind") {
		case 0:
			return chara.PlayerID()
		case 1:
			return chara.OnSite(genSiteID().Draw(t, "site"), rapid.Uint32().Draw(t, "n"))
		default:
			return chara.OnMap(genMapID().Draw(t, "map"), rapid.Uint32().Draw(t, "n"))
		}
	})
}

func genRelationship() *rapid.Generator[chara.Relationship] {
	return rapid.SampledFrom([]chara.Relationship{chara.Ally, chara.Friendly, chara.Neutral, chara.Hostile})
}

func genRevision() *rapid.Generator[chara.CharaAttrRevision] {
	small := func(t *rapid.T, label string) int16 {
		return rapid.Int16Range(-1000, 1000).Draw(t, label)
	}
	return rapid.Custom(func(t *rapid.T) chara.CharaAttrRevision {
		return chara.CharaAttrRevision{
			HP:  rapid.Int32Range(-10000, 10000).Draw(t, "hp"),
			Str: small(t, "str"),
			Vit: small(t, "vit"),
			Dex: small(t, "dex"),
			Int: small(t, "int"),
			Wil: small(t, "wil"),
			Cha: small(t, "cha"),
			Spd: small(t, "spd"),
		}
	})
}

func genBase() *rapid.Generator[chara.CharaBaseAttr] {
	small := func(t *rapid.T, label string) int16 {
		return rapid.Int16Range(-1000, 1000).Draw(t, label)
	}
	return rapid.Custom(func(t *rapid.T) chara.CharaBaseAttr {
		return chara.CharaBaseAttr{
			BaseHP: rapid.Int32Range(-10000, 10000).Draw(t, "base_hp"),
			Str:    small(t, "str"),
			Vit:    small(t, "vit"),
			Dex:    small(t, "dex"),
			Int:    small(t, "int"),
			Wil:    small(t, "wil"),
			Cha:    small(t, "cha"),
			Spd:    small(t, "spd"),
		}
	})
}
