package chara_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

func TestCharaID_String(t *testing.T) {
	town := chara.SiteID{Kind: chara.SiteTown, N: 3}
	assert.Equal(t, "player", chara.PlayerID().String())
	assert.Equal(t, "site:town/3#7", chara.OnSite(town, 7).String())
	assert.Equal(t, "map:dungeon/2/4#12", chara.OnMap(chara.MapID{Site: chara.SiteID{Kind: chara.SiteDungeon, N: 2}, Floor: 4}, 12).String())
}

func TestCharaID_IsOnMap(t *testing.T) {
	assert.False(t, chara.PlayerID().IsOnMap())
	assert.False(t, chara.OnSite(chara.SiteID{}, 0).IsOnMap())
	assert.True(t, chara.OnMap(chara.MapID{}, 0).IsOnMap())
}

func TestCharaID_StructuralEquality(t *testing.T) {
	mid := chara.MapID{Site: chara.SiteID{Kind: chara.SiteDungeon, N: 1}, Floor: 2}
	a := chara.OnMap(mid, 5)
	b := chara.OnMap(mid, 5)
	assert.True(t, a == b)

	m := map[chara.CharaID]int{a: 1}
	assert.Equal(t, 1, m[b])

	// Same sequence on another floor is a different character.
	other := chara.OnMap(chara.MapID{Site: mid.Site, Floor: 3}, 5)
	assert.NotEqual(t, a, other)
	// Same site number and sequence as site-scoped is a different character.
	assert.NotEqual(t, chara.OnSite(mid.Site, 5), a)
}

func TestParseCharaID_Errors(t *testing.T) {
	for _, s := range []string{
		"",
		"npc",
		"site:town/3",
		"site:castle/3#1",
		"site:town#1",
		"map:dungeon/2#1",
		"map:dungeon/2/x#1",
		"map:dungeon/2/4#-1",
		"ghost:town/1#1",
	} {
		_, err := chara.ParseCharaID(s)
		assert.Error(t, err, "expected error for %q", s)
	}
}

func TestCharaID_TextRoundTrip(t *testing.T) {
	id := chara.OnSite(chara.SiteID{Kind: chara.SiteOther, N: 9}, 1)
	text, err := id.MarshalText()
	require.NoError(t, err)

	var got chara.CharaID
	require.NoError(t, got.UnmarshalText(text))
	assert.Equal(t, id, got)
}

func TestProperty_CharaID_ParseInvertsString(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := genCharaID().Draw(rt, "id")
		got, err := chara.ParseCharaID(id.String())
		require.NoError(rt, err)
		assert.Equal(rt, id, got)
	})
}

func TestProperty_CharaID_DistinctIDsHaveDistinctStrings(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := genCharaID().Draw(rt, "a")
		b := genCharaID().Draw(rt, "b")
		assert.Equal(rt, a == b, a.String() == b.String())
	})
}

func TestCompareIDs_NumericSequence(t *testing.T) {
	floor := chara.MapID{Site: chara.SiteID{Kind: chara.SiteDungeon}, Floor: 2}
	assert.Equal(t, -1, chara.CompareIDs(chara.OnMap(floor, 2), chara.OnMap(floor, 10)))
	assert.Equal(t, 1, chara.CompareIDs(chara.OnMap(floor, 10), chara.OnMap(floor, 2)))
	assert.Equal(t, 0, chara.CompareIDs(chara.OnMap(floor, 7), chara.OnMap(floor, 7)))

	deeper := chara.MapID{Site: floor.Site, Floor: 10}
	assert.Equal(t, -1, chara.CompareIDs(chara.OnMap(floor, 99), chara.OnMap(deeper, 0)))

	town := chara.SiteID{Kind: chara.SiteTown, N: 0}
	assert.Equal(t, -1, chara.CompareIDs(chara.PlayerID(), chara.OnSite(town, 0)))
	assert.Equal(t, -1, chara.CompareIDs(chara.OnSite(town, 50), chara.OnMap(floor, 0)))
}

func TestProperty_CompareIDs_IsTotalOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := genCharaID().Draw(rt, "a")
		b := genCharaID().Draw(rt, "b")
		c := genCharaID().Draw(rt, "c")
		assert.Equal(rt, -chara.CompareIDs(a, b), chara.CompareIDs(b, a))
		assert.Equal(rt, a == b, chara.CompareIDs(a, b) == 0)
		if chara.CompareIDs(a, b) <= 0 && chara.CompareIDs(b, c) <= 0 {
			assert.LessOrEqual(rt, chara.CompareIDs(a, c), 0)
		}
	})
}
