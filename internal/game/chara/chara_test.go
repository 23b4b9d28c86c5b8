package chara_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

type revisionTable map[chara.StatusKind]chara.CharaAttrRevision

func (r revisionTable) RevisionFor(kind chara.StatusKind) chara.CharaAttrRevision {
	return r[kind]
}

func TestDefaultChara(t *testing.T) {
	c := chara.DefaultChara()
	assert.Nil(t, c.Name)
	assert.Equal(t, "unnamed", c.DisplayName("unnamed"))
	assert.Equal(t, chara.ClassCivilian, c.Class)
	assert.Equal(t, chara.Neutral, c.Rel)
	assert.Equal(t, int32(chara.DefaultHP), c.HP)
	assert.Equal(t, uint32(chara.WaitTimeNumerator), c.WaitTime)
	assert.NotNil(t, c.Items)
	assert.NotNil(t, c.Equip)
	assert.NotNil(t, c.Status)
	assert.False(t, c.IsDead())
}

func TestIsDead(t *testing.T) {
	c := chara.DefaultChara()
	c.HP = 0
	assert.True(t, c.IsDead())
	c.HP = -4
	assert.True(t, c.IsDead())
}

func TestRecompute_AppliesEquipmentAndStatus(t *testing.T) {
	c := chara.DefaultChara()
	c.Base = chara.CharaBaseAttr{BaseHP: 40, Str: 10, Spd: 100}
	c.Attr.ViewRange = 8
	c.Equip = chara.EquipItemList{{Slot: "weapon", ItemID: "club", Revision: chara.CharaAttrRevision{Str: 3}}}
	c.AddStatus(chara.CharaStatus{Kind: chara.StatusWeak})

	statuses := revisionTable{chara.StatusWeak: {Str: -5, Spd: -20}}
	c.Recompute(statuses)

	assert.Equal(t, chara.CharaAttributes{MaxHP: 40, Str: 8, Spd: 80, ViewRange: 8}, c.Attr)
	assert.Equal(t, int32(chara.DefaultHP), c.HP, "recompute leaves current hp alone")
}

func TestRecompute_NilStatusesIgnoresStatuses(t *testing.T) {
	c := chara.DefaultChara()
	c.Base = chara.CharaBaseAttr{BaseHP: 10, Str: 5}
	c.AddStatus(chara.CharaStatus{Kind: chara.StatusWeak})
	c.Recompute(nil)
	assert.Equal(t, uint16(5), c.Attr.Str)
	assert.Len(t, c.Revisions(nil), 0)
}

func TestCharaClass_Text(t *testing.T) {
	for _, cls := range []chara.CharaClass{
		chara.ClassNone, chara.ClassAdventurer, chara.ClassRogue,
		chara.ClassSorcerer, chara.ClassWarrior, chara.ClassCivilian,
	} {
		b, err := cls.MarshalText()
		require.NoError(t, err)
		var got chara.CharaClass
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, cls, got)
	}
	var bad chara.CharaClass
	assert.Error(t, bad.UnmarshalText([]byte("bard")))
}
