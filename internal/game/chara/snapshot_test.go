package chara_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

func TestPartitionOf(t *testing.T) {
	assert.Equal(t, chara.PartitionPersistent, chara.PartitionOf(chara.PlayerID()))
	assert.Equal(t, chara.PartitionPersistent, chara.PartitionOf(chara.OnSite(testTown, 0)))
	assert.Equal(t, chara.PartitionOnMap, chara.PartitionOf(chara.OnMap(testFloor, 0)))
}

func TestSnapshot_IsDetached(t *testing.T) {
	h := chara.NewHolder(nil)
	h.Add(chara.PlayerID(), namedChara("player"))
	snap := h.Snapshot()
	require.Len(t, snap.Persistent, 1)
	assert.Empty(t, snap.OnMap)

	snap.Persistent[0].Chara.HP = 1
	*snap.Persistent[0].Chara.Name = "changed"
	assert.Equal(t, int32(chara.DefaultHP), h.Get(chara.PlayerID()).HP)
	assert.Equal(t, "player", h.Get(chara.PlayerID()).DisplayName(""))
}

func TestRestore_RoundTrip(t *testing.T) {
	h := chara.NewHolder(nil)
	player := namedChara("player")
	player.AddStatus(chara.CharaStatus{Kind: chara.StatusAsleep, TurnLeft: 3})
	player.Skills["sword"] = 4
	h.Add(chara.PlayerID(), player)
	h.Add(chara.OnSite(testTown, 2), namedChara("smith"))
	h.Add(chara.OnMap(testFloor, 0), namedChara("rat"))

	restored, err := chara.Restore(h.Snapshot(), nil)
	require.NoError(t, err)
	assert.Equal(t, h.IDs(), restored.IDs())
	for _, id := range h.IDs() {
		assert.Equal(t, h.Get(id), restored.Get(id))
		assert.NotSame(t, h.Get(id), restored.Get(id))
	}
}

func TestRestore_RejectsWrongPartition(t *testing.T) {
	_, err := chara.Restore(chara.Snapshot{
		Persistent: []chara.Record{{ID: chara.OnMap(testFloor, 0), Chara: chara.DefaultChara()}},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_map")

	_, err = chara.Restore(chara.Snapshot{
		OnMap: []chara.Record{{ID: chara.PlayerID(), Chara: chara.DefaultChara()}},
	}, nil)
	require.Error(t, err)
}

func TestRestore_RejectsNilBody(t *testing.T) {
	_, err := chara.Restore(chara.Snapshot{
		Persistent: []chara.Record{{ID: chara.PlayerID()}},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing record body")
}

func TestRestore_RejectsDuplicates(t *testing.T) {
	rec := chara.Record{ID: chara.OnSite(testTown, 1), Chara: chara.DefaultChara()}
	_, err := chara.Restore(chara.Snapshot{Persistent: []chara.Record{rec, rec}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestClone_Nil(t *testing.T) {
	var c *chara.Chara
	assert.Nil(t, c.Clone())
}

func TestProperty_SnapshotRestore_PreservesLookups(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := chara.NewHolder(nil)
		ids := rapid.SliceOfNDistinct(genCharaID(), 0, 15, func(id chara.CharaID) chara.CharaID { return id }).Draw(rt, "ids")
		for _, id := range ids {
			c := chara.DefaultChara()
			c.HP = rapid.Int32Range(-10, 500).Draw(rt, "hp")
			c.Rel = genRelationship().Draw(rt, "rel")
			h.Add(id, c)
		}

		restored, err := chara.Restore(h.Snapshot(), nil)
		require.NoError(rt, err)
		assert.Equal(rt, h.Len(), restored.Len())
		for _, id := range ids {
			assert.Equal(rt, h.Get(id), restored.Get(id))
		}
	})
}
