package chara_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/ruins/internal/game/chara"
)

func TestRelationship_Relative_FullTable(t *testing.T) {
	A, F, N, H := chara.Ally, chara.Friendly, chara.Neutral, chara.Hostile
	want := map[chara.Relationship][4]chara.Relationship{
		A: {A, F, N, H},
		F: {F, F, N, H},
		N: {N, N, N, N},
		H: {H, H, N, F},
	}
	for base, row := range want {
		for ctx, expected := range row {
			got := base.Relative(chara.Relationship(ctx))
			assert.Equal(t, expected, got, "%s.Relative(%s)", base, chara.Relationship(ctx))
		}
	}
}

func TestRelationship_Relative_IsAsymmetric(t *testing.T) {
	assert.Equal(t, chara.Hostile, chara.Hostile.Relative(chara.Friendly))
	assert.Equal(t, chara.Hostile, chara.Friendly.Relative(chara.Hostile))
	assert.Equal(t, chara.Hostile, chara.Ally.Relative(chara.Hostile))
	assert.Equal(t, chara.Hostile, chara.Hostile.Relative(chara.Ally))
	assert.Equal(t, chara.Neutral, chara.Neutral.Relative(chara.Ally))
	assert.Equal(t, chara.Ally, chara.Ally.Relative(chara.Ally))
}

func TestRelationship_Relative_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { chara.Relationship(9).Relative(chara.Ally) })
	assert.Panics(t, func() { chara.Ally.Relative(chara.Relationship(4)) })
}

func TestRelationship_TextRoundTrip(t *testing.T) {
	for _, r := range []chara.Relationship{chara.Ally, chara.Friendly, chara.Neutral, chara.Hostile} {
		text, err := r.MarshalText()
		require.NoError(t, err)
		var got chara.Relationship
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, r, got)
	}
	var r chara.Relationship
	assert.Error(t, r.UnmarshalText([]byte("enemy")))
	_, err := chara.Relationship(7).MarshalText()
	assert.Error(t, err)
}

func TestProperty_Relationship_AllyDefersToContext(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := genRelationship().Draw(rt, "x")
		assert.Equal(rt, x, chara.Ally.Relative(x))
	})
}

func TestProperty_Relationship_NeutralAbsorbs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := genRelationship().Draw(rt, "x")
		assert.Equal(rt, chara.Neutral, chara.Neutral.Relative(x))
		assert.Equal(rt, chara.Neutral, x.Relative(chara.Neutral))
	})
}

func TestProperty_Relationship_HostileOnlyAgainstHostileContext(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := genRelationship().Draw(rt, "base")
		ctx := genRelationship().Draw(rt, "ctx")
		got := base.Relative(ctx)
		if got.IsHostile() {
			assert.True(rt, base.IsHostile() != ctx.IsHostile(),
				"hostile result requires exactly one hostile operand, got %s.Relative(%s)", base, ctx)
		}
	})
}
