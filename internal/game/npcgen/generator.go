package npcgen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/ruins/internal/game/chara"
	"github.com/cory-johannsen/ruins/internal/game/gamedata"
	"github.com/cory-johannsen/ruins/internal/game/rng"
)

// ErrNoRule is returned when a dungeon kind has no generation rule. It is a
// content authoring defect; callers should treat it as fatal.
var ErrNoRule = errors.New("no rule for npc generation")

// ErrNoCandidate is returned when no template has a race with a nonzero
// affinity for the dungeon kind.
var ErrNoCandidate = errors.New("no npc template eligible for dungeon")

// ErrInvalidCount is returned when a negative spawn count is requested.
var ErrInvalidCount = errors.New("spawn count must be >= 0")

// ErrUnknownTemplate is returned when a template index is out of range.
var ErrUnknownTemplate = errors.New("unknown chara template")

// Generator builds NPCs from the template table according to the dungeon
// generation rules.
type Generator struct {
	templates gamedata.Templates
	rules     gamedata.Rules
	src       rng.Source
	logger    *zap.Logger
}

// NewGenerator creates a Generator.
//
// Precondition: templates, rules and src must be non-nil; logger may be nil.
func NewGenerator(templates gamedata.Templates, rules gamedata.Rules, src rng.Source, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		templates: templates,
		rules:     rules,
		src:       src,
		logger:    logger,
	}
}

// ChooseTemplate picks one template for floor of a dungeon of kind by
// roulette selection over
//
//	LevelWeight(floor, gen_level) * gen_weight * race affinity
//
// walking the template table in index order.
//
// Postcondition: Returns the chosen index; or the first eligible template
// when every weight is zero; or ErrNoRule / ErrNoCandidate.
func (g *Generator) ChooseTemplate(kind gamedata.DungeonKind, floor uint32) (chara.TemplateIdx, error) {
	races, ok := g.rules.NpcRaceProbability(kind)
	if !ok {
		g.logger.Error("missing npc generation rule", zap.String("dungeon", string(kind)))
		return 0, fmt.Errorf("%w %q", ErrNoRule, kind)
	}

	n := g.templates.Len()
	weights := make([]float64, n)
	sum := 0.0
	first := -1
	for i := 0; i < n; i++ {
		tmpl, _ := g.templates.Get(chara.TemplateIdx(i))
		affinity := races[tmpl.Race]
		if affinity <= 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		weights[i] = LevelWeight(floor, tmpl.GenLevel) * float64(tmpl.GenWeight) * float64(affinity)
		sum += weights[i]
	}
	if first < 0 {
		return 0, fmt.Errorf("%w %q", ErrNoCandidate, kind)
	}
	if sum <= 0 {
		g.logger.Debug("zero weight npc pool, using first eligible template",
			zap.String("dungeon", string(kind)),
			zap.Uint32("floor", floor),
			zap.Int("template", first),
		)
		return chara.TemplateIdx(first), nil
	}

	r := rng.Range(g.src, 0, sum)
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			g.logger.Debug("chose npc template",
				zap.String("dungeon", string(kind)),
				zap.Uint32("floor", floor),
				zap.Int("template", i),
				zap.Float64("draw", r),
				zap.Float64("sum", sum),
			)
			return chara.TemplateIdx(i), nil
		}
	}
	return chara.TemplateIdx(first), nil
}

// CreateChara builds a level 1 character from the template at idx.
//
// Postcondition: HP == Attr.MaxHP; Rel == chara.Neutral; Talk == nil; no
// equipment; WaitTime == chara.WaitTimeNumerator.
func (g *Generator) CreateChara(idx chara.TemplateIdx) (*chara.Chara, error) {
	tmpl, ok := g.templates.Get(idx)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownTemplate, idx)
	}

	c := chara.DefaultChara()
	name := tmpl.Name
	c.Name = &name
	c.Template = idx
	c.Class = tmpl.Class
	c.Level = 1
	c.AI = chara.CharaAI{Kind: tmpl.AI}
	c.Base = chara.DeriveBase(tmpl, c.Level)
	c.Attr = chara.Compose(c.Base, tmpl.ViewRange)
	c.HP = c.Attr.MaxHP
	return c, nil
}

// CreateNPC chooses a template for floor of a dungeon of kind and builds a
// hostile character from it.
//
// Postcondition: on success Rel == chara.Hostile and HP == Attr.MaxHP.
func (g *Generator) CreateNPC(kind gamedata.DungeonKind, floor uint32) (*chara.Chara, error) {
	idx, err := g.ChooseTemplate(kind, floor)
	if err != nil {
		return nil, err
	}
	c, err := g.CreateChara(idx)
	if err != nil {
		return nil, err
	}
	c.Rel = chara.Hostile
	return c, nil
}

// PopulateMap generates count NPCs for mid and returns them keyed by
// chara.OnMap(mid, 0..count-1), ready for chara.Holder.ReplaceOnMap.
//
// Precondition: count >= 0; a negative count returns ErrInvalidCount.
// Postcondition: on success len(result) == count and every key is on-map.
func (g *Generator) PopulateMap(mid chara.MapID, kind gamedata.DungeonKind, count int) (map[chara.CharaID]*chara.Chara, error) {
	if count < 0 {
		return nil, fmt.Errorf("populating map %s: %w, got %d", mid, ErrInvalidCount, count)
	}
	out := make(map[chara.CharaID]*chara.Chara, count)
	for i := 0; i < count; i++ {
		c, err := g.CreateNPC(kind, mid.Floor)
		if err != nil {
			return nil, fmt.Errorf("populating map %s: %w", mid, err)
		}
		out[chara.OnMap(mid, uint32(i))] = c
	}
	g.logger.Info("populated map",
		zap.Stringer("map", mid),
		zap.String("dungeon", string(kind)),
		zap.Int("count", count),
	)
	return out, nil
}
