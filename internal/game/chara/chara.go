package chara

import "fmt"

// WaitTimeNumerator seeds the turn scheduling counter of new characters.
const WaitTimeNumerator uint32 = 100000

// DefaultHP is the current hit points of a default character before a
// template is applied.
const DefaultHP int32 = 100

// TemplateIdx indexes the character template table.
type TemplateIdx uint32

// CharaClass is a character's class.
type CharaClass uint16

const (
	ClassNone CharaClass = 0
	// Playable classes
	ClassAdventurer CharaClass = 100
	ClassRogue      CharaClass = 101
	ClassSorcerer   CharaClass = 102
	ClassWarrior    CharaClass = 103
	// NPC classes
	ClassCivilian CharaClass = 200
)

var classNames = map[CharaClass]string{
	ClassNone:       "none",
	ClassAdventurer: "adventurer",
	ClassRogue:      "rogue",
	ClassSorcerer:   "sorcerer",
	ClassWarrior:    "warrior",
	ClassCivilian:   "civilian",
}

func (c CharaClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint16(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c CharaClass) MarshalText() ([]byte, error) {
	if _, ok := classNames[c]; !ok {
		return nil, fmt.Errorf("invalid chara class %d", uint16(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CharaClass) UnmarshalText(b []byte) error {
	for k, name := range classNames {
		if name == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown chara class %q", string(b))
}

// NpcAIKind is the rough kind of NPC behaviour.
type NpcAIKind uint8

const (
	// AINone does nothing.
	AINone NpcAIKind = iota
	// AINoMove never moves.
	AINoMove
	// AIMelee chases nearby enemies and tries melee attacks.
	AIMelee
)

var aiKindNames = [...]string{"none", "no_move", "melee"}

func (k NpcAIKind) String() string {
	if int(k) < len(aiKindNames) {
		return aiKindNames[k]
	}
	return fmt.Sprintf("ai_kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NpcAIKind) MarshalText() ([]byte, error) {
	if int(k) >= len(aiKindNames) {
		return nil, fmt.Errorf("invalid npc ai kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NpcAIKind) UnmarshalText(b []byte) error {
	for i, name := range aiKindNames {
		if name == string(b) {
			*k = NpcAIKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown npc ai kind %q", string(b))
}

// CharaAI is the directive driving an NPC's actions.
type CharaAI struct {
	Kind NpcAIKind `yaml:"kind" json:"kind"`
}

// CharaTalk points at the talk script section started when the character is
// talked to.
type CharaTalk struct {
	// ID is the talk script id.
	ID string `yaml:"id" json:"id"`
	// Section is the section of the talk script to start from.
	Section string `yaml:"section" json:"section"`
}

// ItemStack is one inventory entry.
type ItemStack struct {
	ItemID string `yaml:"item_id" json:"item_id"`
	Count  uint32 `yaml:"count" json:"count"`
}

// ItemList is a character's inventory in pickup order.
type ItemList []ItemStack

// EquippedItem is an item worn in a slot together with the revision it grants.
type EquippedItem struct {
	Slot     string            `yaml:"slot" json:"slot"`
	ItemID   string            `yaml:"item_id" json:"item_id"`
	Revision CharaAttrRevision `yaml:"revision" json:"revision"`
}

// EquipItemList holds every equipped item.
type EquipItemList []EquippedItem

// SkillList maps skill id to skill level.
type SkillList map[string]uint32

// Chara is the complete record for one character.
type Chara struct {
	Name     *string         `yaml:"name,omitempty" json:"name,omitempty"`
	Attr     CharaAttributes `yaml:"attr" json:"attr"`
	Base     CharaBaseAttr   `yaml:"base" json:"base"`
	Template TemplateIdx     `yaml:"template" json:"template"`
	Class    CharaClass      `yaml:"class" json:"class"`
	Level    uint32          `yaml:"level" json:"level"`
	Items    ItemList        `yaml:"items" json:"items"`
	Equip    EquipItemList   `yaml:"equip" json:"equip"`
	// WaitTime is the turn scheduling counter.
	WaitTime uint32        `yaml:"wait_time" json:"wait_time"`
	AI       CharaAI       `yaml:"ai" json:"ai"`
	HP       int32         `yaml:"hp" json:"hp"`
	SP       int32         `yaml:"sp" json:"sp"`
	Status   []CharaStatus `yaml:"status" json:"status"`
	Skills   SkillList     `yaml:"skills" json:"skills"`
	// Rel is the relationship to the player character.
	Rel Relationship `yaml:"rel" json:"rel"`
	// Talk is started when the character is talked to; nil means no talk.
	Talk *CharaTalk `yaml:"talk,omitempty" json:"talk,omitempty"`
}

// DefaultChara returns a character with every field at its default.
//
// Postcondition: Class == ClassCivilian; HP == DefaultHP; Rel == Neutral;
// WaitTime == WaitTimeNumerator; Items, Equip and Status are empty and non-nil.
func DefaultChara() *Chara {
	return &Chara{
		Class:    ClassCivilian,
		Items:    ItemList{},
		Equip:    EquipItemList{},
		WaitTime: WaitTimeNumerator,
		AI:       CharaAI{Kind: AINone},
		HP:       DefaultHP,
		Status:   []CharaStatus{},
		Skills:   SkillList{},
		Rel:      Neutral,
	}
}

// DisplayName returns the character's name, or fallback when unnamed.
func (c *Chara) DisplayName(fallback string) string {
	if c.Name == nil {
		return fallback
	}
	return *c.Name
}

// IsDead reports whether the character has zero or fewer hit points.
func (c *Chara) IsDead() bool {
	return c.HP <= 0
}

// StatusRevisions resolves the attribute revision granted by a status.
type StatusRevisions interface {
	RevisionFor(kind StatusKind) CharaAttrRevision
}

// Revisions returns every revision currently affecting the character: one
// per equipped item followed by one per active status.
//
// Precondition: statuses may be nil, in which case statuses contribute nothing.
func (c *Chara) Revisions(statuses StatusRevisions) []CharaAttrRevision {
	out := make([]CharaAttrRevision, 0, len(c.Equip)+len(c.Status))
	for _, e := range c.Equip {
		out = append(out, e.Revision)
	}
	if statuses != nil {
		for _, s := range c.Status {
			out = append(out, statuses.RevisionFor(s.Kind))
		}
	}
	return out
}

// Recompute rebuilds Attr from Base and every active revision source.
// Current HP is left alone; callers decide how HP follows a MaxHP change.
//
// Postcondition: Attr == Compose(Base, Attr.ViewRange, Revisions(statuses)...).
func (c *Chara) Recompute(statuses StatusRevisions) {
	c.Attr = Compose(c.Base, c.Attr.ViewRange, c.Revisions(statuses)...)
}
