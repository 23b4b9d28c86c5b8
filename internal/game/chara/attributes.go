package chara

// CharaAttributes are the render-facing values computed from the base
// attributes and every active revision source.
type CharaAttributes struct {
	MaxHP int32  `yaml:"max_hp" json:"max_hp"`
	Str   uint16 `yaml:"str" json:"str"`
	Vit   uint16 `yaml:"vit" json:"vit"`
	Dex   uint16 `yaml:"dex" json:"dex"`
	Int   uint16 `yaml:"int" json:"int"`
	Wil   uint16 `yaml:"wil" json:"wil"`
	Cha   uint16 `yaml:"cha" json:"cha"`
	Spd   uint16 `yaml:"spd" json:"spd"`
	// ViewRange is the range of view in tiles.
	ViewRange int32 `yaml:"view_range" json:"view_range"`
}

// CharaBaseAttr holds attribute values derived from a template and level,
// before temporary modifiers.
type CharaBaseAttr struct {
	BaseHP int32 `yaml:"base_hp" json:"base_hp"`
	Str    int16 `yaml:"str" json:"str"`
	Vit    int16 `yaml:"vit" json:"vit"`
	Dex    int16 `yaml:"dex" json:"dex"`
	Int    int16 `yaml:"int" json:"int"`
	Wil    int16 `yaml:"wil" json:"wil"`
	Cha    int16 `yaml:"cha" json:"cha"`
	Spd    int16 `yaml:"spd" json:"spd"`
}

// CharaAttrRevision is the net effect of one modifier source (equipment,
// buff, status). The zero value changes nothing.
type CharaAttrRevision struct {
	HP  int32 `yaml:"hp,omitempty" json:"hp,omitempty"`
	Str int16 `yaml:"str,omitempty" json:"str,omitempty"`
	Vit int16 `yaml:"vit,omitempty" json:"vit,omitempty"`
	Dex int16 `yaml:"dex,omitempty" json:"dex,omitempty"`
	Int int16 `yaml:"int,omitempty" json:"int,omitempty"`
	Wil int16 `yaml:"wil,omitempty" json:"wil,omitempty"`
	Cha int16 `yaml:"cha,omitempty" json:"cha,omitempty"`
	Spd int16 `yaml:"spd,omitempty" json:"spd,omitempty"`
}

// BaseStats is implemented by anything that declares base attribute values,
// typically a character template.
type BaseStats interface {
	BaseAttr() CharaBaseAttr
}

// DeriveBase returns the base attributes of a freshly created character.
// Level scaling is applied by leveling logic, so level does not change the
// result here.
//
// Precondition: src must be non-nil.
func DeriveBase(src BaseStats, _ uint32) CharaBaseAttr {
	return src.BaseAttr()
}

// Revise returns b with r added elementwise. No clamping is applied.
func (b CharaBaseAttr) Revise(r CharaAttrRevision) CharaBaseAttr {
	return CharaBaseAttr{
		BaseHP: b.BaseHP + r.HP,
		Str:    b.Str + r.Str,
		Vit:    b.Vit + r.Vit,
		Dex:    b.Dex + r.Dex,
		Int:    b.Int + r.Int,
		Wil:    b.Wil + r.Wil,
		Cha:    b.Cha + r.Cha,
		Spd:    b.Spd + r.Spd,
	}
}

// Add combines two revisions.
//
// Postcondition: a.Add(b) == b.Add(a); a.Add(CharaAttrRevision{}) == a.
func (r CharaAttrRevision) Add(o CharaAttrRevision) CharaAttrRevision {
	return CharaAttrRevision{
		HP:  r.HP + o.HP,
		Str: r.Str + o.Str,
		Vit: r.Vit + o.Vit,
		Dex: r.Dex + o.Dex,
		Int: r.Int + o.Int,
		Wil: r.Wil + o.Wil,
		Cha: r.Cha + o.Cha,
		Spd: r.Spd + o.Spd,
	}
}

// SumRevisions folds rs with Add starting from the zero revision.
func SumRevisions(rs ...CharaAttrRevision) CharaAttrRevision {
	var total CharaAttrRevision
	for _, r := range rs {
		total = total.Add(r)
	}
	return total
}

// Compose applies every revision to base and converts the result into
// render-facing attributes. Negative stats are clamped to zero at this
// conversion; MaxHP is passed through unclamped.
func Compose(base CharaBaseAttr, viewRange int32, revisions ...CharaAttrRevision) CharaAttributes {
	b := base.Revise(SumRevisions(revisions...))
	return CharaAttributes{
		MaxHP:     b.BaseHP,
		Str:       toStat(b.Str),
		Vit:       toStat(b.Vit),
		Dex:       toStat(b.Dex),
		Int:       toStat(b.Int),
		Wil:       toStat(b.Wil),
		Cha:       toStat(b.Cha),
		Spd:       toStat(b.Spd),
		ViewRange: viewRange,
	}
}

func toStat(v int16) uint16 {
	if v < 0 {
		return 0
	}
	return uint16(v)
}
