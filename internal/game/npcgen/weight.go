// Package npcgen chooses character templates for a dungeon floor and builds
// freshly generated NPCs from them.
package npcgen

// UpperMargin is the number of levels above the floor over which a
// template's level weight falls from 1 to 0.
const UpperMargin = 5.0

// LevelWeight weights a template native to genLevel for a floor.
// The weight rises linearly from 0 at genLevel 0 to 1 at genLevel == floor,
// then falls linearly to 0 over UpperMargin levels above floor.
//
// Floor 0 has no rising side: genLevel 0 weighs 1.
//
// Postcondition: result in [0, 1]; LevelWeight(f, f) == 1;
// LevelWeight(f, l) == 0 for l >= f + UpperMargin.
func LevelWeight(floor, genLevel uint32) float64 {
	f := float64(floor)
	l := float64(genLevel)
	if genLevel <= floor {
		if floor == 0 {
			return 1
		}
		return l / f
	}
	a := -(l / UpperMargin) + 1 + (f / UpperMargin)
	if a < 0 {
		return 0
	}
	return a
}
