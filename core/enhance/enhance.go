// Package enhance converts base item stats into enhancement-scaled values.
// The bonus curve is a fixed 20-entry cumulative table; accessory slots
// amplify the bonus 5x.
package enhance

import "idle-profit/core/types"

// Table selects which enhancement bonus curve to use. Two divergent
// curves exist in the wild and the canonical one has not been confirmed
// against live game data, so both are kept selectable.
type Table int

const (
	// TableStandard is the default curve: cumulative bonus
	// level*(level+19)/1000 (level 1 -> 2%, level 10 -> 29%,
	// level 20 -> 78%)
	TableStandard Table = iota

	// TableLegacy is the older curve that reaches 100% at level 20
	TableLegacy
)

// ParseTable maps a config string to a Table, defaulting to standard
func ParseTable(name string) Table {
	if name == "legacy" {
		return TableLegacy
	}
	return TableStandard
}

// MaxLevel is the highest enhancement level with a table entry
const MaxLevel = 20

// standardBonus[level] is the cumulative bonus fraction at that level.
// Entry i equals i*(i+19)/1000.
var standardBonus = [MaxLevel + 1]float64{
	0,
	0.020, 0.042, 0.066, 0.092, 0.120,
	0.150, 0.182, 0.216, 0.252, 0.290,
	0.330, 0.372, 0.416, 0.462, 0.510,
	0.560, 0.612, 0.666, 0.722, 0.780,
}

// legacyBonus[level] equals i*(i+30)/1000 and hits 1.00 at level 20.
var legacyBonus = [MaxLevel + 1]float64{
	0,
	0.031, 0.064, 0.099, 0.136, 0.175,
	0.216, 0.259, 0.304, 0.351, 0.400,
	0.451, 0.504, 0.559, 0.616, 0.675,
	0.736, 0.799, 0.864, 0.931, 1.000,
}

// Bonus returns the cumulative bonus fraction for a level. Levels outside
// [0,20] clamp to zero bonus; they never raise an error.
func (t Table) Bonus(level int) float64 {
	if level < 0 || level > MaxLevel {
		return 0
	}
	if t == TableLegacy {
		return legacyBonus[level]
	}
	return standardBonus[level]
}

// accessoryFactor amplifies the enhancement bonus on accessory slots
const accessoryFactor = 5.0

// Multiplier returns the stat multiplier for a slot and enhancement
// level. Level 0 and out-of-range levels yield the identity multiplier.
func (t Table) Multiplier(slot types.EquipmentSlot, level int) float64 {
	factor := 1.0
	if slot.IsAccessory() {
		factor = accessoryFactor
	}
	return 1 + t.Bonus(level)*factor
}

// Scale applies the enhancement multiplier to a base stat value
func (t Table) Scale(baseValue float64, slot types.EquipmentSlot, level int) float64 {
	return baseValue * t.Multiplier(slot, level)
}

// ScaleItemStat scales one noncombat stat of an equipped item
func (t Table) ScaleItemStat(item types.EquipmentItem, stat string) float64 {
	return t.Scale(item.Stat(stat), item.Slot, item.EnhancementLevel)
}

// ScaleConcentration linearly amplifies a consumable buff magnitude by
// the character's drink concentration stat. Only consumable-sourced
// bonuses go through this; equipment, house, community and achievement
// bonuses never do.
func ScaleConcentration(flatBoost, concentration float64) float64 {
	return flatBoost * (1 + concentration)
}
