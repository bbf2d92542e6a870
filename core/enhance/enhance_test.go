package enhance

import (
	"math"
	"testing"

	"idle-profit/core/types"
)

func TestBonusKnownValues(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 0},
		{1, 0.02},
		{10, 0.29},
		{20, 0.78},
	}

	for _, tt := range tests {
		got := TableStandard.Bonus(tt.level)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Bonus(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}

	if got := TableLegacy.Bonus(20); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("legacy Bonus(20) = %v, want 1.0", got)
	}
}

func TestMultiplierIdentityAtZero(t *testing.T) {
	for _, table := range []Table{TableStandard, TableLegacy} {
		if got := table.Multiplier(types.SlotHead, 0); got != 1.0 {
			t.Errorf("Multiplier(head, 0) = %v, want 1", got)
		}
		if got := table.Multiplier(types.SlotRing, 0); got != 1.0 {
			t.Errorf("Multiplier(ring, 0) = %v, want 1", got)
		}
	}
}

func TestMultiplierMonotonic(t *testing.T) {
	for _, table := range []Table{TableStandard, TableLegacy} {
		for level := 0; level < MaxLevel; level++ {
			lo := table.Multiplier(types.SlotBody, level)
			hi := table.Multiplier(types.SlotBody, level+1)
			if hi < lo {
				t.Errorf("multiplier decreased from level %d (%v) to %d (%v)", level, lo, level+1, hi)
			}
		}
	}
}

func TestOutOfRangeLevelClamps(t *testing.T) {
	for _, level := range []int{-1, -20, 21, 100} {
		if got := TableStandard.Multiplier(types.SlotNeck, level); got != 1.0 {
			t.Errorf("Multiplier(neck, %d) = %v, want identity", level, got)
		}
	}
}

func TestAccessoryScalesFivefold(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		accessory := TableStandard.Multiplier(types.SlotEarrings, level) - 1
		other := TableStandard.Multiplier(types.SlotLegs, level) - 1
		if math.Abs(accessory-5*other) > 1e-9 {
			t.Errorf("level %d: accessory bonus %v != 5 * %v", level, accessory, other)
		}
	}
}

func TestScaleItemStat(t *testing.T) {
	item := types.EquipmentItem{
		ItemHrid:         "/items/red_chefs_hat",
		EnhancementLevel: 10,
		Slot:             types.SlotHead,
		NoncombatStats:   map[string]float64{"cookingSpeed": 4.0},
	}

	got := TableStandard.ScaleItemStat(item, "cookingSpeed")
	want := 4.0 * 1.29
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ScaleItemStat = %v, want %v", got, want)
	}

	// A stat the item does not carry scales to zero.
	if got := TableStandard.ScaleItemStat(item, "brewingSpeed"); got != 0 {
		t.Errorf("missing stat scaled to %v, want 0", got)
	}
}

func TestScaleConcentrationLinearity(t *testing.T) {
	tests := []struct {
		base          float64
		concentration float64
		want          float64
	}{
		{6.0, 0, 6.0},
		{6.0, 0.12, 6.72},
		{10.0, 0.5, 15.0},
		{0, 0.3, 0},
	}

	for _, tt := range tests {
		got := ScaleConcentration(tt.base, tt.concentration)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScaleConcentration(%v, %v) = %v, want %v", tt.base, tt.concentration, got, tt.want)
		}
	}
}

func TestParseTable(t *testing.T) {
	if ParseTable("legacy") != TableLegacy {
		t.Error("ParseTable(legacy) should select the legacy table")
	}
	if ParseTable("standard") != TableStandard {
		t.Error("ParseTable(standard) should select the standard table")
	}
	if ParseTable("") != TableStandard {
		t.Error("ParseTable should default to the standard table")
	}
}
