package action

import (
	"math"
	"testing"
	"time"

	"idle-profit/core/bonus"
	"idle-profit/core/enhance"
	"idle-profit/core/types"
)

func newCalculator() *Calculator {
	return NewCalculator(bonus.NewAggregator(enhance.TableStandard))
}

func TestExpectedActionsExactness(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{0, 1.0},
		{50, 1.5},
		{100, 2.0},
		{150, 2.5},
		{200, 3.0},
		{250, 3.5},
		{-10, 1.0},
	}

	for _, tt := range tests {
		got := ExpectedActions(tt.percent)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ExpectedActions(%v) = %v, want %v", tt.percent, got, tt.want)
		}
	}
}

func TestTimingSpeedDivisor(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:         "/actions/cooking/egg",
		Type:         "/action_types/cooking",
		Archetype:    types.ArchetypeProduction,
		Skill:        "/skills/cooking",
		BaseTimeCost: 10 * time.Second,
	}
	state := &types.CharacterState{
		Equipment: map[types.EquipmentSlot]types.EquipmentItem{
			types.SlotHead: {
				ItemHrid:       "/items/red_chefs_hat",
				Slot:           types.SlotHead,
				NoncombatStats: map[string]float64{"cookingSpeed": 25},
			},
		},
	}

	timing := calc.Timing(state, def, false)
	if math.Abs(timing.ActionSeconds-8.0) > 1e-9 {
		t.Errorf("action seconds = %v, want 8", timing.ActionSeconds)
	}
	if math.Abs(timing.ActionsPerHourBase-450.0) > 1e-9 {
		t.Errorf("actions/hour = %v, want 450", timing.ActionsPerHourBase)
	}
}

func TestTimingTaskSpeedSecondDivisor(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:         "/actions/cooking/egg",
		Type:         "/action_types/cooking",
		Archetype:    types.ArchetypeProduction,
		Skill:        "/skills/cooking",
		BaseTimeCost: 10 * time.Second,
	}
	state := &types.CharacterState{
		Equipment: map[types.EquipmentSlot]types.EquipmentItem{
			types.SlotHead: {
				ItemHrid:       "/items/red_chefs_hat",
				Slot:           types.SlotHead,
				NoncombatStats: map[string]float64{"cookingSpeed": 25, "taskSpeed": 25},
			},
		},
	}

	plain := calc.Timing(state, def, false)
	asTask := calc.Timing(state, def, true)
	if math.Abs(asTask.ActionSeconds-plain.ActionSeconds/1.25) > 1e-9 {
		t.Errorf("task timing = %v, want %v", asTask.ActionSeconds, plain.ActionSeconds/1.25)
	}
}

func TestTimingZeroBaseTimeGuard(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:      "/actions/cooking/egg",
		Type:      "/action_types/cooking",
		Archetype: types.ArchetypeProduction,
		Skill:     "/skills/cooking",
	}

	timing := calc.Timing(nil, def, false)
	if timing.ActionsPerHourBase != 0 {
		t.Errorf("zero base time gave %v actions/hour, want 0", timing.ActionsPerHourBase)
	}
	if math.IsNaN(timing.ActionsPerHourEffective) || math.IsInf(timing.ActionsPerHourEffective, 0) {
		t.Errorf("effective rate not finite: %v", timing.ActionsPerHourEffective)
	}
}

func TestGatheringOutputs(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:         "/actions/milking/cow",
		Type:         "/action_types/milking",
		Archetype:    types.ArchetypeGathering,
		Skill:        "/skills/milking",
		BaseTimeCost: 6 * time.Second,
		DropTable: []types.DropEntry{
			{ItemHrid: "/items/milk", DropRate: 1, MinCount: 1, MaxCount: 2},
		},
		RareDropTable: []types.DropEntry{
			{ItemHrid: "/items/butter_of_proficiency", DropRate: 0.0001, MinCount: 1, MaxCount: 1},
		},
		EssenceDropTable: []types.DropEntry{
			{ItemHrid: "/items/milking_essence", DropRate: 0.01, MinCount: 1, MaxCount: 1},
		},
	}
	state := &types.CharacterState{
		Equipment: map[types.EquipmentSlot]types.EquipmentItem{
			types.SlotCharm: {
				ItemHrid:       "/items/gathering_charm",
				Slot:           types.SlotCharm,
				NoncombatStats: map[string]float64{"gatheringQuantity": 10, "skillingRareFind": 50},
			},
		},
	}

	rates := calc.Outputs(state, def)
	// 600 attempts/hour * rate 1 * avg 1.5 * 1.10 quantity * 1 expected
	wantMilk := 600 * 1.5 * 1.10
	got := findRate(t, rates, "/items/milk")
	if math.Abs(got-wantMilk) > 1e-6 {
		t.Errorf("milk/hour = %v, want %v", got, wantMilk)
	}

	// rare tier amplified by rare find, not by gathering quantity
	wantRare := 600 * 0.0001 * 1.5
	gotRare := findRate(t, rates, "/items/butter_of_proficiency")
	if math.Abs(gotRare-wantRare) > 1e-9 {
		t.Errorf("rare/hour = %v, want %v", gotRare, wantRare)
	}
}

func TestGatheringIgnoresGourmet(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:         "/actions/milking/cow",
		Type:         "/action_types/milking",
		Archetype:    types.ArchetypeGathering,
		Skill:        "/skills/milking",
		BaseTimeCost: 6 * time.Second,
		DropTable: []types.DropEntry{
			{ItemHrid: "/items/milk", DropRate: 1, MinCount: 1, MaxCount: 2},
		},
	}
	state := &types.CharacterState{
		ActiveDrinks: map[types.ActionType][]types.ConsumableBuff{
			"/action_types/milking": {
				{ItemHrid: "/items/gourmet_tea", Type: "gourmet", FlatBoost: 12},
			},
		},
	}

	rates := calc.Outputs(state, def)
	// gourmet only boosts brewing and cooking recipes
	want := 600 * 1.5
	got := findRate(t, rates, "/items/milk")
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("milk/hour = %v, want %v", got, want)
	}
}

func TestProductionGourmet(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:         "/actions/brewing/efficiency_tea",
		Type:         "/action_types/brewing",
		Archetype:    types.ArchetypeProduction,
		Skill:        "/skills/brewing",
		BaseTimeCost: 12 * time.Second,
		OutputItems:  []types.ItemCount{{ItemHrid: "/items/efficiency_tea", Count: 1}},
	}
	state := &types.CharacterState{
		ActiveDrinks: map[types.ActionType][]types.ConsumableBuff{
			"/action_types/brewing": {
				{ItemHrid: "/items/gourmet_tea", Type: "gourmet", FlatBoost: 12},
			},
		},
	}

	rates := calc.Outputs(state, def)
	// 300 attempts/hour * 1.12 gourmet
	want := 300 * 1.12
	got := findRate(t, rates, "/items/efficiency_tea")
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("tea/hour = %v, want %v", got, want)
	}
}

func TestAlchemySuccessGating(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:            "/actions/alchemy/transmute",
		Type:            "/action_types/alchemy",
		Archetype:       types.ArchetypeAlchemy,
		Skill:           "/skills/alchemy",
		BaseTimeCost:    20 * time.Second,
		BaseSuccessRate: 0.6,
		DropTable: []types.DropEntry{
			{ItemHrid: "/items/transmuted_gem", DropRate: 1, MinCount: 1, MaxCount: 1},
		},
		EssenceDropTable: []types.DropEntry{
			{ItemHrid: "/items/alchemy_essence", DropRate: 0.02, MinCount: 1, MaxCount: 1},
		},
	}

	rates := calc.Outputs(nil, def)
	if math.Abs(rates.SuccessRate-0.6) > 1e-9 {
		t.Fatalf("success rate = %v, want 0.6", rates.SuccessRate)
	}

	// 180 attempts/hour, gem gated by success
	wantGem := 180 * 0.6
	got := findRate(t, rates, "/items/transmuted_gem")
	if math.Abs(got-wantGem) > 1e-9 {
		t.Errorf("gem/hour = %v, want %v", got, wantGem)
	}

	// essence tier is never success-gated
	wantEssence := 180 * 0.02
	gotEssence := findRate(t, rates, "/items/alchemy_essence")
	if math.Abs(gotEssence-wantEssence) > 1e-9 {
		t.Errorf("essence/hour = %v, want %v", gotEssence, wantEssence)
	}
}

func TestAlchemySuccessRateClamped(t *testing.T) {
	calc := newCalculator()
	def := &types.ActionDefinition{
		Hrid:            "/actions/alchemy/transmute",
		Type:            "/action_types/alchemy",
		Archetype:       types.ArchetypeAlchemy,
		Skill:           "/skills/alchemy",
		BaseTimeCost:    20 * time.Second,
		BaseSuccessRate: 0.9,
	}
	state := &types.CharacterState{
		Equipment: map[types.EquipmentSlot]types.EquipmentItem{
			types.SlotHands: {
				ItemHrid:       "/items/alchemists_gloves",
				Slot:           types.SlotHands,
				NoncombatStats: map[string]float64{"alchemySuccess": 50},
			},
		},
	}

	rates := calc.Outputs(state, def)
	if rates.SuccessRate > 1 {
		t.Errorf("success rate %v exceeds 1", rates.SuccessRate)
	}
}

func findRate(t *testing.T, rates OutputRates, hrid types.ItemHrid) float64 {
	t.Helper()
	for _, r := range rates.Items {
		if r.ItemHrid == hrid {
			return r.PerHour
		}
	}
	t.Fatalf("no rate for %s", hrid)
	return 0
}
