// Package bonus aggregates per-category bonus contributions from every
// source (equipment, house rooms, consumables, community buffs,
// achievements) into totals with labeled breakdowns.
//
// Contributions within a category are always summed, never multiplied.
// Callers convert the percent total into a multiplier when applying it to
// a base quantity.
package bonus

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"idle-profit/core/enhance"
	"idle-profit/core/types"
)

// Result is an aggregated category total plus its breakdown
type Result struct {
	// Category is the aggregated bonus category
	Category types.BonusCategory `json:"category"`

	// Total is the summed bonus in percent points
	Total float64 `json:"total"`

	// Contributions lists each summand in stable order
	Contributions []types.BonusContribution `json:"contributions,omitempty"`
}

// Decimal returns the total as a fraction (percent / 100)
func (r Result) Decimal() float64 {
	return r.Total / 100
}

// Multiplier returns 1 + total/100
func (r Result) Multiplier() float64 {
	return 1 + r.Total/100
}

// Aggregator enumerates bonus sources for a character snapshot. It holds
// only static rule tables; per-computation state is passed explicitly.
type Aggregator struct {
	table      enhance.Table
	houseRules map[types.ActionType]HouseRule
	community  map[types.BonusCategory]CommunityRate
}

// HouseRule maps an action type to its house room and per-level rates
type HouseRule struct {
	// Room is the house room serving this action type
	Room types.RoomHrid

	// Rates is the percent-per-level bonus by category
	Rates map[types.BonusCategory]float64
}

// CommunityRate is the tiered community buff formula:
// base + (tier-1)*perLevel, in percent points
type CommunityRate struct {
	Base     float64
	PerLevel float64

	// Only restricts the buff to one action type; empty applies to all
	Only types.ActionType
}

// NewAggregator creates an aggregator with the default rule tables
func NewAggregator(table enhance.Table) *Aggregator {
	return &Aggregator{
		table:      table,
		houseRules: DefaultHouseRules(),
		community:  DefaultCommunityRates(),
	}
}

// Aggregate sums every contribution to a category for the given action.
// A nil character state degrades to a zero total.
func (a *Aggregator) Aggregate(category types.BonusCategory, state *types.CharacterState, action *types.ActionDefinition) Result {
	result := Result{Category: category}
	if action == nil {
		return result
	}

	a.addLevelAdvantage(&result, state, action)
	a.addHouseRoom(&result, state, action)
	a.addEquipment(&result, state, action)
	a.addConsumables(&result, state, action)
	a.addCommunity(&result, state, action)
	a.addAchievements(&result, state, action)

	for _, c := range result.Contributions {
		result.Total += c.ScaledValue
	}
	return result
}

// addLevelAdvantage adds the efficiency bonus from exceeding the action's
// level requirement. Tea skill-level bonuses raise the effective level;
// tea action-level bonuses raise the effective requirement.
func (a *Aggregator) addLevelAdvantage(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	if result.Category != types.BonusEfficiency || state == nil {
		return
	}

	teaSkillLevel := a.drinkTotal(state, action, types.BuffType(types.BonusSkillLevel))
	teaActionLevel := a.drinkTotalUnscaled(state, action, types.BuffType(types.BonusActionLevel))

	effectiveLevel := float64(state.SkillLevel(action.Skill)) + teaSkillLevel
	effectiveRequirement := float64(action.LevelRequirement) + math.Floor(teaActionLevel)

	advantage := effectiveLevel - effectiveRequirement
	if advantage <= 0 {
		return
	}
	result.Contributions = append(result.Contributions, types.BonusContribution{
		Source:      "level_advantage",
		Category:    result.Category,
		BaseValue:   advantage,
		ScaledValue: advantage,
	})
}

// addHouseRoom adds the per-level house room bonus for the action type
func (a *Aggregator) addHouseRoom(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	rule, ok := a.houseRules[action.Type]
	if !ok || state == nil {
		return
	}
	rate, ok := rule.Rates[result.Category]
	if !ok {
		return
	}
	level := state.RoomLevel(rule.Room)
	if level <= 0 {
		return
	}
	value := float64(level) * rate
	result.Contributions = append(result.Contributions, types.BonusContribution{
		Source:      string(rule.Room),
		Category:    result.Category,
		BaseValue:   value,
		ScaledValue: value,
	})
}

// addEquipment adds enhancement-scaled equipment stats. Items are visited
// in slot order so the breakdown is stable.
func (a *Aggregator) addEquipment(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	if state == nil {
		return
	}
	stats := equipmentStatNames(result.Category, action)
	if len(stats) == 0 {
		return
	}

	slots := make([]types.EquipmentSlot, 0, len(state.Equipment))
	for slot := range state.Equipment {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	for _, slot := range slots {
		item := state.Equipment[slot]
		var base float64
		for _, stat := range stats {
			base += item.Stat(stat)
		}
		if base == 0 {
			continue
		}
		scaled := a.table.Scale(base, item.Slot, item.EnhancementLevel)
		result.Contributions = append(result.Contributions, types.BonusContribution{
			Source:      string(item.ItemHrid),
			Category:    result.Category,
			BaseValue:   base,
			ScaledValue: scaled,
		})
	}
}

// addConsumables adds active drink buffs, scaled by drink concentration
func (a *Aggregator) addConsumables(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	if state == nil {
		return
	}
	want := types.BuffType(result.Category)
	for _, buff := range state.DrinksFor(action.Type) {
		if buff.Type != want {
			continue
		}
		scaled := enhance.ScaleConcentration(buff.FlatBoost, state.DrinkConcentration)
		result.Contributions = append(result.Contributions, types.BonusContribution{
			Source:              string(buff.ItemHrid),
			Category:            result.Category,
			BaseValue:           buff.FlatBoost,
			ConcentrationScaled: true,
			ScaledValue:         scaled,
		})
	}
}

// addCommunity adds the tiered community buff for the category
func (a *Aggregator) addCommunity(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	rate, ok := a.community[result.Category]
	if !ok || state == nil {
		return
	}
	if rate.Only != "" && rate.Only != action.Type {
		return
	}
	tier := state.CommunityBuffs[types.BuffType(result.Category)]
	if tier <= 0 {
		return
	}
	value := rate.Base + float64(tier-1)*rate.PerLevel
	result.Contributions = append(result.Contributions, types.BonusContribution{
		Source:      fmt.Sprintf("community_buff_t%d", tier),
		Category:    result.Category,
		BaseValue:   value,
		ScaledValue: value,
	})
}

// addAchievements adds flat achievement tier bonuses
func (a *Aggregator) addAchievements(result *Result, state *types.CharacterState, action *types.ActionDefinition) {
	value := state.AchievementBonus(action.Type, types.BuffType(result.Category))
	if value == 0 {
		return
	}
	result.Contributions = append(result.Contributions, types.BonusContribution{
		Source:      "achievements",
		Category:    result.Category,
		BaseValue:   value,
		ScaledValue: value,
	})
}

// drinkTotal sums the concentration-scaled magnitude of drink buffs of a
// kind active for the action
func (a *Aggregator) drinkTotal(state *types.CharacterState, action *types.ActionDefinition, kind types.BuffType) float64 {
	var total float64
	for _, buff := range state.DrinksFor(action.Type) {
		if buff.Type == kind {
			total += enhance.ScaleConcentration(buff.FlatBoost, state.DrinkConcentration)
		}
	}
	return total
}

// drinkTotalUnscaled sums raw drink buff magnitudes. The action-level tea
// bonus raises the effective requirement and is deliberately exempt from
// concentration scaling.
func (a *Aggregator) drinkTotalUnscaled(state *types.CharacterState, action *types.ActionDefinition, kind types.BuffType) float64 {
	var total float64
	for _, buff := range state.DrinksFor(action.Type) {
		if buff.Type == kind {
			total += buff.FlatBoost
		}
	}
	return total
}

// typeName extracts the short name of an action type hrid
// ("/action_types/brewing" -> "brewing")
func typeName(at types.ActionType) string {
	s := string(at)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// equipmentStatNames lists the noncombat stat names feeding a category
// for the given action
func equipmentStatNames(category types.BonusCategory, action *types.ActionDefinition) []string {
	name := typeName(action.Type)
	switch category {
	case types.BonusSpeed:
		return []string{name + "Speed"}
	case types.BonusTaskSpeed:
		return []string{"taskSpeed"}
	case types.BonusEfficiency:
		return []string{name + "Efficiency", "skillingEfficiency"}
	case types.BonusSuccess:
		return []string{name + "Success"}
	case types.BonusRareFind:
		return []string{"skillingRareFind"}
	case types.BonusEssenceFind:
		return []string{"skillingEssenceFind"}
	case types.BonusWisdom:
		return []string{name + "Experience", "skillingExperience"}
	case types.BonusGatheringQuantity:
		return []string{"gatheringQuantity"}
	case types.BonusGourmet:
		return []string{"gourmet"}
	case types.BonusArtisan:
		return []string{"artisan"}
	case types.BonusProcessing:
		return []string{"processing"}
	default:
		return nil
	}
}
