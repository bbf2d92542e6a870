// Package bonus - Default house room and community buff rule tables
package bonus

import "idle-profit/core/types"

// productionRoomRate is the efficiency percent per room level for
// production- and gathering-type rooms
const productionRoomRate = 1.5

// Observatory per-level rates for enhancing
const (
	observatorySuccessRate  = 0.05
	observatorySpeedRate    = 1.0
	observatoryRareFindRate = 0.2
	observatoryWisdomRate   = 0.05
)

// DefaultHouseRules returns the action-type to house-room rule table
func DefaultHouseRules() map[types.ActionType]HouseRule {
	efficiencyRoom := func(room types.RoomHrid) HouseRule {
		return HouseRule{
			Room: room,
			Rates: map[types.BonusCategory]float64{
				types.BonusEfficiency: productionRoomRate,
			},
		}
	}

	return map[types.ActionType]HouseRule{
		"/action_types/milking":        efficiencyRoom("/house_rooms/dairy_barn"),
		"/action_types/foraging":       efficiencyRoom("/house_rooms/garden"),
		"/action_types/woodcutting":    efficiencyRoom("/house_rooms/log_shed"),
		"/action_types/cheesesmithing": efficiencyRoom("/house_rooms/forge"),
		"/action_types/crafting":       efficiencyRoom("/house_rooms/workshop"),
		"/action_types/tailoring":      efficiencyRoom("/house_rooms/sewing_parlor"),
		"/action_types/cooking":        efficiencyRoom("/house_rooms/kitchen"),
		"/action_types/brewing":        efficiencyRoom("/house_rooms/brewery"),
		"/action_types/alchemy":        efficiencyRoom("/house_rooms/laboratory"),
		"/action_types/enhancing": {
			Room: "/house_rooms/observatory",
			Rates: map[types.BonusCategory]float64{
				types.BonusSuccess:  observatorySuccessRate,
				types.BonusSpeed:    observatorySpeedRate,
				types.BonusRareFind: observatoryRareFindRate,
				types.BonusWisdom:   observatoryWisdomRate,
			},
		},
	}
}

// DefaultCommunityRates returns the tiered community buff table
func DefaultCommunityRates() map[types.BonusCategory]CommunityRate {
	return map[types.BonusCategory]CommunityRate{
		types.BonusEfficiency:        {Base: 14, PerLevel: 0.3},
		types.BonusWisdom:            {Base: 20, PerLevel: 0.5},
		types.BonusSpeed:             {Base: 20, PerLevel: 0.5, Only: "/action_types/enhancing"},
		types.BonusGatheringQuantity: {Base: 20, PerLevel: 0.5},
	}
}
