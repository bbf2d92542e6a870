// Package types - Bonus categories and contributions
package types

// BonusCategory names an aggregated bonus total
type BonusCategory string

const (
	BonusSpeed             BonusCategory = "speed"
	BonusTaskSpeed         BonusCategory = "task_speed"
	BonusEfficiency        BonusCategory = "efficiency"
	BonusSuccess           BonusCategory = "success"
	BonusRareFind          BonusCategory = "rare_find"
	BonusEssenceFind       BonusCategory = "essence_find"
	BonusWisdom            BonusCategory = "wisdom"
	BonusActionLevel       BonusCategory = "action_level"
	BonusSkillLevel        BonusCategory = "skill_level"
	BonusGatheringQuantity BonusCategory = "gathering_quantity"
	BonusGourmet           BonusCategory = "gourmet"
	BonusArtisan           BonusCategory = "artisan"
	BonusProcessing        BonusCategory = "processing"
)

// BonusContribution is one labeled summand of a category total, produced
// for display and debugging only
type BonusContribution struct {
	// Source names where the bonus came from (item, room, buff...)
	Source string `json:"source"`

	// Category is the aggregated category
	Category BonusCategory `json:"category"`

	// BaseValue is the unscaled magnitude in percent points
	BaseValue float64 `json:"base_value"`

	// ConcentrationScaled is set on consumable-sourced contributions
	ConcentrationScaled bool `json:"concentration_scaled,omitempty"`

	// ScaledValue is the magnitude actually summed into the total
	ScaledValue float64 `json:"scaled_value"`
}
