// Package types - Action definitions
package types

import "time"

// ItemCount pairs an item with a quantity. Counts are fractional after
// Artisan reduction.
type ItemCount struct {
	// ItemHrid identifies the item
	ItemHrid ItemHrid `json:"item_hrid"`

	// Count is the quantity
	Count float64 `json:"count"`
}

// DropEntry is one row of a drop table
type DropEntry struct {
	// ItemHrid identifies the dropped item
	ItemHrid ItemHrid `json:"item_hrid"`

	// DropRate is the base chance per completion in [0,1]
	DropRate float64 `json:"drop_rate"`

	// MinCount and MaxCount bound the dropped quantity
	MinCount float64 `json:"min_count"`
	MaxCount float64 `json:"max_count"`
}

// AvgCount returns the expected quantity per successful drop
func (d DropEntry) AvgCount() float64 {
	return (d.MinCount + d.MaxCount) / 2
}

// ActionDefinition is the read-only definition of a game action
type ActionDefinition struct {
	// Hrid identifies the action
	Hrid ActionHrid `json:"hrid"`

	// Type is the buff-slot grouping of the action
	Type ActionType `json:"type"`

	// Archetype selects the output/economic formula
	Archetype Archetype `json:"archetype"`

	// Skill is the governing skill
	Skill SkillHrid `json:"skill"`

	// BaseTimeCost is the unmodified duration of one attempt
	BaseTimeCost time.Duration `json:"base_time_cost_nanos"`

	// LevelRequirement is the base skill level requirement
	LevelRequirement int `json:"level_requirement"`

	// InputItems are the materials consumed per attempt
	InputItems []ItemCount `json:"input_items,omitempty"`

	// OutputItems are the fixed outputs per completion (production)
	OutputItems []ItemCount `json:"output_items,omitempty"`

	// DropTable is the normal-tier drop table (gathering, alchemy)
	DropTable []DropEntry `json:"drop_table,omitempty"`

	// EssenceDropTable drops are never gated by success rate
	EssenceDropTable []DropEntry `json:"essence_drop_table,omitempty"`

	// RareDropTable drops are amplified by the rare find bonus
	RareDropTable []DropEntry `json:"rare_drop_table,omitempty"`

	// UpgradeItemHrid is the item consumed whole per attempt (never
	// Artisan-reduced), empty when the action has none
	UpgradeItemHrid ItemHrid `json:"upgrade_item_hrid,omitempty"`

	// CatalystItemHrid is consumed only on alchemy success
	CatalystItemHrid ItemHrid `json:"catalyst_item_hrid,omitempty"`

	// BaseSuccessRate is the unmodified alchemy success chance in [0,1]
	BaseSuccessRate float64 `json:"base_success_rate,omitempty"`

	// BulkMultiplier is the per-action consumption of bulk kinds
	// (e.g. decomposing); zero for list-driven actions
	BulkMultiplier float64 `json:"bulk_multiplier,omitempty"`
}

// BaseTimeSeconds returns the unmodified attempt duration in seconds
func (a *ActionDefinition) BaseTimeSeconds() float64 {
	return a.BaseTimeCost.Seconds()
}

// IsBulk reports whether the action consumes a single primary item in bulk
func (a *ActionDefinition) IsBulk() bool {
	return a.BulkMultiplier > 0
}
