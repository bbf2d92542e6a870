// Package types - Character state snapshot
package types

// EquipmentItem is an equipped item snapshot
type EquipmentItem struct {
	// ItemHrid identifies the item
	ItemHrid ItemHrid `json:"item_hrid"`

	// EnhancementLevel is the enhancement level in [0,20]. Out-of-range
	// levels are treated as zero bonus by the scaler, never rejected.
	EnhancementLevel int `json:"enhancement_level"`

	// Slot is where the item is equipped
	Slot EquipmentSlot `json:"slot"`

	// NoncombatStats maps stat name to base value (e.g.
	// "brewingEfficiency" -> 3.2, in percent points)
	NoncombatStats map[string]float64 `json:"noncombat_stats,omitempty"`
}

// Stat returns the base value of a noncombat stat, zero when absent
func (e EquipmentItem) Stat(name string) float64 {
	return e.NoncombatStats[name]
}

// ConsumableBuff is an active drink or food buff
type ConsumableBuff struct {
	// ItemHrid identifies the consumable item
	ItemHrid ItemHrid `json:"item_hrid"`

	// Type is the buff kind (efficiency, wisdom, gathering...)
	Type BuffType `json:"type"`

	// FlatBoost is the unscaled magnitude in percent points
	FlatBoost float64 `json:"flat_boost"`

	// AppliesTo restricts the buff to one action type; empty means global
	AppliesTo ActionType `json:"applies_to,omitempty"`

	// DurationSeconds is how long one consumable lasts
	DurationSeconds float64 `json:"duration_seconds"`
}

// CharacterState is the immutable character snapshot supplied per
// computation. The engine never mutates it.
type CharacterState struct {
	// SkillLevels maps skill to current level
	SkillLevels map[SkillHrid]int `json:"skill_levels"`

	// Equipment maps slot to the equipped item
	Equipment map[EquipmentSlot]EquipmentItem `json:"equipment"`

	// HouseRooms maps room to its level
	HouseRooms map[RoomHrid]int `json:"house_rooms"`

	// ActiveDrinks maps action type to the active consumable slots
	ActiveDrinks map[ActionType][]ConsumableBuff `json:"active_drinks"`

	// CommunityBuffs maps buff type to the community buff tier
	CommunityBuffs map[BuffType]int `json:"community_buffs"`

	// AchievementBuffs maps action type to flat percent bonuses by kind
	AchievementBuffs map[ActionType]map[BuffType]float64 `json:"achievement_buffs"`

	// DrinkConcentration linearly amplifies consumable buff magnitudes
	DrinkConcentration float64 `json:"drink_concentration"`
}

// SkillLevel returns the level of a skill, zero when unknown
func (c *CharacterState) SkillLevel(skill SkillHrid) int {
	if c == nil {
		return 0
	}
	return c.SkillLevels[skill]
}

// RoomLevel returns the level of a house room, zero when unknown
func (c *CharacterState) RoomLevel(room RoomHrid) int {
	if c == nil {
		return 0
	}
	return c.HouseRooms[room]
}

// DrinksFor returns the consumable buffs active for an action type. A
// buff in the slot with a non-empty AppliesTo restricted to a different
// action type is filtered out.
func (c *CharacterState) DrinksFor(actionType ActionType) []ConsumableBuff {
	if c == nil {
		return nil
	}
	var buffs []ConsumableBuff
	for _, buff := range c.ActiveDrinks[actionType] {
		if buff.AppliesTo != "" && buff.AppliesTo != actionType {
			continue
		}
		buffs = append(buffs, buff)
	}
	return buffs
}

// AchievementBonus returns the flat achievement percent for an action type
// and buff kind, zero when absent
func (c *CharacterState) AchievementBonus(actionType ActionType, buff BuffType) float64 {
	if c == nil {
		return 0
	}
	return c.AchievementBuffs[actionType][buff]
}
