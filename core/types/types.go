// Package types defines the domain value objects shared by the engine.
// Everything here is an immutable snapshot: calculators read these values
// and never write back.
package types

// ItemHrid is the stable human-readable identifier of an item
type ItemHrid string

// ActionHrid is the stable human-readable identifier of an action
type ActionHrid string

// SkillHrid is the stable human-readable identifier of a skill
type SkillHrid string

// RoomHrid is the stable human-readable identifier of a house room
type RoomHrid string

// BuffType identifies the kind of a buff (e.g. "/buff_types/efficiency")
type BuffType string

// CoinHrid is the item hrid of the game currency. Coin revenue is exempt
// from market tax.
const CoinHrid ItemHrid = "/items/coin"

// Archetype classifies an action by its output/economic formula
type Archetype string

const (
	// ArchetypeGathering covers drop-table actions (milking, foraging,
	// woodcutting)
	ArchetypeGathering Archetype = "gathering"

	// ArchetypeProduction covers recipe actions with fixed outputs
	// (cheesesmithing, crafting, tailoring, cooking, brewing)
	ArchetypeProduction Archetype = "production"

	// ArchetypeAlchemy covers success-gated transmutation actions
	ArchetypeAlchemy Archetype = "alchemy"

	// ArchetypeEnhancing covers item enhancement actions
	ArchetypeEnhancing Archetype = "enhancing"
)

// ActionType groups actions that share buff slots (e.g. "/action_types/brewing")
type ActionType string

// EquipmentSlot identifies where an item is equipped
type EquipmentSlot string

const (
	SlotHead     EquipmentSlot = "head"
	SlotBody     EquipmentSlot = "body"
	SlotLegs     EquipmentSlot = "legs"
	SlotFeet     EquipmentSlot = "feet"
	SlotHands    EquipmentSlot = "hands"
	SlotMainHand EquipmentSlot = "main_hand"
	SlotOffHand  EquipmentSlot = "off_hand"
	SlotTwoHand  EquipmentSlot = "two_hand"
	SlotPouch    EquipmentSlot = "pouch"
	SlotNeck     EquipmentSlot = "neck"
	SlotEarrings EquipmentSlot = "earrings"
	SlotRing     EquipmentSlot = "ring"
	SlotBack     EquipmentSlot = "back"
	SlotTrinket  EquipmentSlot = "trinket"
	SlotCharm    EquipmentSlot = "charm"
)

// accessorySlots are the slots whose enhancement bonus is amplified 5x
var accessorySlots = map[EquipmentSlot]bool{
	SlotNeck:     true,
	SlotEarrings: true,
	SlotRing:     true,
	SlotBack:     true,
	SlotTrinket:  true,
	SlotCharm:    true,
}

// IsAccessory reports whether the slot uses the accessory enhancement
// multiplier
func (s EquipmentSlot) IsAccessory() bool {
	return accessorySlots[s]
}
