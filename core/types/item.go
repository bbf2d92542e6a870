// Package types - Item catalog
package types

import "github.com/shopspring/decimal"

// CraftRecipe describes how an item is produced, used for recipe-derived
// fallback valuation
type CraftRecipe struct {
	// Inputs are the material requirements per craft
	Inputs []ItemCount `json:"inputs"`

	// UpgradeItemHrid is consumed whole per craft, empty when none
	UpgradeItemHrid ItemHrid `json:"upgrade_item_hrid,omitempty"`

	// OutputCount is how many items one craft yields
	OutputCount float64 `json:"output_count"`
}

// ItemDefinition is the read-only definition of a game item
type ItemDefinition struct {
	// Hrid identifies the item
	Hrid ItemHrid `json:"hrid"`

	// Name is the display name
	Name string `json:"name"`

	// Level is the item level, used by essence recovery scaling
	Level int `json:"level"`

	// ShopCoinCost is the NPC shop price in coins, zero when not sold
	ShopCoinCost decimal.Decimal `json:"shop_coin_cost"`

	// DecompositionOutputs are the base materials recovered by
	// decomposing the item
	DecompositionOutputs []ItemCount `json:"decomposition_outputs,omitempty"`

	// Recipe is the crafting recipe, nil when the item cannot be crafted
	Recipe *CraftRecipe `json:"recipe,omitempty"`
}

// Catalog is a read-only item definition lookup
type Catalog map[ItemHrid]ItemDefinition

// Lookup returns the definition of an item
func (c Catalog) Lookup(hrid ItemHrid) (ItemDefinition, bool) {
	def, ok := c[hrid]
	return def, ok
}
