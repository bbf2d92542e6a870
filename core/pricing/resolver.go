// Package pricing - Fallback valuation chain
package pricing

import (
	"github.com/shopspring/decimal"

	"idle-profit/core/types"
)

// Source records which step of the fallback chain produced a valuation
type Source string

const (
	// SourceMarket is a direct market quote
	SourceMarket Source = "market"

	// SourceCraft is a recipe-derived crafting cost
	SourceCraft Source = "craft"

	// SourceShop is the NPC shop coin cost
	SourceShop Source = "shop"

	// SourceNone means every fallback failed; the price is zero and the
	// item must be flagged as price-unknown
	SourceNone Source = "none"
)

// Valuation is a resolved price with its provenance
type Valuation struct {
	// Price is the resolved unit price in coins
	Price decimal.Decimal `json:"price"`

	// Source is the fallback step that produced the price
	Source Source `json:"source"`
}

// Missing reports whether the valuation fell through the whole chain
func (v Valuation) Missing() bool {
	return v.Source == SourceNone
}

// craftMaterialDiscount approximates the Artisan reduction on material
// inputs when deriving a crafting cost. Upgrade items are charged in
// full.
var craftMaterialDiscount = decimal.NewFromFloat(0.9)

// maxCraftDepth bounds the recipe recursion
const maxCraftDepth = 8

// Resolver resolves item valuations through the fallback chain
type Resolver struct {
	provider Provider
	catalog  types.Catalog
	mode     Mode
}

// NewResolver creates a resolver over a quote provider and item catalog
func NewResolver(provider Provider, catalog types.Catalog, mode Mode) *Resolver {
	return &Resolver{provider: provider, catalog: catalog, mode: mode}
}

// Mode returns the resolver's pricing mode
func (r *Resolver) Mode() Mode {
	return r.mode
}

// Buy resolves the price paid to acquire one unit of an item
func (r *Resolver) Buy(item types.ItemHrid, enhancementLevel int) Valuation {
	return r.resolve(item, enhancementLevel, Mode.BuyPrice, make(map[types.ItemHrid]bool), 0)
}

// Sell resolves the price received for one unit of an item, before
// market tax
func (r *Resolver) Sell(item types.ItemHrid, enhancementLevel int) Valuation {
	return r.resolve(item, enhancementLevel, Mode.SellPrice, make(map[types.ItemHrid]bool), 0)
}

type priceSide func(Mode, types.PriceQuote) (decimal.Decimal, bool)

func (r *Resolver) resolve(item types.ItemHrid, enhancementLevel int, side priceSide, visited map[types.ItemHrid]bool, depth int) Valuation {
	// Coin is worth exactly one coin.
	if item == types.CoinHrid {
		return Valuation{Price: decimal.NewFromInt(1), Source: SourceMarket}
	}

	// 1. Direct market quote.
	if quote, ok := r.provider.GetPrice(item, enhancementLevel); ok {
		if price, ok := side(r.mode, quote); ok {
			return Valuation{Price: price, Source: SourceMarket}
		}
	}

	// 2. Recipe-derived crafting cost.
	if price, ok := r.craftCost(item, side, visited, depth); ok {
		return Valuation{Price: price, Source: SourceCraft}
	}

	// 3. NPC shop coin cost.
	if def, ok := r.catalog.Lookup(item); ok && def.ShopCoinCost.IsPositive() {
		return Valuation{Price: def.ShopCoinCost, Source: SourceShop}
	}

	// 4. Zero, flagged so callers can warn.
	return Valuation{Price: decimal.Zero, Source: SourceNone}
}

// craftCost derives a unit price from the item's recipe. Material inputs
// get the fixed Artisan-equivalent discount; the upgrade item is charged
// at full price. Recursion is cycle-guarded and depth-bounded.
func (r *Resolver) craftCost(item types.ItemHrid, side priceSide, visited map[types.ItemHrid]bool, depth int) (decimal.Decimal, bool) {
	if depth >= maxCraftDepth || visited[item] {
		return decimal.Zero, false
	}
	def, ok := r.catalog.Lookup(item)
	if !ok || def.Recipe == nil {
		return decimal.Zero, false
	}
	visited[item] = true
	defer delete(visited, item)

	recipe := def.Recipe
	total := decimal.Zero
	for _, input := range recipe.Inputs {
		v := r.resolve(input.ItemHrid, 0, side, visited, depth+1)
		cost := v.Price.Mul(decimal.NewFromFloat(input.Count)).Mul(craftMaterialDiscount)
		total = total.Add(cost)
	}
	if recipe.UpgradeItemHrid != "" {
		v := r.resolve(recipe.UpgradeItemHrid, 0, side, visited, depth+1)
		total = total.Add(v.Price)
	}
	if recipe.OutputCount > 1 {
		total = total.Div(decimal.NewFromFloat(recipe.OutputCount))
	}
	return total, true
}
