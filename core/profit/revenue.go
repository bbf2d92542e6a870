// Package profit - Revenue side
package profit

import (
	"github.com/shopspring/decimal"

	"idle-profit/core/action"
	"idle-profit/core/types"
)

// gourmetTypes are the action types whose output benefits from the
// gourmet bonus
var gourmetTypes = map[types.ActionType]bool{
	"/action_types/brewing": true,
	"/action_types/cooking": true,
}

// addRevenue accumulates per-completion revenue from fixed outputs and
// drop tables. Normal and rare tiers are gated by the success rate;
// essence drops never are. Non-coin revenue is taxed.
func (c *Calculator) addRevenue(result *Result, req Request) {
	def := req.Action

	for _, out := range def.OutputItems {
		quantity := out.Count
		if gourmetTypes[def.Type] {
			gourmet := c.agg.Aggregate(types.BonusGourmet, req.State, def)
			quantity *= gourmet.Multiplier()
		}
		quantity *= result.SuccessRate
		c.addRevenueLine(result, out.ItemHrid, string(action.TierOutput), quantity)
	}

	if len(def.DropTable) > 0 {
		quantityBonus := c.agg.Aggregate(types.BonusGatheringQuantity, req.State, def)
		for _, drop := range def.DropTable {
			quantity := drop.DropRate * drop.AvgCount() * result.SuccessRate
			if def.Archetype == types.ArchetypeGathering {
				quantity *= quantityBonus.Multiplier()
			}
			c.addRevenueLine(result, drop.ItemHrid, string(action.TierNormal), quantity)
		}
	}

	if len(def.RareDropTable) > 0 {
		rareFind := c.agg.Aggregate(types.BonusRareFind, req.State, def)
		for _, drop := range def.RareDropTable {
			quantity := drop.DropRate * rareFind.Multiplier() * drop.AvgCount() * result.SuccessRate
			c.addRevenueLine(result, drop.ItemHrid, string(action.TierRare), quantity)
		}
	}

	if len(def.EssenceDropTable) > 0 {
		essenceFind := c.agg.Aggregate(types.BonusEssenceFind, req.State, def)
		for _, drop := range def.EssenceDropTable {
			quantity := drop.DropRate * essenceFind.Multiplier() * drop.AvgCount()
			c.addRevenueLine(result, drop.ItemHrid, string(action.TierEssence), quantity)
		}
	}
}

// addRevenueLine prices one revenue component and adds it to the result
func (c *Calculator) addRevenueLine(result *Result, item types.ItemHrid, label string, quantity float64) {
	if quantity <= 0 {
		return
	}
	valuation := c.resolver.Sell(item, 0)
	if valuation.Missing() {
		result.PriceMissing = true
	}

	amount := valuation.Price.Mul(decimal.NewFromFloat(quantity))
	if item != types.CoinHrid {
		amount = amount.Mul(afterTax)
	}

	result.Revenues = append(result.Revenues, LineItem{
		ItemHrid:    item,
		Label:       label,
		Quantity:    quantity,
		UnitPrice:   valuation.Price,
		PriceSource: valuation.Source,
		Amount:      amount,
	})
	result.RevenuePerAction = result.RevenuePerAction.Add(amount)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
