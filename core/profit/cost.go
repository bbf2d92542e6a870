// Package profit - Cost side
package profit

import (
	"math"

	"github.com/shopspring/decimal"

	"idle-profit/core/types"
)

// addCosts accumulates per-completion material, upgrade and catalyst
// costs. Materials are Artisan-reduced; the upgrade item never is.
// Catalyst cost is scaled by the success rate because the catalyst is
// consumed only on success.
func (c *Calculator) addCosts(result *Result, req Request) {
	def := req.Action
	artisan := c.agg.Aggregate(types.BonusArtisan, req.State, def)
	reduction := 1 - artisan.Decimal()
	if reduction < 0 {
		reduction = 0
	}

	for _, input := range def.InputItems {
		quantity := input.Count * reduction
		c.addCostLine(result, input.ItemHrid, "material", quantity, 0, 1)
	}

	if def.UpgradeItemHrid != "" {
		c.addCostLine(result, def.UpgradeItemHrid, "upgrade", 1, req.UpgradeEnhancementLevel, 1)
	}

	if def.CatalystItemHrid != "" {
		c.addCostLine(result, def.CatalystItemHrid, "catalyst", 1, 0, result.SuccessRate)
	}
}

// addCostLine prices one consumed component, subtracts its decomposition
// recovery, and adds it to the result. consumeRate scales the cost for
// components consumed only on success.
func (c *Calculator) addCostLine(result *Result, item types.ItemHrid, label string, quantity float64, enhancementLevel int, consumeRate float64) {
	if quantity <= 0 || consumeRate <= 0 {
		return
	}
	valuation := c.resolver.Buy(item, enhancementLevel)
	if valuation.Missing() {
		result.PriceMissing = true
	}

	amount := valuation.Price.
		Mul(decimal.NewFromFloat(quantity)).
		Mul(decimal.NewFromFloat(consumeRate))

	result.Costs = append(result.Costs, LineItem{
		ItemHrid:    item,
		Label:       label,
		Quantity:    quantity,
		UnitPrice:   valuation.Price,
		PriceSource: valuation.Source,
		Amount:      amount,
	})

	unitRecovery := c.decompositionRecovery(item, enhancementLevel)
	if unitRecovery.IsPositive() {
		recovery := unitRecovery.Mul(decimal.NewFromFloat(quantity)).Mul(decimal.NewFromFloat(consumeRate))
		result.Costs = append(result.Costs, LineItem{
			ItemHrid:    item,
			Label:       "recovery",
			Quantity:    quantity,
			UnitPrice:   unitRecovery.Neg(),
			PriceSource: valuation.Source,
			Amount:      recovery.Neg(),
		})
		amount = amount.Sub(recovery)
	}

	result.CostPerAction = result.CostPerAction.Add(amount)
}

// decompositionRecovery values what comes back from decomposing one unit
// of a consumed item: its base decomposition outputs at the after-tax
// sell price, plus recovered enhancing essence when the unit is
// enhanced.
func (c *Calculator) decompositionRecovery(item types.ItemHrid, enhancementLevel int) decimal.Decimal {
	def, ok := c.catalog.Lookup(item)
	if !ok {
		return decimal.Zero
	}

	recovery := decimal.Zero
	for _, out := range def.DecompositionOutputs {
		sell := c.resolver.Sell(out.ItemHrid, 0)
		value := sell.Price.Mul(decimal.NewFromFloat(out.Count)).Mul(afterTax)
		recovery = recovery.Add(value)
	}

	if enhancementLevel > 0 {
		units := EssenceRecovered(def.Level, enhancementLevel)
		if units > 0 {
			sell := c.resolver.Sell(enhancingEssenceHrid, 0)
			value := sell.Price.Mul(decimal.NewFromInt(units)).Mul(afterTax)
			recovery = recovery.Add(value)
		}
	}
	return recovery
}

// EssenceRecovered returns the enhancing essence units recovered by
// decomposing one enhanced item: round(2*(0.5+0.1*1.05^itemLevel)*2^level).
func EssenceRecovered(itemLevel, enhancementLevel int) int64 {
	if enhancementLevel <= 0 {
		return 0
	}
	base := 2 * (0.5 + 0.1*math.Pow(1.05, float64(itemLevel)))
	return int64(math.Round(base * math.Pow(2, float64(enhancementLevel))))
}

// addTeaCost accumulates the hourly running cost of active consumables
func (c *Calculator) addTeaCost(result *Result, req Request) {
	if req.State == nil {
		return
	}
	for _, buff := range req.State.DrinksFor(req.Action.Type) {
		if buff.DurationSeconds <= 0 {
			continue
		}
		valuation := c.resolver.Buy(buff.ItemHrid, 0)
		if valuation.Missing() {
			result.PriceMissing = true
		}
		perHour := 3600 / buff.DurationSeconds
		amount := valuation.Price.Mul(decimal.NewFromFloat(perHour))
		result.Costs = append(result.Costs, LineItem{
			ItemHrid:    buff.ItemHrid,
			Label:       "consumable",
			Quantity:    perHour,
			UnitPrice:   valuation.Price,
			PriceSource: valuation.Source,
			Amount:      amount,
		})
		result.TeaCostPerHour = result.TeaCostPerHour.Add(amount)
	}
}
