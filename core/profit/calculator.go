// Package profit turns output rates and price valuations into hourly
// revenue, cost and profit figures with per-source breakdowns.
package profit

import (
	"github.com/shopspring/decimal"

	"idle-profit/core/action"
	"idle-profit/core/bonus"
	"idle-profit/core/pricing"
	"idle-profit/core/types"
	"idle-profit/internal/errors"
)

// MarketTaxRate is the fixed fee deducted from non-coin sale revenue
const MarketTaxRate = 0.02

// afterTax multiplies non-coin revenue
var afterTax = decimal.NewFromFloat(1 - MarketTaxRate)

// enhancingEssenceHrid is the essence recovered by decomposing enhanced
// gear
const enhancingEssenceHrid types.ItemHrid = "/items/enhancing_essence"

// Calculator computes economic results for actions. All methods are pure
// over the supplied snapshots.
type Calculator struct {
	agg      *bonus.Aggregator
	actions  *action.Calculator
	resolver *pricing.Resolver
	catalog  types.Catalog
}

// NewCalculator creates a profit calculator
func NewCalculator(agg *bonus.Aggregator, actions *action.Calculator, resolver *pricing.Resolver, catalog types.Catalog) *Calculator {
	return &Calculator{agg: agg, actions: actions, resolver: resolver, catalog: catalog}
}

// Request is one profit computation over immutable snapshots
type Request struct {
	// State is the character snapshot; nil degrades to zero bonuses
	State *types.CharacterState

	// Action is the action definition; required
	Action *types.ActionDefinition

	// AsTask applies the independent task speed bonus
	AsTask bool

	// UpgradeEnhancementLevel is the enhancement level of the consumed
	// upgrade item, for decomposition recovery
	UpgradeEnhancementLevel int
}

// LineItem is one priced component of revenue or cost
type LineItem struct {
	// ItemHrid identifies the priced item
	ItemHrid types.ItemHrid `json:"item_hrid"`

	// Label names the component kind (output, drop, rare, essence,
	// material, upgrade, catalyst, recovery, consumable)
	Label string `json:"label"`

	// Quantity is the expected quantity per completion (per hour for
	// consumable line items)
	Quantity float64 `json:"quantity"`

	// UnitPrice is the resolved unit price in coins
	UnitPrice decimal.Decimal `json:"unit_price"`

	// PriceSource is the fallback step that priced the item
	PriceSource pricing.Source `json:"price_source"`

	// Amount is Quantity * UnitPrice, after tax for revenue items
	Amount decimal.Decimal `json:"amount"`
}

// Result is the complete economic outcome of one action
type Result struct {
	// ActionHrid identifies the computed action
	ActionHrid types.ActionHrid `json:"action_hrid"`

	// Timing carries the duration and bonus breakdowns
	Timing action.Timing `json:"timing"`

	// SuccessRate is the effective alchemy success chance; 1 otherwise
	SuccessRate float64 `json:"success_rate"`

	// ExpectedActions is completions per attempt; always 1 for alchemy
	ExpectedActions float64 `json:"expected_actions"`

	// RevenuePerAction and CostPerAction are per completion, after tax
	RevenuePerAction decimal.Decimal `json:"revenue_per_action"`
	CostPerAction    decimal.Decimal `json:"cost_per_action"`

	// ProfitPerAction is revenue minus cost per completion
	ProfitPerAction decimal.Decimal `json:"profit_per_action"`

	// ActionsPerHour is effective completions per hour
	ActionsPerHour float64 `json:"actions_per_hour"`

	// RevenuePerHour, CostPerHour and TeaCostPerHour scale to the hour
	RevenuePerHour decimal.Decimal `json:"revenue_per_hour"`
	CostPerHour    decimal.Decimal `json:"cost_per_hour"`
	TeaCostPerHour decimal.Decimal `json:"tea_cost_per_hour"`

	// ProfitPerHour is the headline figure
	ProfitPerHour decimal.Decimal `json:"profit_per_hour"`

	// Revenues and Costs are the per-source breakdowns
	Revenues []LineItem `json:"revenues,omitempty"`
	Costs    []LineItem `json:"costs,omitempty"`

	// PriceMissing is set when any component fell through the whole
	// valuation chain, so callers can warn
	PriceMissing bool `json:"price_missing,omitempty"`
}

// QueueValue returns the total profit of a queue of completions
func (r *Result) QueueValue(attempts int64) decimal.Decimal {
	return r.ProfitPerAction.Mul(decimal.NewFromInt(attempts))
}

// Calculate computes the economic result for one action. A missing
// action definition is a programmer error and fails fast; everything
// else degrades locally.
func (c *Calculator) Calculate(req Request) (*Result, error) {
	if req.Action == nil {
		return nil, errors.NotFound("action definition", "")
	}
	def := req.Action

	result := &Result{
		ActionHrid:  def.Hrid,
		Timing:      c.actions.Timing(req.State, def, req.AsTask),
		SuccessRate: 1,
	}

	result.ExpectedActions = result.Timing.ExpectedActionsPerAttempt
	if def.Archetype == types.ArchetypeAlchemy {
		// Alchemy has no extra-completion concept; success gating plays
		// that role.
		result.ExpectedActions = 1
		success := c.agg.Aggregate(types.BonusSuccess, req.State, def)
		result.SuccessRate = clamp01(def.BaseSuccessRate * success.Multiplier())
	}

	c.addRevenue(result, req)
	c.addCosts(result, req)

	result.ProfitPerAction = result.RevenuePerAction.Sub(result.CostPerAction)

	seconds := result.Timing.ActionSeconds
	if seconds > 0 {
		result.ActionsPerHour = 3600 / seconds * result.ExpectedActions
	}
	hourly := decimal.NewFromFloat(result.ActionsPerHour)
	result.RevenuePerHour = result.RevenuePerAction.Mul(hourly)
	result.CostPerHour = result.CostPerAction.Mul(hourly)

	c.addTeaCost(result, req)

	result.ProfitPerHour = result.RevenuePerHour.
		Sub(result.CostPerHour).
		Sub(result.TeaCostPerHour)

	return result, nil
}
