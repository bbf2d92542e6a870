// Package action converts aggregated bonuses into action durations and
// output rates per archetype.
package action

import (
	"math"

	"idle-profit/core/bonus"
	"idle-profit/core/types"
)

// secondsPerHour converts an action duration into a rate
const secondsPerHour = 3600.0

// Calculator produces timing and output predictions from a character
// snapshot. It is stateless apart from the aggregator's rule tables.
type Calculator struct {
	agg *bonus.Aggregator
}

// NewCalculator creates a calculator on top of a bonus aggregator
func NewCalculator(agg *bonus.Aggregator) *Calculator {
	return &Calculator{agg: agg}
}

// Timing is the per-attempt time and completion prediction
type Timing struct {
	// ActionSeconds is the duration of one attempt after speed bonuses
	ActionSeconds float64 `json:"action_seconds"`

	// ActionsPerHourBase is attempts per hour before efficiency
	ActionsPerHourBase float64 `json:"actions_per_hour_base"`

	// ExpectedActionsPerAttempt is completions per attempt from
	// efficiency (guaranteed extras plus probabilistic remainder)
	ExpectedActionsPerAttempt float64 `json:"expected_actions_per_attempt"`

	// ActionsPerHourEffective is base rate times expected completions
	ActionsPerHourEffective float64 `json:"actions_per_hour_effective"`

	// Speed and Efficiency carry the breakdowns behind the numbers
	Speed      bonus.Result `json:"speed"`
	Efficiency bonus.Result `json:"efficiency"`

	// TaskSpeed is the independent task speed breakdown, zero when the
	// action was not run as a task
	TaskSpeed bonus.Result `json:"task_speed,omitempty"`
}

// ExpectedActions converts an efficiency percent into expected
// completions per attempt. Exact at multiples of 100:
// 0% -> 1.0, 100% -> 2.0, 150% -> 2.5.
func ExpectedActions(efficiencyPercent float64) float64 {
	if efficiencyPercent <= 0 {
		return 1
	}
	guaranteed := math.Floor(efficiencyPercent / 100)
	fractional := efficiencyPercent - guaranteed*100
	return 1 + guaranteed + fractional/100
}

// Timing computes the attempt duration and completion rate for an
// action. When asTask is set, the independent task speed bonus is
// applied as a second multiplicative divisor.
func (c *Calculator) Timing(state *types.CharacterState, def *types.ActionDefinition, asTask bool) Timing {
	speed := c.agg.Aggregate(types.BonusSpeed, state, def)
	efficiency := c.agg.Aggregate(types.BonusEfficiency, state, def)

	timing := Timing{
		Speed:      speed,
		Efficiency: efficiency,
	}

	seconds := def.BaseTimeSeconds() / (1 + speed.Decimal())
	if asTask {
		taskSpeed := c.agg.Aggregate(types.BonusTaskSpeed, state, def)
		timing.TaskSpeed = taskSpeed
		seconds /= 1 + taskSpeed.Decimal()
	}
	timing.ActionSeconds = seconds

	if seconds > 0 {
		timing.ActionsPerHourBase = secondsPerHour / seconds
	}
	timing.ExpectedActionsPerAttempt = ExpectedActions(efficiency.Total)
	timing.ActionsPerHourEffective = timing.ActionsPerHourBase * timing.ExpectedActionsPerAttempt

	return timing
}

// DropTier labels which drop table an output rate came from
type DropTier string

const (
	TierOutput  DropTier = "output"
	TierNormal  DropTier = "normal"
	TierRare    DropTier = "rare"
	TierEssence DropTier = "essence"
)

// ItemRate is the predicted hourly output of one item
type ItemRate struct {
	// ItemHrid identifies the produced item
	ItemHrid types.ItemHrid `json:"item_hrid"`

	// Tier is the drop table the item came from
	Tier DropTier `json:"tier"`

	// PerHour is the expected items per hour
	PerHour float64 `json:"per_hour"`
}

// OutputRates is the full output prediction for an action
type OutputRates struct {
	Timing

	// SuccessRate is the effective alchemy success chance in [0,1];
	// 1 for non-alchemy archetypes
	SuccessRate float64 `json:"success_rate"`

	// Items lists the expected hourly output per item
	Items []ItemRate `json:"items,omitempty"`
}

// gourmetTypes are the action types whose output benefits from the
// gourmet bonus
var gourmetTypes = map[types.ActionType]bool{
	"/action_types/brewing": true,
	"/action_types/cooking": true,
}

// Outputs computes the hourly output rates of an action for the given
// character snapshot.
func (c *Calculator) Outputs(state *types.CharacterState, def *types.ActionDefinition) OutputRates {
	timing := c.Timing(state, def, false)
	rates := OutputRates{Timing: timing, SuccessRate: 1}

	switch def.Archetype {
	case types.ArchetypeGathering:
		c.gatheringOutputs(&rates, state, def)
	case types.ArchetypeAlchemy:
		c.alchemyOutputs(&rates, state, def)
	default:
		c.productionOutputs(&rates, state, def)
	}
	return rates
}

// gatheringOutputs predicts drop-table output. The gathering quantity
// bonus multiplies the normal tier only; rare and essence tiers get
// their own find bonuses.
func (c *Calculator) gatheringOutputs(rates *OutputRates, state *types.CharacterState, def *types.ActionDefinition) {
	quantity := c.agg.Aggregate(types.BonusGatheringQuantity, state, def)
	rareFind := c.agg.Aggregate(types.BonusRareFind, state, def)
	essenceFind := c.agg.Aggregate(types.BonusEssenceFind, state, def)
	base := rates.ActionsPerHourBase
	expected := rates.ExpectedActionsPerAttempt

	for _, drop := range def.DropTable {
		perHour := base * drop.DropRate * drop.AvgCount() * quantity.Multiplier() * expected
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierNormal, PerHour: perHour})
	}
	for _, drop := range def.RareDropTable {
		perHour := base * drop.DropRate * rareFind.Multiplier() * drop.AvgCount() * expected
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierRare, PerHour: perHour})
	}
	for _, drop := range def.EssenceDropTable {
		perHour := base * drop.DropRate * essenceFind.Multiplier() * drop.AvgCount() * expected
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierEssence, PerHour: perHour})
	}
}

// productionOutputs predicts fixed recipe output, with the gourmet bonus
// for brewing and cooking
func (c *Calculator) productionOutputs(rates *OutputRates, state *types.CharacterState, def *types.ActionDefinition) {
	base := rates.ActionsPerHourBase
	expected := rates.ExpectedActionsPerAttempt

	for _, out := range def.OutputItems {
		perHour := base * out.Count * expected
		if gourmetTypes[def.Type] {
			gourmet := c.agg.Aggregate(types.BonusGourmet, state, def)
			perHour += perHour * gourmet.Decimal()
		}
		rates.Items = append(rates.Items, ItemRate{ItemHrid: out.ItemHrid, Tier: TierOutput, PerHour: perHour})
	}
}

// alchemyOutputs predicts success-gated output. Alchemy has no extra
// completions concept; the success rate plays that role.
func (c *Calculator) alchemyOutputs(rates *OutputRates, state *types.CharacterState, def *types.ActionDefinition) {
	success := c.agg.Aggregate(types.BonusSuccess, state, def)
	rates.SuccessRate = clamp01(def.BaseSuccessRate * success.Multiplier())

	essenceFind := c.agg.Aggregate(types.BonusEssenceFind, state, def)
	rareFind := c.agg.Aggregate(types.BonusRareFind, state, def)
	base := rates.ActionsPerHourBase

	for _, drop := range def.DropTable {
		perHour := base * rates.SuccessRate * drop.DropRate * drop.AvgCount()
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierNormal, PerHour: perHour})
	}
	for _, drop := range def.RareDropTable {
		perHour := base * rates.SuccessRate * drop.DropRate * rareFind.Multiplier() * drop.AvgCount()
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierRare, PerHour: perHour})
	}
	// Essence drops are never gated by success.
	for _, drop := range def.EssenceDropTable {
		perHour := base * drop.DropRate * essenceFind.Multiplier() * drop.AvgCount()
		rates.Items = append(rates.Items, ItemRate{ItemHrid: drop.ItemHrid, Tier: TierEssence, PerHour: perHour})
	}
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
