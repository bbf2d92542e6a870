// Package limit bounds how many attempts of an action the character's
// inventory can sustain.
package limit

import (
	"math"

	"idle-profit/core/bonus"
	"idle-profit/core/types"
)

// Inventory maps item to the available count
type Inventory map[types.ItemHrid]float64

// Constraint is one item's contribution to the queue bound
type Constraint struct {
	// ItemHrid identifies the consumed item
	ItemHrid types.ItemHrid `json:"item_hrid"`

	// Available is the inventory count
	Available float64 `json:"available"`

	// Required is the per-attempt consumption after any Artisan reduction
	Required float64 `json:"required"`

	// MaxAttempts is floor(available / required)
	MaxAttempts int64 `json:"max_attempts"`
}

// Result is the queue bound with its per-item breakdown. An action that
// consumes nothing is genuinely unbounded; Bounded distinguishes that
// from a zero bound.
type Result struct {
	// Bounded is false when no input constrains the queue
	Bounded bool `json:"bounded"`

	// MaxAttempts is the minimum bound across constraints; meaningless
	// when Bounded is false
	MaxAttempts int64 `json:"max_attempts"`

	// Binding identifies the constraining item
	Binding types.ItemHrid `json:"binding,omitempty"`

	// Constraints lists every consumed item's bound
	Constraints []Constraint `json:"constraints,omitempty"`
}

// Calculator computes inventory-driven queue bounds
type Calculator struct {
	agg *bonus.Aggregator
}

// NewCalculator creates a limit calculator
func NewCalculator(agg *bonus.Aggregator) *Calculator {
	return &Calculator{agg: agg}
}

// MaxAttempts bounds the feasible attempts of an action against the
// inventory. Material inputs are Artisan-reduced; the upgrade item is
// not. Bulk actions divide the primary item count by the per-action
// bulk multiplier instead of iterating the input list.
func (c *Calculator) MaxAttempts(state *types.CharacterState, def *types.ActionDefinition, inv Inventory) Result {
	result := Result{}
	if def == nil {
		return result
	}

	if def.IsBulk() && len(def.InputItems) > 0 {
		primary := def.InputItems[0]
		c.constrain(&result, primary.ItemHrid, inv[primary.ItemHrid], def.BulkMultiplier)
		return result
	}

	artisan := c.agg.Aggregate(types.BonusArtisan, state, def)
	reduction := 1 - artisan.Decimal()
	if reduction < 0 {
		reduction = 0
	}

	for _, input := range def.InputItems {
		c.constrain(&result, input.ItemHrid, inv[input.ItemHrid], input.Count*reduction)
	}
	if def.UpgradeItemHrid != "" {
		c.constrain(&result, def.UpgradeItemHrid, inv[def.UpgradeItemHrid], 1)
	}
	return result
}

// constrain records one item bound and tightens the overall result. A
// non-positive requirement constrains nothing.
func (c *Calculator) constrain(result *Result, item types.ItemHrid, available, required float64) {
	if required <= 0 {
		return
	}
	attempts := int64(math.Floor(available / required))
	if attempts < 0 {
		attempts = 0
	}
	result.Constraints = append(result.Constraints, Constraint{
		ItemHrid:    item,
		Available:   available,
		Required:    required,
		MaxAttempts: attempts,
	})
	if !result.Bounded || attempts < result.MaxAttempts {
		result.Bounded = true
		result.MaxAttempts = attempts
		result.Binding = item
	}
}
