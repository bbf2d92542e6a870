// Package pricing resolves item valuations from market quotes with a
// fixed fallback chain: market quote, recipe-derived crafting cost, shop
// coin cost, zero. The chain order is a hard contract; callers must not
// pick a different fallback on their own.
package pricing

import (
	"github.com/shopspring/decimal"

	"idle-profit/core/types"
)

// Mode selects which side of the book prices buys and sells
type Mode string

const (
	// ModeConservative buys at ask, sells at bid
	ModeConservative Mode = "conservative"

	// ModeHybrid buys at ask, sells at ask
	ModeHybrid Mode = "hybrid"

	// ModeOptimistic buys at bid, sells at ask
	ModeOptimistic Mode = "optimistic"
)

// ParseMode maps a config string to a Mode, defaulting to conservative
func ParseMode(name string) Mode {
	switch Mode(name) {
	case ModeHybrid:
		return ModeHybrid
	case ModeOptimistic:
		return ModeOptimistic
	default:
		return ModeConservative
	}
}

// BuyPrice extracts the buy-side price from a quote under this mode
func (m Mode) BuyPrice(q types.PriceQuote) (decimal.Decimal, bool) {
	if m == ModeOptimistic {
		if !q.HasBid() {
			return decimal.Zero, false
		}
		return *q.Bid, true
	}
	if !q.HasAsk() {
		return decimal.Zero, false
	}
	return *q.Ask, true
}

// SellPrice extracts the sell-side price from a quote under this mode
func (m Mode) SellPrice(q types.PriceQuote) (decimal.Decimal, bool) {
	if m == ModeConservative {
		if !q.HasBid() {
			return decimal.Zero, false
		}
		return *q.Bid, true
	}
	if !q.HasAsk() {
		return decimal.Zero, false
	}
	return *q.Ask, true
}
