// Package types - Market price quotes
package types

import "github.com/shopspring/decimal"

// PriceQuote is a market quote for an item at an enhancement level.
// A nil Ask or Bid signals that side of the book is unknown.
type PriceQuote struct {
	// ItemHrid identifies the item
	ItemHrid ItemHrid `json:"item_hrid"`

	// EnhancementLevel is the quoted enhancement level
	EnhancementLevel int `json:"enhancement_level"`

	// Ask is the lowest sell order price, nil when unknown
	Ask *decimal.Decimal `json:"ask,omitempty"`

	// Bid is the highest buy order price, nil when unknown
	Bid *decimal.Decimal `json:"bid,omitempty"`
}

// HasAsk reports whether the ask side is known
func (q PriceQuote) HasAsk() bool {
	return q.Ask != nil
}

// HasBid reports whether the bid side is known
func (q PriceQuote) HasBid() bool {
	return q.Bid != nil
}

// QuoteKey identifies a quote for lookup
type QuoteKey struct {
	ItemHrid         ItemHrid
	EnhancementLevel int
}

// Key returns the lookup key of the quote
func (q PriceQuote) Key() QuoteKey {
	return QuoteKey{ItemHrid: q.ItemHrid, EnhancementLevel: q.EnhancementLevel}
}
