// Package pricing - Quote providers
package pricing

import (
	"context"

	"idle-profit/core/types"
)

// Provider supplies market quotes. An absent quote is signalled by
// ok=false, never by an error; a quote may also carry a nil ask or bid
// when one side of the book is empty.
type Provider interface {
	// GetPrice returns the quote for an item at an enhancement level
	GetPrice(item types.ItemHrid, enhancementLevel int) (types.PriceQuote, bool)

	// Refresh updates quotes from the upstream market source
	Refresh(ctx context.Context) error
}

// Static is an in-memory quote table implementing Provider. Refresh is a
// no-op; it is used for tests and offline snapshots.
type Static map[types.QuoteKey]types.PriceQuote

// GetPrice returns the stored quote
func (s Static) GetPrice(item types.ItemHrid, enhancementLevel int) (types.PriceQuote, bool) {
	q, ok := s[types.QuoteKey{ItemHrid: item, EnhancementLevel: enhancementLevel}]
	return q, ok
}

// Refresh is a no-op for static quote tables
func (s Static) Refresh(ctx context.Context) error {
	return nil
}

// Add stores a quote, keyed by item and enhancement level
func (s Static) Add(q types.PriceQuote) {
	s[q.Key()] = q
}
