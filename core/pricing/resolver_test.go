package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"idle-profit/core/types"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestModePricePairs(t *testing.T) {
	quote := types.PriceQuote{ItemHrid: "/items/milk", Ask: dec(100), Bid: dec(90)}

	tests := []struct {
		mode     Mode
		wantBuy  float64
		wantSell float64
	}{
		{ModeConservative, 100, 90},
		{ModeHybrid, 100, 100},
		{ModeOptimistic, 90, 100},
	}

	for _, tt := range tests {
		buy, ok := tt.mode.BuyPrice(quote)
		if !ok || !buy.Equal(decimal.NewFromFloat(tt.wantBuy)) {
			t.Errorf("%s buy = %v, want %v", tt.mode, buy, tt.wantBuy)
		}
		sell, ok := tt.mode.SellPrice(quote)
		if !ok || !sell.Equal(decimal.NewFromFloat(tt.wantSell)) {
			t.Errorf("%s sell = %v, want %v", tt.mode, sell, tt.wantSell)
		}
	}
}

func TestModeMissingSide(t *testing.T) {
	quote := types.PriceQuote{ItemHrid: "/items/milk", Ask: dec(100)}
	if _, ok := ModeConservative.SellPrice(quote); ok {
		t.Error("sell price should be unknown when bid is nil")
	}
	if _, ok := ModeConservative.BuyPrice(quote); !ok {
		t.Error("buy price should be known from ask")
	}
}

func TestResolverMarketFirst(t *testing.T) {
	quotes := Static{}
	quotes.Add(types.PriceQuote{ItemHrid: "/items/cheese", Ask: dec(200), Bid: dec(180)})
	catalog := types.Catalog{
		"/items/cheese": {
			Hrid:         "/items/cheese",
			ShopCoinCost: decimal.NewFromInt(999),
			Recipe: &types.CraftRecipe{
				Inputs:      []types.ItemCount{{ItemHrid: "/items/milk", Count: 2}},
				OutputCount: 1,
			},
		},
	}

	r := NewResolver(quotes, catalog, ModeConservative)
	v := r.Buy("/items/cheese", 0)
	if v.Source != SourceMarket {
		t.Fatalf("source = %s, want market", v.Source)
	}
	if !v.Price.Equal(decimal.NewFromInt(200)) {
		t.Errorf("price = %v, want 200", v.Price)
	}
}

func TestResolverCraftFallback(t *testing.T) {
	quotes := Static{}
	quotes.Add(types.PriceQuote{ItemHrid: "/items/milk", Ask: dec(50), Bid: dec(40)})
	catalog := types.Catalog{
		"/items/cheese": {
			Hrid: "/items/cheese",
			Recipe: &types.CraftRecipe{
				Inputs:      []types.ItemCount{{ItemHrid: "/items/milk", Count: 2}},
				OutputCount: 1,
			},
		},
	}

	r := NewResolver(quotes, catalog, ModeConservative)
	v := r.Buy("/items/cheese", 0)
	if v.Source != SourceCraft {
		t.Fatalf("source = %s, want craft", v.Source)
	}
	// 2 * 50 * 0.9
	if !v.Price.Equal(decimal.NewFromInt(90)) {
		t.Errorf("price = %v, want 90", v.Price)
	}
}

func TestResolverCraftUpgradeItemFullPrice(t *testing.T) {
	quotes := Static{}
	quotes.Add(types.PriceQuote{ItemHrid: "/items/milk", Ask: dec(50), Bid: dec(40)})
	quotes.Add(types.PriceQuote{ItemHrid: "/items/plain_cheese", Ask: dec(100), Bid: dec(80)})
	catalog := types.Catalog{
		"/items/aged_cheese": {
			Hrid: "/items/aged_cheese",
			Recipe: &types.CraftRecipe{
				Inputs:          []types.ItemCount{{ItemHrid: "/items/milk", Count: 2}},
				UpgradeItemHrid: "/items/plain_cheese",
				OutputCount:     1,
			},
		},
	}

	r := NewResolver(quotes, catalog, ModeConservative)
	v := r.Buy("/items/aged_cheese", 0)
	if v.Source != SourceCraft {
		t.Fatalf("source = %s, want craft", v.Source)
	}
	// 2*50*0.9 + 100 (upgrade item undiscounted)
	if !v.Price.Equal(decimal.NewFromInt(190)) {
		t.Errorf("price = %v, want 190", v.Price)
	}
}

func TestResolverShopFallback(t *testing.T) {
	catalog := types.Catalog{
		"/items/shears": {Hrid: "/items/shears", ShopCoinCost: decimal.NewFromInt(150)},
	}

	r := NewResolver(Static{}, catalog, ModeConservative)
	v := r.Buy("/items/shears", 0)
	if v.Source != SourceShop {
		t.Fatalf("source = %s, want shop", v.Source)
	}
	if !v.Price.Equal(decimal.NewFromInt(150)) {
		t.Errorf("price = %v, want 150", v.Price)
	}
}

func TestResolverZeroFallbackFlagsMissing(t *testing.T) {
	r := NewResolver(Static{}, types.Catalog{}, ModeConservative)
	v := r.Sell("/items/unknown", 0)
	if v.Source != SourceNone || !v.Missing() {
		t.Fatalf("source = %s, want none/missing", v.Source)
	}
	if !v.Price.IsZero() {
		t.Errorf("price = %v, want 0", v.Price)
	}
}

func TestResolverCoinIsUnit(t *testing.T) {
	r := NewResolver(Static{}, types.Catalog{}, ModeConservative)
	v := r.Sell(types.CoinHrid, 0)
	if !v.Price.Equal(decimal.NewFromInt(1)) || v.Source != SourceMarket {
		t.Errorf("coin valuation = %v/%s, want 1/market", v.Price, v.Source)
	}
}

func TestResolverRecipeCycleGuard(t *testing.T) {
	catalog := types.Catalog{
		"/items/a": {Hrid: "/items/a", Recipe: &types.CraftRecipe{
			Inputs: []types.ItemCount{{ItemHrid: "/items/b", Count: 1}}, OutputCount: 1}},
		"/items/b": {Hrid: "/items/b", Recipe: &types.CraftRecipe{
			Inputs: []types.ItemCount{{ItemHrid: "/items/a", Count: 1}}, OutputCount: 1}},
	}

	r := NewResolver(Static{}, catalog, ModeConservative)
	// Must terminate; both items resolve through craft with zero-priced
	// leaves rather than recursing forever.
	v := r.Buy("/items/a", 0)
	if v.Price.IsNegative() {
		t.Errorf("unexpected negative price %v", v.Price)
	}
}

func TestResolverOutputCountDividesCost(t *testing.T) {
	quotes := Static{}
	quotes.Add(types.PriceQuote{ItemHrid: "/items/grapes", Ask: dec(10), Bid: dec(8)})
	catalog := types.Catalog{
		"/items/wine": {
			Hrid: "/items/wine",
			Recipe: &types.CraftRecipe{
				Inputs:      []types.ItemCount{{ItemHrid: "/items/grapes", Count: 10}},
				OutputCount: 4,
			},
		},
	}

	r := NewResolver(quotes, catalog, ModeConservative)
	v := r.Buy("/items/wine", 0)
	// 10*10*0.9 / 4
	if !v.Price.Equal(decimal.NewFromFloat(22.5)) {
		t.Errorf("price = %v, want 22.5", v.Price)
	}
}
