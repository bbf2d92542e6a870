// Package market provides the market-price collaborators: an HTTP
// fetcher for the public marketplace dump and a websocket feed for live
// order-book updates. Both keep an in-memory quote table that the
// pricing resolver reads, and persist snapshots through the db store so
// calculations keep working offline.
package market

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"idle-profit/core/types"
	"idle-profit/db"
	"idle-profit/internal/errors"
	"idle-profit/internal/logging"
)

// Client is a pricing provider backed by the marketplace dump. Quote
// reads are lock-free with respect to refreshes except for a short
// table swap.
type Client struct {
	url    string
	client *http.Client
	store  *db.Store

	mu        sync.RWMutex
	quotes    map[types.QuoteKey]types.PriceQuote
	snapshot  string
	fetchedAt time.Time
}

// NewClient creates a market client. store may be nil to disable
// persistence.
func NewClient(url string, timeout time.Duration, store *db.Store) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		store:  store,
		quotes: map[types.QuoteKey]types.PriceQuote{},
	}
}

// GetPrice returns the in-memory quote for an item
func (c *Client) GetPrice(item types.ItemHrid, enhancementLevel int) (types.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[types.QuoteKey{ItemHrid: item, EnhancementLevel: enhancementLevel}]
	return q, ok
}

// SnapshotID identifies the loaded snapshot, empty before any load
func (c *Client) SnapshotID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// FetchedAt is when the loaded quotes were captured
func (c *Client) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// marketDump is the wire shape of the public marketplace JSON:
// item hrid -> enhancement level -> {"a": ask, "b": bid}, with -1
// marking an empty side of the book.
type marketDump struct {
	Timestamp  int64                                `json:"timestamp"`
	MarketData map[string]map[string]marketDumpSide `json:"marketData"`
}

type marketDumpSide struct {
	Ask float64 `json:"a"`
	Bid float64 `json:"b"`
}

// Refresh downloads the marketplace dump, swaps the quote table, and
// persists a snapshot when a store is attached
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return errors.Network("build market request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Network("fetch market dump", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.TypeNetwork, "market dump returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Network("read market dump", err)
	}

	var dump marketDump
	if err := json.Unmarshal(body, &dump); err != nil {
		return errors.Network("decode market dump", err)
	}

	quotes := parseDump(&dump)
	snap := db.NewSnapshot(c.url, quotes)
	if c.store != nil {
		if err := c.store.SaveSnapshot(snap); err != nil {
			// Persistence failure must not block fresh quotes.
			logging.Warn("snapshot save failed", zap.Error(err))
		}
	}

	c.install(snap)
	logging.Info("market quotes refreshed",
		zap.Int("quotes", len(quotes)), zap.String("snapshot", snap.ID))
	return nil
}

// LoadStored installs the latest persisted snapshot, for offline use
func (c *Client) LoadStored() error {
	if c.store == nil {
		return errors.New(errors.TypeStorage, "no snapshot store attached")
	}
	snap, err := c.store.LoadLatest()
	if err != nil {
		return err
	}
	c.install(snap)
	logging.Info("market snapshot loaded",
		zap.String("snapshot", snap.ID), zap.Duration("age", snap.Age()))
	return nil
}

func (c *Client) install(snap *db.Snapshot) {
	table := make(map[types.QuoteKey]types.PriceQuote, len(snap.Quotes))
	for _, q := range snap.Quotes {
		table[q.Key()] = q
	}
	c.mu.Lock()
	c.quotes = table
	c.snapshot = snap.ID
	c.fetchedAt = snap.FetchedAt
	c.mu.Unlock()
}

// update merges one quote into the table, for the live feed
func (c *Client) update(q types.PriceQuote) {
	c.mu.Lock()
	c.quotes[q.Key()] = q
	c.mu.Unlock()
}

// Persist stores the current quote table as a new snapshot, so quotes
// accumulated from the live feed survive a restart
func (c *Client) Persist() error {
	if c.store == nil {
		return errors.New(errors.TypeStorage, "no snapshot store attached")
	}
	c.mu.RLock()
	quotes := make([]types.PriceQuote, 0, len(c.quotes))
	for _, q := range c.quotes {
		quotes = append(quotes, q)
	}
	c.mu.RUnlock()

	snap := db.NewSnapshot("feed", quotes)
	if err := c.store.SaveSnapshot(snap); err != nil {
		return err
	}
	c.mu.Lock()
	c.snapshot = snap.ID
	c.fetchedAt = snap.FetchedAt
	c.mu.Unlock()
	return nil
}

func parseDump(dump *marketDump) []types.PriceQuote {
	var quotes []types.PriceQuote
	for item, levels := range dump.MarketData {
		for levelStr, side := range levels {
			level, err := strconv.Atoi(levelStr)
			if err != nil {
				continue
			}
			q := types.PriceQuote{
				ItemHrid:         types.ItemHrid(item),
				EnhancementLevel: level,
			}
			// -1 marks an empty side of the book
			if side.Ask >= 0 {
				d := decimal.NewFromFloat(side.Ask)
				q.Ask = &d
			}
			if side.Bid >= 0 {
				d := decimal.NewFromFloat(side.Bid)
				q.Bid = &d
			}
			if q.Ask == nil && q.Bid == nil {
				continue
			}
			quotes = append(quotes, q)
		}
	}
	return quotes
}
