package market

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"idle-profit/core/types"
	"idle-profit/internal/errors"
	"idle-profit/internal/logging"
)

// Feed subscribes to the live order-book websocket and merges updates
// into a Client's quote table. The engine never depends on it; a dead
// feed just means stale quotes until the next Refresh.
type Feed struct {
	url    string
	client *Client
}

// NewFeed creates a live feed bound to a market client
func NewFeed(url string, client *Client) *Feed {
	return &Feed{url: url, client: client}
}

// orderBookMessage is the wire shape of a live order-book update
type orderBookMessage struct {
	Type     string `json:"type"`
	ItemHrid string `json:"itemHrid"`
	Books    []struct {
		EnhancementLevel int     `json:"enhancementLevel"`
		Ask              float64 `json:"ask"`
		Bid              float64 `json:"bid"`
	} `json:"orderBooks"`
}

// Run reads the feed until the context is cancelled, reconnecting with
// a fixed backoff on connection loss
func (f *Feed) Run(ctx context.Context) error {
	for {
		err := f.readLoop(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn("market feed disconnected", zap.Error(err))

		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (f *Feed) readLoop(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, f.url, nil)
	if err != nil {
		return errors.Network("dial market feed", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")
	logging.Info("market feed connected", zap.String("url", f.url))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return errors.Network("read market feed", err)
		}
		f.handle(data)
	}
}

func (f *Feed) handle(data []byte) {
	var msg orderBookMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Debug("undecodable feed message", zap.Error(err))
		return
	}
	if msg.Type != "market_item_order_books_updated" || msg.ItemHrid == "" {
		return
	}

	for _, book := range msg.Books {
		q := types.PriceQuote{
			ItemHrid:         types.ItemHrid(msg.ItemHrid),
			EnhancementLevel: book.EnhancementLevel,
		}
		if book.Ask >= 0 {
			d := decimal.NewFromFloat(book.Ask)
			q.Ask = &d
		}
		if book.Bid >= 0 {
			d := decimal.NewFromFloat(book.Bid)
			q.Bid = &d
		}
		f.client.update(q)
	}
}
