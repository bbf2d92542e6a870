package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"idle-profit/db"
)

const dumpBody = `{
	"timestamp": 1724400000,
	"marketData": {
		"/items/milk":  {"0": {"a": 50, "b": 45}},
		"/items/sword": {"0": {"a": 800, "b": 750}, "3": {"a": 1200, "b": -1}},
		"/items/dust":  {"0": {"a": -1, "b": -1}}
	}
}`

func dumpServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dumpBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshPopulatesQuotes(t *testing.T) {
	srv := dumpServer(t)
	client := NewClient(srv.URL, 5*time.Second, nil)

	if err := client.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	milk, ok := client.GetPrice("/items/milk", 0)
	if !ok || milk.Ask == nil || !milk.Ask.Equal(decimal.NewFromInt(50)) {
		t.Errorf("milk quote = %+v, %v", milk, ok)
	}

	// a -1 side is an empty book, not a zero price
	sword, ok := client.GetPrice("/items/sword", 3)
	if !ok || sword.Bid != nil {
		t.Errorf("sword +3 bid should be absent, got %+v", sword)
	}

	// both sides empty drops the quote entirely
	if _, ok := client.GetPrice("/items/dust", 0); ok {
		t.Error("quote with no book sides should be dropped")
	}

	if client.SnapshotID() == "" {
		t.Error("refresh must record a snapshot id")
	}
}

func TestRefreshHTTPErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, 5*time.Second, nil)
	if err := client.Refresh(context.Background()); err == nil {
		t.Fatal("5xx must surface as an error")
	}
	if _, ok := client.GetPrice("/items/milk", 0); ok {
		t.Error("failed refresh must not install quotes")
	}
}

func TestRefreshPersistsAndLoadStored(t *testing.T) {
	srv := dumpServer(t)
	store, err := db.Open(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	online := NewClient(srv.URL, 5*time.Second, store)
	if err := online.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	// a second client starts offline from the persisted snapshot
	offline := NewClient(srv.URL, 5*time.Second, store)
	if err := offline.LoadStored(); err != nil {
		t.Fatal(err)
	}
	milk, ok := offline.GetPrice("/items/milk", 0)
	if !ok || milk.Bid == nil || !milk.Bid.Equal(decimal.NewFromInt(45)) {
		t.Errorf("offline milk quote = %+v, %v", milk, ok)
	}
	if offline.SnapshotID() != online.SnapshotID() {
		t.Errorf("snapshot id %s != %s", offline.SnapshotID(), online.SnapshotID())
	}
}

func TestLoadStoredWithoutStore(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	if err := client.LoadStored(); err == nil {
		t.Fatal("no store attached must error")
	}
}

func TestFeedHandleMergesOrderBooks(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	feed := NewFeed("ws://unused", client)

	feed.handle([]byte(`{
		"type": "market_item_order_books_updated",
		"itemHrid": "/items/milk",
		"orderBooks": [
			{"enhancementLevel": 0, "ask": 55, "bid": 48},
			{"enhancementLevel": 1, "ask": 70, "bid": -1}
		]
	}`))

	milk, ok := client.GetPrice("/items/milk", 0)
	if !ok || !milk.Ask.Equal(decimal.NewFromInt(55)) || !milk.Bid.Equal(decimal.NewFromInt(48)) {
		t.Errorf("milk quote = %+v, %v", milk, ok)
	}
	enhanced, ok := client.GetPrice("/items/milk", 1)
	if !ok || enhanced.Bid != nil {
		t.Errorf("milk +1 bid should be absent, got %+v", enhanced)
	}
}

func TestPersistStoresFeedUpdates(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "market.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	client := NewClient("http://unused", time.Second, store)
	feed := NewFeed("ws://unused", client)
	feed.handle([]byte(`{
		"type": "market_item_order_books_updated",
		"itemHrid": "/items/milk",
		"orderBooks": [{"enhancementLevel": 0, "ask": 55, "bid": 48}]
	}`))

	if err := client.Persist(); err != nil {
		t.Fatal(err)
	}
	if client.SnapshotID() == "" {
		t.Error("persist must record a snapshot id")
	}

	// a fresh client sees the feed's quotes after a restart
	restarted := NewClient("http://unused", time.Second, store)
	if err := restarted.LoadStored(); err != nil {
		t.Fatal(err)
	}
	milk, ok := restarted.GetPrice("/items/milk", 0)
	if !ok || !milk.Ask.Equal(decimal.NewFromInt(55)) {
		t.Errorf("restored milk quote = %+v, %v", milk, ok)
	}
}

func TestPersistWithoutStore(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	if err := client.Persist(); err == nil {
		t.Fatal("no store attached must error")
	}
}

func TestFeedRunStopsOnCancel(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	feed := NewFeed("ws://127.0.0.1:1/feed", client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := feed.Run(ctx); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFeedHandleIgnoresOtherMessages(t *testing.T) {
	client := NewClient("http://unused", time.Second, nil)
	feed := NewFeed("ws://unused", client)

	feed.handle([]byte(`{"type": "chat_message_received"}`))
	feed.handle([]byte(`not json`))

	if len(client.quotes) != 0 {
		t.Error("unrelated messages must not touch the quote table")
	}
}
