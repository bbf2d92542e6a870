package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"idle-profit/adapters/market"
	"idle-profit/core/types"
	"idle-profit/db"
	"idle-profit/internal/config"
	"idle-profit/internal/errors"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Market price snapshot management",
}

var pricesUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the market dump and store a snapshot",
	RunE:  runPricesUpdate,
}

var pricesShowLevel int

var pricesShowCmd = &cobra.Command{
	Use:   "show <item-hrid>",
	Short: "Show the stored quote for an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runPricesShow,
}

var pricesWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live order-book updates into the quote table",
	Long: `Subscribe to the live order-book feed and merge updates into the
quote table until interrupted. On shutdown the accumulated quotes are
stored as a new snapshot.

Requires market.feed_url to be configured.`,
	RunE: runPricesWatch,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.AddCommand(pricesUpdateCmd)
	pricesCmd.AddCommand(pricesShowCmd)
	pricesCmd.AddCommand(pricesWatchCmd)

	pricesShowCmd.Flags().IntVarP(&pricesShowLevel, "level", "l", 0, "enhancement level")
}

func runPricesUpdate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	store, err := db.Open(cfg.Market.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout := time.Duration(cfg.Market.FetchTimeoutSeconds) * time.Second
	client := market.NewClient(cfg.Market.SnapshotURL, timeout, store)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Refresh(ctx); err != nil {
		return err
	}

	// keep a short history for debugging price movements
	if err := store.Prune(5); err != nil {
		return err
	}

	fmt.Printf("Snapshot %s stored (%s)\n", client.SnapshotID(), cfg.Market.DatabasePath)
	return nil
}

func runPricesWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg.Market.FeedURL == "" {
		return errors.New(errors.TypeConfig, "market.feed_url is not configured")
	}

	store, err := db.Open(cfg.Market.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout := time.Duration(cfg.Market.FetchTimeoutSeconds) * time.Second
	client := market.NewClient(cfg.Market.SnapshotURL, timeout, store)

	// seed the table so the feed patches a full book instead of an
	// empty one
	if err := client.LoadStored(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = client.Refresh(ctx)
		cancel()
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Watching live order books (ctrl-c to stop)...")
	err = market.NewFeed(cfg.Market.FeedURL, client).Run(ctx)
	if ctx.Err() == nil {
		return err
	}

	if err := client.Persist(); err != nil {
		return err
	}
	fmt.Printf("Snapshot %s stored (%s)\n", client.SnapshotID(), cfg.Market.DatabasePath)
	return nil
}

func runPricesShow(cmd *cobra.Command, args []string) error {
	item := types.ItemHrid(args[0])
	cfg := config.Get()

	store, err := db.Open(cfg.Market.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout := time.Duration(cfg.Market.FetchTimeoutSeconds) * time.Second
	client := market.NewClient(cfg.Market.SnapshotURL, timeout, store)
	if err := client.LoadStored(); err != nil {
		return err
	}

	quote, ok := client.GetPrice(item, pricesShowLevel)
	if !ok {
		return errors.NotFound("quote", string(item))
	}

	fmt.Printf("Item:     %s", item)
	if pricesShowLevel > 0 {
		fmt.Printf(" +%d", pricesShowLevel)
	}
	fmt.Println()
	if quote.Ask != nil {
		fmt.Printf("Ask:      %s\n", humanize.CommafWithDigits(quote.Ask.InexactFloat64(), 2))
	} else {
		fmt.Println("Ask:      (no sellers)")
	}
	if quote.Bid != nil {
		fmt.Printf("Bid:      %s\n", humanize.CommafWithDigits(quote.Bid.InexactFloat64(), 2))
	} else {
		fmt.Println("Bid:      (no buyers)")
	}
	fmt.Printf("Snapshot: %s (%s old)\n",
		client.SnapshotID(), time.Since(client.FetchedAt()).Round(time.Second))
	return nil
}
