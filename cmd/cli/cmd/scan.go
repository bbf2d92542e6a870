package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"idle-profit/core/action"
	"idle-profit/core/batch"
	"idle-profit/core/bonus"
	"idle-profit/core/enhance"
	"idle-profit/core/pricing"
	"idle-profit/core/profit"
	"idle-profit/core/types"
	"idle-profit/internal/config"
)

var (
	scanStateFile string
	scanDataFile  string
	scanTop       int
	scanOffline   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rank every action in the data file by hourly profit",
	Long: `Compute profit for every action in the game data file in parallel and
print them ranked by hourly profit. Actions whose prices cannot be
resolved in time show up as unavailable instead of failing the scan.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanStateFile, "state", "s", "", "character snapshot JSON file")
	scanCmd.Flags().StringVarP(&scanDataFile, "data", "d", "", "game data JSON file (actions and items) [required]")
	scanCmd.Flags().IntVarP(&scanTop, "top", "n", 20, "number of actions to show")
	scanCmd.Flags().BoolVar(&scanOffline, "offline", false, "use the stored market snapshot without refreshing")

	scanCmd.MarkFlagRequired("data")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	data, err := loadGameData(scanDataFile)
	if err != nil {
		return err
	}

	var state *types.CharacterState
	if scanStateFile != "" {
		state = &types.CharacterState{}
		if err := readJSON(scanStateFile, state); err != nil {
			return err
		}
	}

	client, closeStore, err := openMarket(cfg, scanOffline)
	if err != nil {
		return err
	}
	defer closeStore()

	agg := bonus.NewAggregator(enhance.ParseTable(cfg.Pricing.EnhancementTable))
	actions := action.NewCalculator(agg)
	resolver := pricing.NewResolver(client, data.catalog(), pricing.ParseMode(cfg.Pricing.Mode))
	calc := profit.NewCalculator(agg, actions, resolver, data.catalog())

	runner := batch.NewRunner(calc, batch.Options{
		Concurrency: cfg.Batch.Concurrency,
		ItemTimeout: time.Duration(cfg.Batch.ItemTimeoutMillis) * time.Millisecond,
	})

	requests := make([]profit.Request, len(data.Actions))
	for i := range data.Actions {
		requests[i] = profit.Request{State: state, Action: &data.Actions[i]}
	}

	entries, err := runner.Run(context.Background(), runner.Begin(), requests)
	if err != nil {
		return err
	}

	var ranked []batch.Entry
	unavailable := 0
	for _, entry := range entries {
		if entry.Unavailable {
			unavailable++
			continue
		}
		ranked = append(ranked, entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Result.ProfitPerHour.GreaterThan(ranked[j].Result.ProfitPerHour)
	})
	if scanTop > 0 && len(ranked) > scanTop {
		ranked = ranked[:scanTop]
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tACTIONS/H\tPROFIT/H")
	for _, entry := range ranked {
		r := entry.Result
		flag := ""
		if r.PriceMissing {
			flag = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s%s\n",
			r.ActionHrid,
			humanize.CommafWithDigits(r.ActionsPerHour, 1),
			humanize.CommafWithDigits(r.ProfitPerHour.InexactFloat64(), 0),
			flag)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if unavailable > 0 {
		fmt.Printf("\n%d actions unavailable (price lookup failed or timed out)\n", unavailable)
	}
	return nil
}
