package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"idle-profit/adapters/market"
	"idle-profit/core/action"
	"idle-profit/core/bonus"
	"idle-profit/core/enhance"
	"idle-profit/core/limit"
	"idle-profit/core/output"
	"idle-profit/core/pricing"
	"idle-profit/core/profit"
	"idle-profit/core/types"
	"idle-profit/db"
	"idle-profit/internal/config"
	"idle-profit/internal/errors"
)

var (
	profitStateFile     string
	profitDataFile      string
	profitInventoryFile string
	profitFormat        string
	profitAsTask        bool
	profitUpgradeLevel  int
	profitOffline       bool
)

var profitCmd = &cobra.Command{
	Use:   "profit <action-hrid>",
	Short: "Compute hourly profit for an action",
	Long: `Compute duration, output rates, hourly profit and the inventory queue
bound for one action, from a character snapshot and market prices.

The game data file holds the action and item definitions; the state file
holds the character snapshot. Prices come from the latest stored market
snapshot, refreshed first unless --offline is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfit,
}

func init() {
	rootCmd.AddCommand(profitCmd)

	profitCmd.Flags().StringVarP(&profitStateFile, "state", "s", "", "character snapshot JSON file")
	profitCmd.Flags().StringVarP(&profitDataFile, "data", "d", "", "game data JSON file (actions and items) [required]")
	profitCmd.Flags().StringVar(&profitInventoryFile, "inventory", "", "inventory JSON file for the queue bound")
	profitCmd.Flags().StringVarP(&profitFormat, "format", "f", "", "output format (cli, json)")
	profitCmd.Flags().BoolVar(&profitAsTask, "as-task", false, "apply the task speed bonus")
	profitCmd.Flags().IntVar(&profitUpgradeLevel, "upgrade-level", 0, "enhancement level of the consumed upgrade item")
	profitCmd.Flags().BoolVar(&profitOffline, "offline", false, "use the stored market snapshot without refreshing")

	profitCmd.MarkFlagRequired("data")
}

// gameData is the on-disk shape of the definitions file
type gameData struct {
	Actions []types.ActionDefinition `json:"actions"`
	Items   []types.ItemDefinition   `json:"items"`
}

func runProfit(cmd *cobra.Command, args []string) error {
	hrid := types.ActionHrid(args[0])
	cfg := config.Get()

	data, err := loadGameData(profitDataFile)
	if err != nil {
		return err
	}
	def := data.action(hrid)
	if def == nil {
		return errors.NotFound("action", string(hrid))
	}

	var state *types.CharacterState
	if profitStateFile != "" {
		state = &types.CharacterState{}
		if err := readJSON(profitStateFile, state); err != nil {
			return err
		}
	}

	client, closeStore, err := openMarket(cfg, profitOffline)
	if err != nil {
		return err
	}
	defer closeStore()

	agg := bonus.NewAggregator(enhance.ParseTable(cfg.Pricing.EnhancementTable))
	mode := pricing.ParseMode(cfg.Pricing.Mode)

	actions := action.NewCalculator(agg)
	resolver := pricing.NewResolver(client, data.catalog(), mode)
	calc := profit.NewCalculator(agg, actions, resolver, data.catalog())

	result, err := calc.Calculate(profit.Request{
		State:                   state,
		Action:                  def,
		AsTask:                  profitAsTask,
		UpgradeEnhancementLevel: profitUpgradeLevel,
	})
	if err != nil {
		return err
	}

	report := &output.Report{
		Profit:      result,
		SnapshotID:  client.SnapshotID(),
		GeneratedAt: time.Now(),
	}
	if !client.FetchedAt().IsZero() {
		report.SnapshotAge = time.Since(client.FetchedAt())
	}
	if profitInventoryFile != "" {
		var inv limit.Inventory
		if err := readJSON(profitInventoryFile, &inv); err != nil {
			return err
		}
		bound := limit.NewCalculator(agg).MaxAttempts(state, def, inv)
		report.Limit = &bound
	}

	format := profitFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	formatter, err := output.New(output.Format(format))
	if err != nil {
		return err
	}
	return formatter.Render(os.Stdout, report)
}

func loadGameData(path string) (*gameData, error) {
	var data gameData
	if err := readJSON(path, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (g *gameData) action(hrid types.ActionHrid) *types.ActionDefinition {
	for i := range g.Actions {
		if g.Actions[i].Hrid == hrid {
			return &g.Actions[i]
		}
	}
	return nil
}

func (g *gameData) catalog() types.Catalog {
	catalog := make(types.Catalog, len(g.Items))
	for _, item := range g.Items {
		catalog[item.Hrid] = item
	}
	return catalog
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// openMarket builds the pricing provider from config: stored snapshot
// when offline, refreshed from the dump otherwise with the stored
// snapshot as a fallback
func openMarket(cfg *config.Config, offline bool) (*market.Client, func(), error) {
	store, err := db.Open(cfg.Market.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() { store.Close() }

	timeout := time.Duration(cfg.Market.FetchTimeoutSeconds) * time.Second
	client := market.NewClient(cfg.Market.SnapshotURL, timeout, store)

	if offline {
		if err := client.LoadStored(); err != nil {
			closeStore()
			return nil, nil, err
		}
		return client, closeStore, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Refresh(ctx); err != nil {
		// degrade to the stored snapshot rather than failing outright
		if loadErr := client.LoadStored(); loadErr != nil {
			closeStore()
			return nil, nil, err
		}
	}
	return client, closeStore, nil
}
