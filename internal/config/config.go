// Package config provides configuration management.
// Configuration can be loaded from JSON or HCL files; missing files fall
// back to defaults.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"idle-profit/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Market contains market data source configuration
	Market MarketConfig `json:"market"`

	// Pricing contains valuation configuration
	Pricing PricingConfig `json:"pricing"`

	// Batch contains batch calculation configuration
	Batch BatchConfig `json:"batch"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// MarketConfig contains market data source settings
type MarketConfig struct {
	// SnapshotURL is the endpoint serving the full market price dump
	SnapshotURL string `json:"snapshot_url" hcl:"snapshot_url,optional"`

	// FeedURL is the websocket endpoint for live order book updates
	FeedURL string `json:"feed_url,omitempty" hcl:"feed_url,optional"`

	// DatabasePath is the path to the local price snapshot database
	DatabasePath string `json:"database_path" hcl:"database_path,optional"`

	// FetchTimeoutSeconds bounds a single snapshot fetch
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds" hcl:"fetch_timeout_seconds,optional"`

	// RefreshOnStart refreshes prices on startup
	RefreshOnStart bool `json:"refresh_on_start" hcl:"refresh_on_start,optional"`
}

// PricingConfig contains valuation settings
type PricingConfig struct {
	// Mode selects the buy/sell price pair: conservative, hybrid, optimistic
	Mode string `json:"mode" hcl:"mode,optional"`

	// EnhancementTable selects the enhancement bonus curve: standard, legacy
	EnhancementTable string `json:"enhancement_table" hcl:"enhancement_table,optional"`
}

// BatchConfig contains batch calculation settings
type BatchConfig struct {
	// Concurrency is the number of parallel per-action calculations
	Concurrency int `json:"concurrency" hcl:"concurrency,optional"`

	// ItemTimeoutMillis bounds a single action's price lookups
	ItemTimeoutMillis int `json:"item_timeout_millis" hcl:"item_timeout_millis,optional"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format" hcl:"default_format,optional"`

	// ShowBreakdown shows per-source bonus and cost breakdowns
	ShowBreakdown bool `json:"show_breakdown" hcl:"show_breakdown,optional"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".idle-profit", "market.db")

	return &Config{
		Version: "1.0",
		Market: MarketConfig{
			SnapshotURL:         "https://www.milkywayidle.com/game_data/marketplace.json",
			DatabasePath:        dbPath,
			FetchTimeoutSeconds: 30,
			RefreshOnStart:      false,
		},
		Pricing: PricingConfig{
			Mode:             "conservative",
			EnhancementTable: "standard",
		},
		Batch: BatchConfig{
			Concurrency:       8,
			ItemTimeoutMillis: 2000,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowBreakdown: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. The format is chosen by the file
// extension: .hcl is parsed as HCL, anything else as JSON. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	config := Default()
	if strings.HasSuffix(path, ".hcl") {
		var overlay hclOverlay
		if err := hclsimple.DecodeFile(path, nil, &overlay); err != nil {
			return nil, err
		}
		overlay.apply(config)
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a JSON file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// hclOverlay mirrors Config with optional blocks so an HCL file may set
// only the sections it cares about.
type hclOverlay struct {
	Version string          `hcl:"version,optional"`
	Market  *MarketConfig   `hcl:"market,block"`
	Pricing *PricingConfig  `hcl:"pricing,block"`
	Batch   *BatchConfig    `hcl:"batch,block"`
	Output  *OutputConfig   `hcl:"output,block"`
	Logging *logging.Config `hcl:"logging,block"`
}

func (o *hclOverlay) apply(c *Config) {
	if o.Version != "" {
		c.Version = o.Version
	}
	if o.Market != nil {
		c.Market = *o.Market
	}
	if o.Pricing != nil {
		c.Pricing = *o.Pricing
	}
	if o.Batch != nil {
		c.Batch = *o.Batch
	}
	if o.Output != nil {
		c.Output = *o.Output
	}
	if o.Logging != nil {
		c.Logging = *o.Logging
	}
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
