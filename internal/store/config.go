package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schmidb/AI-crypto-bot-sub000/internal/capital"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/regime"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/thresholds"
	"github.com/schmidb/AI-crypto-bot-sub000/internal/types"
)

// Config is the single immutable configuration object. Loaded once at
// startup, validated before anything runs, and passed explicitly into the
// engine. Nothing in the decision core reads the process environment.
type Config struct {
	Mode        string   `yaml:"mode"` // DRY_RUN or LIVE
	PollSeconds int      `yaml:"poll_seconds"`
	Assets      []string `yaml:"assets"`

	ProviderTimeoutSeconds int `yaml:"provider_timeout_seconds"`

	Capital struct {
		Total     float64        `yaml:"total"`
		StatePath string         `yaml:"state_path"`
		Limits    capital.Limits `yaml:",inline"`
	} `yaml:"capital"`

	Consensus struct {
		MinAgree int `yaml:"min_agree"`
	} `yaml:"consensus"`

	Cooldown struct {
		WindowMinutes int    `yaml:"window_minutes"`
		StorePath     string `yaml:"store_path"`
	} `yaml:"cooldown"`

	Regime regime.Thresholds `yaml:"regime"`

	Thresholds struct {
		Default    float64             `yaml:"default"`
		Entries    []thresholds.Entry  `yaml:"entries"`
		Priorities map[string][]string `yaml:"priorities"`
	} `yaml:"thresholds"`

	Audit struct {
		Path          string `yaml:"path"`
		MaxSizeMB     int    `yaml:"max_size_mb"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"audit"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if len(c.Assets) == 0 {
		return errors.New("assets cannot be empty")
	}
	if c.Capital.Total <= 0 {
		return fmt.Errorf("capital.total must be positive, got %.2f", c.Capital.Total)
	}
	l := c.Capital.Limits
	if l.MinReserve < 0 || l.MinReserve >= c.Capital.Total {
		return fmt.Errorf("capital.min_reserve must be within [0, total), got %.2f", l.MinReserve)
	}
	if l.MaxPerTradePct <= 0 || l.MaxPerTradePct > 100 {
		return fmt.Errorf("capital.max_per_trade_pct must be between 0-100, got %.2f", l.MaxPerTradePct)
	}
	if l.MaxPositionPct <= 0 || l.MaxPositionPct > 100 {
		return fmt.Errorf("capital.max_position_pct must be between 0-100, got %.2f", l.MaxPositionPct)
	}
	if l.MinTradeAmount <= 0 {
		return fmt.Errorf("capital.min_trade_amount must be positive, got %.2f", l.MinTradeAmount)
	}
	if c.Consensus.MinAgree < 1 {
		return fmt.Errorf("consensus.min_agree must be at least 1, got %d", c.Consensus.MinAgree)
	}
	if c.Cooldown.WindowMinutes < 0 {
		return fmt.Errorf("cooldown.window_minutes cannot be negative, got %d", c.Cooldown.WindowMinutes)
	}
	if len(c.Thresholds.Priorities) == 0 {
		return errors.New("thresholds.priorities cannot be empty")
	}
	return nil
}

// BuildTable assembles the adaptive threshold table from the raw config
// rows. Errors here are configuration errors and abort startup.
func (c *Config) BuildTable() (*thresholds.Table, error) {
	priorities := make(map[types.Regime][]string, len(c.Thresholds.Priorities))
	for name, list := range c.Thresholds.Priorities {
		priorities[types.Regime(name)] = list
	}
	return thresholds.Build(c.Thresholds.Entries, priorities, c.Thresholds.Default)
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.PollSeconds == 0 {
		c.PollSeconds = 15
	}
	if c.ProviderTimeoutSeconds == 0 {
		c.ProviderTimeoutSeconds = 10
	}
	if c.Consensus.MinAgree == 0 {
		c.Consensus.MinAgree = 1
	}
	if c.Thresholds.Default == 0 {
		c.Thresholds.Default = 50
	}
	if (c.Regime == regime.Thresholds{}) {
		c.Regime = regime.DefaultThresholds()
	}
	if c.Capital.StatePath == "" {
		c.Capital.StatePath = "state/capital.json"
	}
	if c.Cooldown.StorePath == "" {
		c.Cooldown.StorePath = "state/cooldowns.json"
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "logs/audit.jsonl"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
