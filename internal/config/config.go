// Package config loads panel settings. Defaults are overlaid by an optional
// YAML file, and environment values (optionally from .env) override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lohzi97/FiboManualTradingPanel/internal/fibo"
	"github.com/lohzi97/FiboManualTradingPanel/internal/instrument"
	"github.com/lohzi97/FiboManualTradingPanel/internal/order"
	"github.com/lohzi97/FiboManualTradingPanel/internal/sizing"
	"github.com/lohzi97/FiboManualTradingPanel/internal/timeframe"
)

const (
	BrokerOanda = "oanda"
	BrokerPaper = "paper"
)

type Config struct {
	Broker string      `yaml:"broker"` // oanda or paper
	Oanda  OandaConfig `yaml:"oanda"`

	Instrument string `yaml:"instrument"`
	Timeframe  string `yaml:"timeframe"`
	Label      string `yaml:"label"`

	Levels LevelDefaults     `yaml:"levels"`
	Risk   sizing.RiskConfig `yaml:"risk"`

	PaperBalance float64 `yaml:"paper_balance"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json
}

type OandaConfig struct {
	AccountID string `yaml:"account_id"`
	APIKey    string `yaml:"api_key"`
	APIURL    string `yaml:"api_url"`
}

// LevelDefaults pre-fill the three ratio fields.
type LevelDefaults struct {
	Entry      float64 `yaml:"entry"`
	StopLoss   float64 `yaml:"stop_loss"`
	TakeProfit float64 `yaml:"take_profit"`
}

func (l LevelDefaults) Levels() fibo.Levels {
	return fibo.Levels{Entry: l.Entry, StopLoss: l.StopLoss, TakeProfit: l.TakeProfit}
}

func Default() *Config {
	return &Config{
		Broker:     BrokerPaper,
		Instrument: instrument.EURUSD,
		Timeframe:  string(timeframe.H1),
		Label:      order.DefaultLabel,
		Levels: LevelDefaults{
			Entry:      0.5,
			StopLoss:   0.0,
			TakeProfit: 2.0,
		},
		Risk: sizing.RiskConfig{
			Delta:          50,
			RiskPercentage: 0.02,
			MaxDrawdown:    10,
		},
		PaperBalance: 10000,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load builds the config. path may be empty when no YAML file is used.
func Load(path string) (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Broker = strings.ToLower(getEnv("BROKER", c.Broker))
	c.Oanda.AccountID = getEnv("OANDA_ACCOUNT_ID", c.Oanda.AccountID)
	c.Oanda.APIKey = getEnv("OANDA_API_KEY", c.Oanda.APIKey)
	c.Oanda.APIURL = getEnv("OANDA_API_URL", c.Oanda.APIURL)
	c.Instrument = getEnv("INSTRUMENT", c.Instrument)
	c.Timeframe = getEnv("TIMEFRAME", c.Timeframe)
	c.Label = getEnv("ORDER_LABEL", c.Label)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	floats := []struct {
		key string
		dst *float64
	}{
		{"DEFAULT_ENTRY_LEVEL", &c.Levels.Entry},
		{"DEFAULT_STOP_LOSS_LEVEL", &c.Levels.StopLoss},
		{"DEFAULT_TAKE_PROFIT_LEVEL", &c.Levels.TakeProfit},
		{"RISK_DELTA", &c.Risk.Delta},
		{"RISK_PERCENTAGE", &c.Risk.RiskPercentage},
		{"RISK_MAX_DRAWDOWN", &c.Risk.MaxDrawdown},
		{"PAPER_BALANCE", &c.PaperBalance},
	}
	for _, f := range floats {
		v, err := getEnvFloat(f.key, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// Validate rejects settings no order attempt could succeed with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Broker {
	case BrokerPaper:
	case BrokerOanda:
		if c.Oanda.AccountID == "" {
			errs = append(errs, errors.New("OANDA_ACCOUNT_ID not set"))
		}
		if c.Oanda.APIKey == "" {
			errs = append(errs, errors.New("OANDA_API_KEY not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown broker %q", c.Broker))
	}

	if c.Instrument == "" {
		errs = append(errs, errors.New("instrument not set"))
	}
	if _, err := timeframe.Parse(c.Timeframe); err != nil {
		errs = append(errs, err)
	}
	if err := c.Risk.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ChartTimeframe returns the parsed timeframe. Call Validate first.
func (c *Config) ChartTimeframe() timeframe.Timeframe {
	tf, _ := timeframe.Parse(c.Timeframe)
	return tf
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
