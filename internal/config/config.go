// Package config loads application configuration from file and
// environment and bootstraps the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Valuation ValuationConfig `yaml:"valuation" mapstructure:"valuation"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ValuationConfig holds the tunable assumptions shared by the valuation
// methods. Core inputs (production, price, cost) are never defaulted here;
// these cover the secondary assumptions a technical report may omit.
type ValuationConfig struct {
	RampYears            int     `yaml:"ramp_years" mapstructure:"ramp_years"`
	PriceEscalation      float64 `yaml:"price_escalation" mapstructure:"price_escalation"`
	DefaultDiscountRate  float64 `yaml:"default_discount_rate" mapstructure:"default_discount_rate"`
	DefaultTaxRate       float64 `yaml:"default_tax_rate" mapstructure:"default_tax_rate"`
	DefaultRoyaltyRate   float64 `yaml:"default_royalty_rate" mapstructure:"default_royalty_rate"`
	DefaultMineLifeYears int     `yaml:"default_mine_life_years" mapstructure:"default_mine_life_years"`
	ClosureCost          float64 `yaml:"closure_cost" mapstructure:"closure_cost"`         // $M
	WorkingCapital       float64 `yaml:"working_capital" mapstructure:"working_capital"`   // $M
	SustainingCapex      float64 `yaml:"sustaining_capex" mapstructure:"sustaining_capex"` // $M/yr fallback

	MonteCarlo MonteCarloConfig `yaml:"monte_carlo" mapstructure:"monte_carlo"`
	Kilburn    KilburnConfig    `yaml:"kilburn" mapstructure:"kilburn"`
}

// MonteCarloConfig configures the risk-modeling simulation.
type MonteCarloConfig struct {
	Trials        int     `yaml:"trials" mapstructure:"trials"`
	Seed          int64   `yaml:"seed" mapstructure:"seed"`
	Workers       int     `yaml:"workers" mapstructure:"workers"`
	Volatility    float64 `yaml:"volatility" mapstructure:"volatility"` // 0 = per-commodity default
	CostStdDevPct float64 `yaml:"cost_stddev_pct" mapstructure:"cost_stddev_pct"`
	HurdleRate    float64 `yaml:"hurdle_rate" mapstructure:"hurdle_rate"`
}

// KilburnConfig configures the cost-approach valuation.
type KilburnConfig struct {
	InflationRate float64 `yaml:"inflation_rate" mapstructure:"inflation_rate"`
}

// ScoringConfig configures scoring template loading.
type ScoringConfig struct {
	TemplatePath string `yaml:"template_path" mapstructure:"template_path"`
}

// ServerConfig configures the analysis HTTP server.
type ServerConfig struct {
	Port            int     `yaml:"port" mapstructure:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MINEQUANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_per_sec", 5)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("valuation.ramp_years", 2)
	v.SetDefault("valuation.price_escalation", 0.02)
	v.SetDefault("valuation.default_discount_rate", 0.08)
	v.SetDefault("valuation.default_tax_rate", 0.25)
	v.SetDefault("valuation.default_royalty_rate", 0.03)
	v.SetDefault("valuation.default_mine_life_years", 15)
	v.SetDefault("valuation.closure_cost", 20)
	v.SetDefault("valuation.working_capital", 15)
	v.SetDefault("valuation.sustaining_capex", 10)
	v.SetDefault("valuation.monte_carlo.trials", 10000)
	v.SetDefault("valuation.monte_carlo.seed", 42)
	v.SetDefault("valuation.monte_carlo.workers", 4)
	v.SetDefault("valuation.monte_carlo.cost_stddev_pct", 0.10)
	v.SetDefault("valuation.monte_carlo.hurdle_rate", 0.10)
	v.SetDefault("valuation.kilburn.inflation_rate", 0.03)
}

// Default returns the built-in configuration without touching files or
// the environment. Used by tests and library callers.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of in-memory defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
