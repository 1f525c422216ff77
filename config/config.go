// Package config loads forecasting settings with Viper and builds the zap
// logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sartorproj/revcast/prepare"
)

// EnvPrefix prefixes environment overrides: REVCAST_FORECAST_CONFIDENCE_INTERVAL=0.9.
const EnvPrefix = "REVCAST"

// Settings is the decoded configuration.
type Settings struct {
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Selection SelectionConfig `mapstructure:"selection"`
	Prepare   prepare.Options `mapstructure:"prepare"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ForecastConfig holds model and horizon settings. The orders are kept
// undecoded so that a malformed value can be detected and replaced by the
// order search instead of failing the load.
type ForecastConfig struct {
	SarimaOrder         any     `mapstructure:"sarima_order"`
	SeasonalOrder       any     `mapstructure:"seasonal_order"`
	SeasonalPeriod      int     `mapstructure:"seasonal_period"`
	DefaultForecastDays int     `mapstructure:"default_forecast_days"`
	DefaultBacktestDays int     `mapstructure:"default_backtest_days"`
	ConfidenceInterval  float64 `mapstructure:"confidence_interval"`
	MaxIterations       int     `mapstructure:"max_iterations"`
	MinObservations     int     `mapstructure:"min_observations"`
	Backtest            bool    `mapstructure:"backtest"`
}

// SelectionConfig bounds the fallback order search. Workers <= 0 means
// GOMAXPROCS.
type SelectionConfig struct {
	MaxP    int `mapstructure:"max_p"`
	MaxD    int `mapstructure:"max_d"`
	MaxQ    int `mapstructure:"max_q"`
	Workers int `mapstructure:"workers"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("forecast.sarima_order", []int{1, 1, 1})
	v.SetDefault("forecast.seasonal_order", []int{1, 1, 1, 7})
	v.SetDefault("forecast.seasonal_period", 7)
	v.SetDefault("forecast.default_forecast_days", 365)
	v.SetDefault("forecast.default_backtest_days", 90)
	v.SetDefault("forecast.confidence_interval", 0.95)
	v.SetDefault("forecast.max_iterations", 100)
	v.SetDefault("forecast.min_observations", 30)
	v.SetDefault("forecast.backtest", false)

	v.SetDefault("selection.max_p", 3)
	v.SetDefault("selection.max_d", 2)
	v.SetDefault("selection.max_q", 3)
	v.SetDefault("selection.workers", 0)

	p := prepare.DefaultOptions()
	v.SetDefault("prepare.outlier_multiplier", p.OutlierMultiplier)
	v.SetDefault("prepare.outlier_percentile", p.OutlierPercentile)
	v.SetDefault("prepare.stability_offset", p.StabilityOffset)
	v.SetDefault("prepare.fill_gaps", p.FillGaps)
	v.SetDefault("prepare.max_zero_run", p.MaxZeroRun)
	v.SetDefault("prepare.min_observations", p.MinObservations)
	v.SetDefault("prepare.max_to_mean_ratio", p.MaxToMeanRatio)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from file and environment variables. An empty
// configPath searches for revcast.yaml in ".", "./configs" and
// "$XDG_CONFIG_HOME/revcast"; a missing file is not an error.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("revcast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$XDG_CONFIG_HOME/revcast")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals v into Settings and checks the scalar values. Orders
// are checked later, by ParseOrder and ParseSeasonalOrder.
func Decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings no run could use.
func (s *Settings) Validate() error {
	f := s.Forecast
	switch {
	case !(f.ConfidenceInterval > 0 && f.ConfidenceInterval < 1):
		return fmt.Errorf("forecast.confidence_interval must be in (0, 1), got %v", f.ConfidenceInterval)
	case f.DefaultForecastDays < 1:
		return fmt.Errorf("forecast.default_forecast_days must be positive, got %d", f.DefaultForecastDays)
	case f.DefaultBacktestDays < 1:
		return fmt.Errorf("forecast.default_backtest_days must be positive, got %d", f.DefaultBacktestDays)
	case f.SeasonalPeriod < 2:
		return fmt.Errorf("forecast.seasonal_period must be at least 2, got %d", f.SeasonalPeriod)
	case s.Selection.MaxP < 0 || s.Selection.MaxD < 0 || s.Selection.MaxQ < 0:
		return errors.New("selection bounds must be non-negative")
	}
	return nil
}
