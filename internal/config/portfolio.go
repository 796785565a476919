package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PortfolioConfig tunes metric derivation and ingestion without a redeploy.
// It is loaded from portfolio.yml and hot-reloaded on change.
type PortfolioConfig struct {
	// DefaultTargetARR is applied to ventures created without an explicit
	// annual revenue target, in whole dollars.
	DefaultTargetARR int64 `mapstructure:"defaultTargetArr"`

	// DailySignupWindowDays / MonthlyRevenueWindowMonths bound the
	// dashboard rollup charts.
	DailySignupWindowDays      int `mapstructure:"dailySignupWindowDays"`
	MonthlyRevenueWindowMonths int `mapstructure:"monthlyRevenueWindowMonths"`

	// TrackingRatePerMinute / TrackingBurst gate the tracking endpoint
	// when a redis limiter is configured.
	TrackingRatePerMinute int `mapstructure:"trackingRatePerMinute"`
	TrackingBurst         int `mapstructure:"trackingBurst"`

	// SyncChargePageSize bounds how many recent charges one sync pass pulls.
	SyncChargePageSize int `mapstructure:"syncChargePageSize"`
}

func DefaultPortfolioConfig() PortfolioConfig {
	return PortfolioConfig{
		DefaultTargetARR:           1_000_000,
		DailySignupWindowDays:      30,
		MonthlyRevenueWindowMonths: 6,
		TrackingRatePerMinute:      120,
		TrackingBurst:              60,
		SyncChargePageSize:         100,
	}
}

// PortfolioConfigHolder exposes the live config; reads are lock-free.
type PortfolioConfigHolder struct {
	current atomic.Value // holds PortfolioConfig
}

func NewPortfolioConfigHolder() (*PortfolioConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("portfolio")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/venturedash")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VENTUREDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPortfolioConfig()
	v.SetDefault("portfolio.defaultTargetArr", defaults.DefaultTargetARR)
	v.SetDefault("portfolio.dailySignupWindowDays", defaults.DailySignupWindowDays)
	v.SetDefault("portfolio.monthlyRevenueWindowMonths", defaults.MonthlyRevenueWindowMonths)
	v.SetDefault("portfolio.trackingRatePerMinute", defaults.TrackingRatePerMinute)
	v.SetDefault("portfolio.trackingBurst", defaults.TrackingBurst)
	v.SetDefault("portfolio.syncChargePageSize", defaults.SyncChargePageSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg PortfolioConfig
	if err := v.UnmarshalKey("portfolio", &cfg); err != nil {
		return nil, err
	}
	cfg = normalizePortfolioConfig(cfg)

	holder := &PortfolioConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PortfolioConfig
		if err := v.UnmarshalKey("portfolio", &updated); err != nil {
			log.Printf("[portfolio-config] reload failed: %v", err)
			return
		}
		holder.current.Store(normalizePortfolioConfig(updated))
	})

	return holder, nil
}

func (h *PortfolioConfigHolder) Current() PortfolioConfig {
	if h == nil {
		return DefaultPortfolioConfig()
	}
	cfg, ok := h.current.Load().(PortfolioConfig)
	if !ok {
		return DefaultPortfolioConfig()
	}
	return cfg
}

func normalizePortfolioConfig(cfg PortfolioConfig) PortfolioConfig {
	defaults := DefaultPortfolioConfig()
	if cfg.DefaultTargetARR <= 0 {
		cfg.DefaultTargetARR = defaults.DefaultTargetARR
	}
	if cfg.DailySignupWindowDays <= 0 {
		cfg.DailySignupWindowDays = defaults.DailySignupWindowDays
	}
	if cfg.MonthlyRevenueWindowMonths <= 0 {
		cfg.MonthlyRevenueWindowMonths = defaults.MonthlyRevenueWindowMonths
	}
	if cfg.TrackingRatePerMinute <= 0 {
		cfg.TrackingRatePerMinute = defaults.TrackingRatePerMinute
	}
	if cfg.TrackingBurst <= 0 {
		cfg.TrackingBurst = defaults.TrackingBurst
	}
	if cfg.SyncChargePageSize <= 0 {
		cfg.SyncChargePageSize = defaults.SyncChargePageSize
	}
	return cfg
}
