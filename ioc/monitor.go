package ioc

import (
	"time"

	"github.com/spf13/viper"
	"github.com/tradewatch/tradewatch/internal/service/monitor"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

func InitMonitorConfig() monitor.Config {
	type Config struct {
		CooldownMinutes int    `mapstructure:"cooldown_minutes"`
		ChoppyPolicy    string `mapstructure:"choppy_policy"`
	}
	type RegimeConfig struct {
		TangleThreshold string `mapstructure:"tangle_threshold"`
	}
	type RulesConfig struct {
		MaBounceProximity   string `mapstructure:"ma_bounce_proximity"`
		LevelTouchProximity string `mapstructure:"level_touch_proximity"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("monitor", &cfg); err != nil {
		panic(err)
	}
	var regimeCfg RegimeConfig
	if err := viper.UnmarshalKey("regime", &regimeCfg); err != nil {
		panic(err)
	}
	var rulesCfg RulesConfig
	if err := viper.UnmarshalKey("rules", &rulesCfg); err != nil {
		panic(err)
	}

	out := monitor.DefaultConfig()
	if cfg.CooldownMinutes > 0 {
		out.CooldownDuration = time.Duration(cfg.CooldownMinutes) * time.Minute
	}
	if cfg.ChoppyPolicy != "" {
		out.ChoppyPolicy = cfg.ChoppyPolicy
	}
	if regimeCfg.TangleThreshold != "" {
		out.TangleThreshold = decimalx.MustFromString(regimeCfg.TangleThreshold)
	}
	if rulesCfg.MaBounceProximity != "" {
		out.Rules.MABounceProximity = decimalx.MustFromString(rulesCfg.MaBounceProximity)
	}
	if rulesCfg.LevelTouchProximity != "" {
		out.Rules.LevelTouchProximity = decimalx.MustFromString(rulesCfg.LevelTouchProximity)
	}
	return out
}

func InitWatchlist() []string {
	return viper.GetStringSlice("monitor.watchlist")
}

func InitPollInterval() time.Duration {
	minutes := viper.GetInt("monitor.poll_interval_minutes")
	if minutes <= 0 {
		minutes = 3
	}
	return time.Duration(minutes) * time.Minute
}
