package ioc

import (
	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tradewatch/tradewatch/internal/service/market"
	binancemkt "github.com/tradewatch/tradewatch/internal/service/market/binance"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

func InitSnapshotProvider(cli *binance.Client) market.SnapshotProvider {
	type Config struct {
		Interval    string `mapstructure:"interval"`
		IndexSymbol string `mapstructure:"index_symbol"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("market", &cfg); err != nil {
		panic(err)
	}

	return binancemkt.NewSnapshotProvider(cli, binancemkt.Config{
		Interval:    cfg.Interval,
		IndexSymbol: cfg.IndexSymbol,
	}, InitPlanSource())
}

func InitPlanSource() market.TradePlanSource {
	type Plan struct {
		Symbol      string `mapstructure:"symbol"`
		EntryPrice  string `mapstructure:"entry_price"`
		StopPrice   string `mapstructure:"stop_price"`
		TargetPrice string `mapstructure:"target_price"`
		CreatedDate string `mapstructure:"created_date"`
	}

	var plans []Plan
	if err := viper.UnmarshalKey("market.plans", &plans); err != nil {
		panic(err)
	}

	parse := func(s string) decimal.Decimal {
		if s == "" {
			return decimal.Zero
		}
		return decimalx.MustFromString(s)
	}

	levels := make([]market.TradePlanLevel, 0, len(plans))
	for _, p := range plans {
		levels = append(levels, market.TradePlanLevel{
			Symbol:      p.Symbol,
			EntryPrice:  parse(p.EntryPrice),
			StopPrice:   parse(p.StopPrice),
			TargetPrice: parse(p.TargetPrice),
			CreatedDate: p.CreatedDate,
		})
	}
	return market.NewStaticPlanSource(levels)
}
