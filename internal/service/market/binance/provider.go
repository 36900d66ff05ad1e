package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/service/market"
)

var _ market.SnapshotProvider = (*SnapshotProvider)(nil)

const (
	dailyLookback = 60 // 覆盖 MA50 所需的日线条数
	gapFlatBand   = "0.001"
)

type Config struct {
	// Interval 日内K线周期, 如 5m
	Interval string
	// IndexSymbol 市场状态判定使用的基准标的
	IndexSymbol string
}

type SnapshotProvider struct {
	cli   *binance.Client
	cfg   Config
	plans market.TradePlanSource
	now   func() time.Time
}

func NewSnapshotProvider(cli *binance.Client, cfg Config, plans market.TradePlanSource) *SnapshotProvider {
	if cfg.Interval == "" {
		cfg.Interval = "5m"
	}
	return &SnapshotProvider{
		cli:   cli,
		cfg:   cfg,
		plans: plans,
		now:   time.Now,
	}
}

func (p *SnapshotProvider) GetSnapshot(ctx context.Context, symbol string) (market.Snapshot, error) {
	now := p.now()
	sessionStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	bars, err := p.getBars(ctx, symbol, p.cfg.Interval, sessionStart, now)
	if err != nil {
		return market.Snapshot{}, fmt.Errorf("intraday klines %s: %w", symbol, err)
	}

	daily, err := p.getBars(ctx, symbol, "1d", time.Time{}, time.Time{})
	if err != nil {
		return market.Snapshot{}, fmt.Errorf("daily klines %s: %w", symbol, err)
	}

	prior, err := priorDayStats(daily, bars)
	if err != nil {
		return market.Snapshot{}, fmt.Errorf("prior day stats %s: %w", symbol, err)
	}

	snap := market.Snapshot{
		Symbol:   symbol,
		Bars:     bars,
		PriorDay: prior,
	}

	if p.cfg.IndexSymbol != "" {
		idxDaily, err := p.getBars(ctx, p.cfg.IndexSymbol, "1d", time.Time{}, time.Time{})
		if err != nil {
			return market.Snapshot{}, fmt.Errorf("index klines %s: %w", p.cfg.IndexSymbol, err)
		}
		snap.Index = indexContext(idxDaily)
	}

	if p.plans != nil {
		plans, err := p.plans.ActivePlans(ctx, symbol, sessionStart.Format("2006-01-02"))
		if err != nil {
			return market.Snapshot{}, fmt.Errorf("trade plans %s: %w", symbol, err)
		}
		snap.TradePlans = plans
	}
	return snap, nil
}

func (p *SnapshotProvider) getBars(ctx context.Context, symbol, interval string, start, end time.Time) ([]market.Bar, error) {
	svc := p.cli.NewKlinesService().Symbol(symbol).Interval(interval)
	if !start.IsZero() {
		svc.StartTime(start.UnixMilli())
	}
	if !end.IsZero() {
		svc.EndTime(end.UnixMilli())
	}
	if start.IsZero() {
		svc.Limit(dailyLookback)
	}
	klines, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	return convertKlines(klines)
}

func convertKlines(klines []*binance.Kline) ([]market.Bar, error) {
	bars := make([]market.Bar, len(klines))
	for i, k := range klines {
		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, err
		}
		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, err
		}
		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, err
		}
		cls, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, err
		}
		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, err
		}
		bars[i] = market.Bar{
			Time:   time.UnixMilli(k.OpenTime),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: volume,
		}
	}
	return bars, nil
}

// priorDayStats 从日线序列推导前日统计
// 日线最后一根是今日未收盘的K线, 前日取倒数第二根
func priorDayStats(daily []market.Bar, intraday []market.Bar) (market.PriorDay, error) {
	if len(daily) < 3 {
		return market.PriorDay{}, fmt.Errorf("need at least 3 daily bars, got %d", len(daily))
	}
	prior := daily[len(daily)-2]
	parent := daily[len(daily)-3]

	pd := market.PriorDay{
		Open:        prior.Open,
		High:        prior.High,
		Low:         prior.Low,
		Close:       prior.Close,
		Volume:      prior.Volume,
		MA20:        closeMA(daily[:len(daily)-1], 20),
		MA50:        closeMA(daily[:len(daily)-1], 50),
		IsInside:    prior.High.LessThanOrEqual(parent.High) && prior.Low.GreaterThanOrEqual(parent.Low),
		ParentHigh:  parent.High,
		ParentLow:   parent.Low,
		ParentRange: parent.High.Sub(parent.Low),
	}
	pd.Gap = gapInfo(intraday, prior.Close)
	return pd, nil
}

func gapInfo(intraday []market.Bar, priorClose decimal.Decimal) market.GapInfo {
	if len(intraday) == 0 || priorClose.Sign() <= 0 {
		return market.GapInfo{Direction: market.GapFlat}
	}
	open := intraday[0].Open
	pct := open.Sub(priorClose).Div(priorClose)

	flat := decimal.RequireFromString(gapFlatBand)
	switch {
	case pct.GreaterThan(flat):
		return market.GapInfo{Direction: market.GapUp, Pct: pct}
	case pct.LessThan(flat.Neg()):
		return market.GapInfo{Direction: market.GapDown, Pct: pct}
	default:
		return market.GapInfo{Direction: market.GapFlat, Pct: pct}
	}
}

func indexContext(daily []market.Bar) market.IndexContext {
	if len(daily) == 0 {
		return market.IndexContext{}
	}
	return market.IndexContext{
		Close: daily[len(daily)-1].Close,
		MA5:   closeMA(daily, 5),
		MA20:  closeMA(daily, 20),
		MA50:  closeMA(daily, 50),
	}
}

// closeMA 末尾 n 根收盘价均值, 数据不足返回零值
func closeMA(bars []market.Bar, n int) decimal.Decimal {
	if len(bars) < n || n <= 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, b := range bars[len(bars)-n:] {
		sum = sum.Add(b.Close)
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}
