package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

var (
	hundred        = decimal.NewFromInt(100)
	orbHighVolBand = decimalx.MustFromString("1.5")
)

// CheckOpeningRangeBreakout 收盘突破开盘区间高点, 需成交量确认
// 单调条件: 突破之后每根K线都满足, 一次性行为由准入层保证
func CheckOpeningRangeBreakout(snap market.Snapshot, cfg Config) *Candidate {
	// 开盘区间必须完整且之后至少还有一根K线
	if len(snap.Bars) <= cfg.ORBBars {
		return nil
	}
	bar, _ := snap.LastBar()

	orHigh := snap.Bars[0].High
	orLow := snap.Bars[0].Low
	for _, b := range snap.Bars[1:cfg.ORBBars] {
		orHigh = decimal.Max(orHigh, b.High)
		orLow = decimal.Min(orLow, b.Low)
	}
	orRange := orHigh.Sub(orLow)
	if orHigh.Sign() <= 0 || orRange.Sign() <= 0 {
		return nil
	}
	if orRange.Div(orHigh).LessThan(cfg.ORBMinRangePct) {
		// 区间过窄, 突破无意义
		return nil
	}

	if !bar.Close.GreaterThan(orHigh) {
		return nil
	}

	volRatio := decimalx.Ratio(bar.Volume, snap.AvgVolume())
	if volRatio.LessThan(cfg.ORBVolumeRatio) {
		return nil
	}

	confidence := entity.ConfidenceMedium
	if volRatio.GreaterThanOrEqual(orbHighVolBand) {
		confidence = entity.ConfidenceHigh
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertOpeningRangeBreakout,
		Direction:  entity.DirectionBuy,
		Price:      bar.Close,
		Entry:      orHigh.Round(2),
		Stop:       orLow.Round(2),
		Target1:    orHigh.Add(orRange).Round(2),
		Target2:    orHigh.Add(orRange.Mul(decimal.NewFromInt(2))).Round(2),
		Confidence: confidence,
		Message:    fmt.Sprintf("Opening range breakout: broke above OR high %s (range %s, vol %sx)", orHigh.Round(2), orRange.Round(2), volRatio.Round(1)),
	}
}
