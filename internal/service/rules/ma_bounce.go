package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

var confidenceTightBand = decimalx.MustFromString("0.001")

// CheckMABounce20 回踩20日均线后收回: 上升趋势中的低吸信号
// 条件: MA20 > MA50, K线最低价落在均线附近, 收盘收回均线上方
// 条件型规则, 每根满足条件的K线都会再次成立
func CheckMABounce20(snap market.Snapshot, cfg Config) *Candidate {
	bar, ok := snap.LastBar()
	if !ok {
		return nil
	}
	ma20, ma50 := snap.PriorDay.MA20, snap.PriorDay.MA50
	if ma20.Sign() <= 0 || ma50.Sign() <= 0 {
		return nil
	}
	if !ma20.GreaterThan(ma50) {
		// 非上升趋势
		return nil
	}

	proximity := decimalx.Proximity(bar.Low, ma20)
	if proximity.GreaterThan(cfg.MABounceProximity) {
		return nil
	}
	if !bar.Close.GreaterThan(ma20) {
		return nil
	}

	entry := bar.Close
	stop := decimal.Max(bar.Low, ma20.Mul(decimal.NewFromInt(1).Sub(cfg.MAStopOffset)))
	risk := entry.Sub(stop)
	if risk.Sign() <= 0 {
		return nil
	}

	confidence := entity.ConfidenceMedium
	if proximity.LessThanOrEqual(confidenceTightBand) {
		confidence = entity.ConfidenceHigh
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertMABounce20,
		Direction:  entity.DirectionBuy,
		Price:      bar.Close,
		Entry:      entry.Round(2),
		Stop:       stop.Round(2),
		Target1:    entry.Add(risk).Round(2),
		Target2:    entry.Add(risk.Mul(decimal.NewFromInt(2))).Round(2),
		Confidence: confidence,
		Message:    fmt.Sprintf("MA bounce 20MA: pulled back to %s and closed above at %s", ma20.Round(2), entry.Round(2)),
	}
}

// CheckMABounce50 回踩50日均线: 更深的回调买点
// 要求前日收盘仍在50日均线上方, 否则属于跌破而非回踩
func CheckMABounce50(snap market.Snapshot, cfg Config) *Candidate {
	bar, ok := snap.LastBar()
	if !ok {
		return nil
	}
	ma50 := snap.PriorDay.MA50
	if ma50.Sign() <= 0 {
		return nil
	}
	if snap.PriorDay.Close.Sign() > 0 && !snap.PriorDay.Close.GreaterThan(ma50) {
		return nil
	}

	proximity := decimalx.Proximity(bar.Low, ma50)
	if proximity.GreaterThan(cfg.MABounceProximity) {
		return nil
	}
	if !bar.Close.GreaterThan(ma50) {
		return nil
	}

	entry := bar.Close
	stop := decimal.Max(bar.Low, ma50.Mul(decimal.NewFromInt(1).Sub(cfg.MAStopOffset)))
	risk := entry.Sub(stop)
	if risk.Sign() <= 0 {
		return nil
	}

	confidence := entity.ConfidenceMedium
	if proximity.LessThanOrEqual(confidenceTightBand) {
		confidence = entity.ConfidenceHigh
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertMABounce50,
		Direction:  entity.DirectionBuy,
		Price:      bar.Close,
		Entry:      entry.Round(2),
		Stop:       stop.Round(2),
		Target1:    entry.Add(risk).Round(2),
		Target2:    entry.Add(risk.Mul(decimal.NewFromInt(2))).Round(2),
		Confidence: confidence,
		Message:    fmt.Sprintf("MA bounce 50MA: pulled back to %s and closed above at %s", ma50.Round(2), entry.Round(2)),
	}
}
