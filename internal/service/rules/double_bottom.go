package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

// CheckSessionLowDoubleBottom 日内低点二次探底
//
// 1. 首次触及日内低点的K线距今至少 MinAgeBars 根
// 2. 两次触底之间存在至少 MinRecoveryBars 根连续脱离低点区域的K线
// 3. 最新K线低点回到低点附近 (不破位), 收盘收在低点上方
// 4. 回踩量能受限: 衰竭式回踩而非恐慌抛售
func CheckSessionLowDoubleBottom(snap market.Snapshot, cfg Config) *Candidate {
	minBars := cfg.SessionLowMinAgeBars + cfg.SessionLowMinRecoveryBars + 1
	if len(snap.Bars) < minBars {
		return nil
	}
	bar, _ := snap.LastBar()

	sessionLow := snap.SessionLow()
	if sessionLow.Sign() <= 0 {
		return nil
	}

	volRatio := decimalx.Ratio(bar.Volume, snap.AvgVolume())
	if volRatio.GreaterThanOrEqual(cfg.SessionLowMaxRetestVolRatio) {
		return nil
	}

	// 最新K线低点需贴近日内低点且不低于它
	proximity := bar.Low.Sub(sessionLow).Div(sessionLow)
	if proximity.Sign() < 0 || proximity.GreaterThan(cfg.SessionLowProximity) {
		return nil
	}
	if !bar.Close.GreaterThan(sessionLow) {
		return nil
	}

	// 找到首次触底的K线 (不含最新一根)
	firstTouch := -1
	for i := 0; i < len(snap.Bars)-1; i++ {
		if decimalx.Proximity(snap.Bars[i].Low, sessionLow).LessThanOrEqual(cfg.SessionLowProximity) {
			firstTouch = i
			break
		}
	}
	if firstTouch < 0 {
		return nil
	}
	if len(snap.Bars)-1-firstTouch < cfg.SessionLowMinAgeBars {
		return nil
	}

	// 两次触底之间必须有足够的连续修复
	recoveryLine := sessionLow.Mul(decimal.NewFromInt(1).Add(cfg.SessionLowRecoveryPct))
	maxRun, run := 0, 0
	for i := firstTouch + 1; i < len(snap.Bars)-1; i++ {
		if snap.Bars[i].Low.GreaterThan(recoveryLine) {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	if maxRun < cfg.SessionLowMinRecoveryBars {
		return nil
	}

	entry := sessionLow
	stop := decimal.Min(bar.Low, sessionLow.Mul(decimal.NewFromInt(1).Sub(cfg.SessionLowStopOffset)))
	risk := entry.Sub(stop)
	if risk.Sign() <= 0 {
		return nil
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertSessionLowDoubleBottom,
		Direction:  entity.DirectionBuy,
		Price:      bar.Close,
		Entry:      entry.Round(2),
		Stop:       stop.Round(2),
		Target1:    entry.Add(risk).Round(2),
		Target2:    entry.Add(risk.Mul(decimal.NewFromInt(2))).Round(2),
		Confidence: entity.ConfidenceMedium,
		Message:    fmt.Sprintf("Session low double-bottom: %s tested twice, recovery confirmed, bounce at %s", sessionLow.Round(2), bar.Close.Round(2)),
	}
}
