package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
)

// CheckPriorDayLowReclaim 跌破前日低点后收复: 多K线形态
// 需要当日存在某根K线下破前低至少 PDLDipMin, 且最新一根收回前低上方
func CheckPriorDayLowReclaim(snap market.Snapshot, cfg Config) *Candidate {
	bar, ok := snap.LastBar()
	if !ok {
		return nil
	}
	priorLow := snap.PriorDay.Low
	if priorLow.Sign() <= 0 {
		return nil
	}

	dipLine := priorLow.Mul(decimal.NewFromInt(1).Sub(cfg.PDLDipMin))
	sessionLow := snap.SessionLow()
	if !sessionLow.LessThanOrEqual(dipLine) {
		return nil
	}
	if !bar.Close.GreaterThan(priorLow) {
		// 尚未收复
		return nil
	}

	entry := priorLow
	// 止损放在确认收复的那根K线低点, 而不是当日最深的下影
	stop := bar.Low
	risk := entry.Sub(stop)
	if risk.Sign() <= 0 {
		return nil
	}

	confidence := entity.ConfidenceHigh
	message := fmt.Sprintf("Prior day low reclaim: dipped to %s, reclaimed above %s", sessionLow.Round(2), priorLow.Round(2))
	if snap.PriorDay.Gap.Direction == market.GapDown {
		message += " (gap fill opportunity)"
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertPriorDayLowReclaim,
		Direction:  entity.DirectionBuy,
		Price:      bar.Close,
		Entry:      entry.Round(2),
		Stop:       stop.Round(2),
		Target1:    entry.Add(risk).Round(2),
		Target2:    entry.Add(risk.Mul(decimal.NewFromInt(2))).Round(2),
		Confidence: confidence,
		Message:    message,
	}
}
