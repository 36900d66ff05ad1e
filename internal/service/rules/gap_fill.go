package rules

import (
	"fmt"

	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
)

// CheckGapFill 跳空回补: 单调条件: 一旦回补, 当日剩余时间恒为真
// 跳高回补给出看空提示(SELL), 跳低回补给出看多提示(BUY), 无进出场价位
func CheckGapFill(snap market.Snapshot, _ Config) *Candidate {
	bar, ok := snap.LastBar()
	if !ok {
		return nil
	}
	gap := snap.PriorDay.Gap
	if gap.Direction == market.GapFlat || gap.Direction == "" {
		return nil
	}
	priorClose := snap.PriorDay.Close
	if priorClose.Sign() <= 0 {
		return nil
	}

	filled := false
	for _, b := range snap.Bars {
		switch gap.Direction {
		case market.GapUp:
			if b.Low.LessThanOrEqual(priorClose) {
				filled = true
			}
		case market.GapDown:
			if b.High.GreaterThanOrEqual(priorClose) {
				filled = true
			}
		}
		if filled {
			break
		}
	}
	if !filled {
		return nil
	}

	direction := entity.DirectionBuy
	cue := "gap down"
	if gap.Direction == market.GapUp {
		direction = entity.DirectionSell
		cue = "gap up"
	}

	return &Candidate{
		Symbol:     snap.Symbol,
		AlertType:  AlertGapFill,
		Direction:  direction,
		Price:      bar.Close,
		Confidence: entity.ConfidenceMedium,
		Message:    fmt.Sprintf("Gap fill complete: %s (%s%%) fully filled", cue, gap.Pct.Mul(hundred).Round(1)),
	}
}
