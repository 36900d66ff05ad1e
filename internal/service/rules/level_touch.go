package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

// plannedLevel 盘前计划位: 外部交易计划优先, 否则按前日形态推导
type plannedLevel struct {
	pattern string
	entry   decimal.Decimal
	stop    decimal.Decimal
	target1 decimal.Decimal
	target2 decimal.Decimal
}

var (
	two     = decimal.NewFromInt(2)
	quarter = decimalx.MustFromString("0.25")
	half    = decimalx.MustFromString("0.5")
)

// derivePlannedLevel 按前日形态推导计划位
// inside 形态由突破类规则负责, 这里不产出
func derivePlannedLevel(prior market.PriorDay) *plannedLevel {
	if prior.IsInside {
		return nil
	}
	dayRange := prior.High.Sub(prior.Low)
	if dayRange.Sign() <= 0 || prior.High.Sign() <= 0 || prior.Low.Sign() <= 0 {
		return nil
	}

	outside := prior.ParentHigh.Sign() > 0 && prior.High.GreaterThan(prior.ParentHigh) &&
		prior.ParentLow.Sign() > 0 && prior.Low.LessThan(prior.ParentLow)
	if outside {
		midpoint := prior.High.Add(prior.Low).Div(two)
		return &plannedLevel{
			pattern: "outside",
			entry:   midpoint,
			stop:    prior.Low,
			target1: prior.High,
			target2: prior.High.Add(prior.High.Sub(midpoint)),
		}
	}

	return &plannedLevel{
		pattern: "normal",
		entry:   prior.Low,
		stop:    prior.Low.Sub(dayRange.Mul(quarter)),
		target1: prior.High,
		target2: prior.High.Add(dayRange.Mul(half)),
	}
}

// CheckPlannedLevelTouch 价格触及计划入场位并收回其上方
// 外部交易计划位优先于前日形态推导位, 命中第一个满足条件的位
func CheckPlannedLevelTouch(snap market.Snapshot, cfg Config) *Candidate {
	bar, ok := snap.LastBar()
	if !ok {
		return nil
	}

	levels := make([]plannedLevel, 0, len(snap.TradePlans)+1)
	for _, plan := range snap.TradePlans {
		if plan.EntryPrice.Sign() <= 0 {
			continue
		}
		levels = append(levels, plannedLevel{
			pattern: "plan",
			entry:   plan.EntryPrice,
			stop:    plan.StopPrice,
			target1: plan.TargetPrice,
		})
	}
	if derived := derivePlannedLevel(snap.PriorDay); derived != nil {
		levels = append(levels, *derived)
	}

	for _, lvl := range levels {
		if decimalx.Proximity(bar.Low, lvl.entry).GreaterThan(cfg.LevelTouchProximity) {
			continue
		}
		if !bar.Close.GreaterThan(lvl.entry) {
			continue
		}

		stop := capRisk(lvl.entry, lvl.stop, cfg.MaxRiskPct)
		risk := lvl.entry.Sub(stop)
		if risk.Sign() <= 0 {
			continue
		}

		target1 := lvl.target1
		if target1.Sign() <= 0 {
			target1 = lvl.entry.Add(risk)
		}
		target2 := lvl.target2
		if target2.Sign() <= 0 {
			target2 = lvl.entry.Add(risk.Mul(two))
		}

		return &Candidate{
			Symbol:     snap.Symbol,
			AlertType:  AlertPlannedLevelTouch,
			Direction:  entity.DirectionBuy,
			Price:      bar.Close,
			Entry:      lvl.entry.Round(2),
			Stop:       stop.Round(2),
			Target1:    target1.Round(2),
			Target2:    target2.Round(2),
			Confidence: entity.ConfidenceHigh,
			Message:    fmt.Sprintf("Planned level touch (%s): bounced at %s, T1=%s", lvl.pattern, lvl.entry.Round(2), target1.Round(2)),
		}
	}
	return nil
}
