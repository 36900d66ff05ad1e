package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/internal/service/rules"
)

// exitCandidates 根据在档持仓与最新一根K线生成退出事件候选
// 止损优先于目标; 目标命中不平仓, 持仓留给后续目标或止损
func (m *AlertMonitor) exitCandidates(ctx context.Context, snap market.Snapshot, session string) []rules.Candidate {
	entries, err := m.entryRepo.FindActive(ctx, snap.Symbol, session)
	if err != nil {
		slog.Error("failed to load active entries", "symbol", snap.Symbol, "error", err)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}
	last, ok := snap.LastBar()
	if !ok {
		return nil
	}

	var out []rules.Candidate
	for _, entry := range entries {
		if entry.StopPrice.Sign() > 0 && last.Low.LessThanOrEqual(entry.StopPrice) {
			out = append(out, rules.Candidate{
				Symbol:     snap.Symbol,
				AlertType:  rules.AlertAutoStopOut,
				Direction:  entity.DirectionSell,
				Price:      last.Close,
				Confidence: entity.ConfidenceHigh,
				Message: fmt.Sprintf("STOP OUT %s @ %s (entry %s, stop %s)",
					snap.Symbol, last.Close, entry.EntryPrice, entry.StopPrice),
			})
			continue
		}
		if entry.Target2.Sign() > 0 && last.High.GreaterThanOrEqual(entry.Target2) {
			out = append(out, rules.Candidate{
				Symbol:     snap.Symbol,
				AlertType:  rules.AlertTarget2Hit,
				Direction:  entity.DirectionSell,
				Price:      last.Close,
				Confidence: entity.ConfidenceHigh,
				Message: fmt.Sprintf("TARGET 2 HIT %s @ %s (entry %s, target %s)",
					snap.Symbol, last.Close, entry.EntryPrice, entry.Target2),
			})
			continue
		}
		if entry.Target1.Sign() > 0 && last.High.GreaterThanOrEqual(entry.Target1) {
			out = append(out, rules.Candidate{
				Symbol:     snap.Symbol,
				AlertType:  rules.AlertTarget1Hit,
				Direction:  entity.DirectionSell,
				Price:      last.Close,
				Confidence: entity.ConfidenceHigh,
				Message: fmt.Sprintf("TARGET 1 HIT %s @ %s (entry %s, target %s)",
					snap.Symbol, last.Close, entry.EntryPrice, entry.Target1),
			})
		}
	}
	return out
}
