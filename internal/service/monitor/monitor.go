package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/repo"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/internal/service/notification"
	"github.com/tradewatch/tradewatch/internal/service/regime"
	"github.com/tradewatch/tradewatch/internal/service/rules"
)

// AlertMonitor 准入协调器
// 多个独立进程可以同时运行各自的 AlertMonitor, 互相之间不共享内存,
// 唯一的共享可变资源是信号库; RecordIfAbsent 的返回值决定谁负责通知
type AlertMonitor struct {
	provider market.SnapshotProvider
	notifier notification.Notifier

	signalRepo   repo.SignalRepo
	cooldownRepo repo.CooldownRepo
	entryRepo    repo.EntryRepo

	cfg Config
	now func() time.Time
}

type Option func(m *AlertMonitor)

func WithNotifier(notifier notification.Notifier) Option {
	return func(m *AlertMonitor) {
		m.notifier = notifier
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *AlertMonitor) {
		m.now = now
	}
}

func NewAlertMonitor(provider market.SnapshotProvider,
	signalRepo repo.SignalRepo, cooldownRepo repo.CooldownRepo, entryRepo repo.EntryRepo,
	cfg Config, opts ...Option) Service {
	m := &AlertMonitor{
		provider:     provider,
		signalRepo:   signalRepo,
		cooldownRepo: cooldownRepo,
		entryRepo:    entryRepo,
		cfg:          cfg,
		notifier:     notification.NewConsoleNotifier(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *AlertMonitor) Scan(ctx context.Context, symbols []string) (int, error) {
	session := entity.SessionDate(m.now())

	// 本轮的跨进程真相一次性加载; 库不可用则整个 tick 快速失败, 等下个周期重试
	fired, err := m.signalRepo.FiredToday(ctx, session)
	if err != nil {
		return 0, err
	}
	cooled, err := m.cooldownRepo.ActiveSymbols(ctx, session)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, symbol := range symbols {
		snap, err := m.provider.GetSnapshot(ctx, symbol)
		if err != nil {
			// 单标的失败只跳过该标的
			slog.Error("failed to get snapshot", "symbol", symbol, "error", err)
			continue
		}
		if len(snap.Bars) == 0 {
			slog.Warn("skip symbol", "symbol", symbol, "reason", "no intraday bars")
			continue
		}

		reg := regime.Classify(snap.Index, m.cfg.TangleThreshold)
		_, cooledDown := cooled[symbol]

		evalCtx := rules.Context{FiredToday: fired, CooledDown: cooledDown}
		candidates := rules.Evaluate(snap, evalCtx, m.cfg.Rules)
		candidates = append(candidates, m.exitCandidates(ctx, snap, session)...)

		for _, candidate := range candidates {
			admitted, ok := m.admit(candidate, session, reg, cooledDown, fired)
			if !ok {
				continue
			}

			signal := m.toSignal(admitted, session, reg)
			if m.cfg.DryRun {
				slog.Info("[DRY RUN] would fire",
					"symbol", signal.Symbol, "type", signal.AlertType,
					"direction", signal.Direction, "price", signal.Price)
				total++
				continue
			}

			inserted, err := m.signalRepo.RecordIfAbsent(ctx, signal)
			if err != nil {
				slog.Error("failed to record signal", "symbol", symbol, "type", signal.AlertType, "error", err)
				continue
			}
			if !inserted {
				// 另一个进程已抢先记录, 静默放弃
				continue
			}
			fired[signal.DedupKey()] = struct{}{}
			total++

			if err = m.notifier.Notify(ctx, signal); err != nil {
				// 信号已落库, 投递失败不回滚也不重试
				slog.Error("failed to notify signal", "symbol", symbol, "type", signal.AlertType, "error", err)
			}

			m.afterRecord(ctx, signal, session, cooled)

			slog.Info("ALERT",
				"symbol", signal.Symbol, "type", signal.AlertType,
				"direction", signal.Direction, "price", signal.Price, "regime", reg)
		}
	}
	return total, nil
}

// admit 准入过滤: 边沿触发预过滤 + 冷却门控 + 市场状态门控
// 返回 (可能被降级的) 候选与是否放行
func (m *AlertMonitor) admit(c rules.Candidate, session string, reg regime.Regime,
	cooledDown bool, fired map[entity.DedupKey]struct{}) (rules.Candidate, bool) {

	// 边沿触发规则的条件当日恒真, 必须在这里截断成一次性事件
	if rules.Trigger(c.AlertType) == rules.TriggerEdge {
		if _, done := fired[c.DedupKey(session)]; done {
			return c, false
		}
	}

	if c.Direction != entity.DirectionBuy {
		return c, true
	}
	// 跳空回补是纯信息性信号, 不受冷却与市场状态门控
	if c.AlertType == rules.AlertGapFill {
		return c, true
	}

	if cooledDown {
		return c, false
	}

	switch reg {
	case regime.TrendingDown:
		return c, false
	case regime.Choppy:
		switch m.cfg.ChoppyPolicy {
		case ChoppySuppress:
			if c.Confidence != entity.ConfidenceHigh {
				return c, false
			}
		default: // demote
			if c.Confidence == entity.ConfidenceHigh {
				c.Confidence = entity.ConfidenceMedium
				c.Message += " | CHOPPY market, reduced confidence"
			}
		}
	}
	return c, true
}

func (m *AlertMonitor) toSignal(c rules.Candidate, session string, reg regime.Regime) entity.Signal {
	return entity.Signal{
		Symbol:      c.Symbol,
		AlertType:   c.AlertType,
		Direction:   c.Direction,
		SessionDate: session,
		Price:       c.Price,
		Entry:       c.Entry,
		Stop:        c.Stop,
		Target1:     c.Target1,
		Target2:     c.Target2,
		Confidence:  c.Confidence,
		Message:     c.Message,
		Regime:      string(reg),
		FiredAt:     m.now(),
	}
}

// afterRecord 信号落库后的副作用: BUY 建档追踪, 止损触发冷却
func (m *AlertMonitor) afterRecord(ctx context.Context, signal entity.Signal, session string, cooled map[string]struct{}) {
	if signal.Direction == entity.DirectionBuy && signal.Entry.Sign() > 0 && signal.Stop.Sign() > 0 {
		err := m.entryRepo.Create(ctx, entity.Entry{
			Symbol:      signal.Symbol,
			AlertType:   signal.AlertType,
			SessionDate: session,
			EntryPrice:  signal.Entry,
			StopPrice:   signal.Stop,
			Target1:     signal.Target1,
			Target2:     signal.Target2,
		})
		if err != nil {
			slog.Error("failed to create entry", "symbol", signal.Symbol, "error", err)
		}
	}

	if signal.AlertType == rules.AlertAutoStopOut {
		if err := m.entryRepo.CloseAll(ctx, signal.Symbol, session); err != nil {
			slog.Error("failed to close entries", "symbol", signal.Symbol, "error", err)
		}
		err := m.cooldownRepo.Save(ctx, signal.Symbol, m.cfg.CooldownDuration, signal.AlertType, session)
		if err != nil {
			slog.Error("failed to save cooldown", "symbol", signal.Symbol, "error", err)
			return
		}
		// 冷却立即对本轮后续标的生效
		cooled[signal.Symbol] = struct{}{}
	}
}
