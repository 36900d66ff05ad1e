package rules

import (
	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

const (
	AlertMABounce20             = "ma_bounce_20"
	AlertMABounce50             = "ma_bounce_50"
	AlertPriorDayLowReclaim     = "prior_day_low_reclaim"
	AlertOpeningRangeBreakout   = "opening_range_breakout"
	AlertSessionLowDoubleBottom = "session_low_double_bottom"
	AlertGapFill                = "gap_fill"
	AlertPlannedLevelTouch      = "planned_level_touch"

	// 持仓退出事件, 由 monitor 基于持仓档案生成, 不属于规则评估器
	AlertTarget1Hit  = "target_1_hit"
	AlertTarget2Hit  = "target_2_hit"
	AlertAutoStopOut = "auto_stop_out"
)

type TriggerKind string

const (
	// TriggerEdge 条件一旦成立当日恒真, 必须依赖已触发集合转为一次性事件
	TriggerEdge TriggerKind = "edge"
	// TriggerPattern 多K线形态, 天然自限, 仍需去重兜底
	TriggerPattern TriggerKind = "pattern"
)

// Trigger 规则类型的触发分类, 决定准入阶段的预过滤策略
func Trigger(alertType string) TriggerKind {
	switch alertType {
	case AlertGapFill, AlertOpeningRangeBreakout:
		return TriggerEdge
	default:
		return TriggerPattern
	}
}

// Candidate 规则评估器产出的候选信号, 尚未通过准入
type Candidate struct {
	Symbol     string
	AlertType  string
	Direction  string
	Price      decimal.Decimal
	Entry      decimal.Decimal
	Stop       decimal.Decimal
	Target1    decimal.Decimal
	Target2    decimal.Decimal
	Confidence string
	Message    string
}

func (c Candidate) DedupKey(sessionDate string) entity.DedupKey {
	return entity.DedupKey{
		Symbol:      c.Symbol,
		AlertType:   c.AlertType,
		Direction:   c.Direction,
		SessionDate: sessionDate,
	}
}

// Context 准入状态只读上下文, 评估器可以参考但不得据此做一次性门控
type Context struct {
	FiredToday map[entity.DedupKey]struct{}
	CooledDown bool
}

type Config struct {
	MABounceProximity decimal.Decimal
	MAStopOffset      decimal.Decimal

	PDLDipMin decimal.Decimal

	ORBBars        int
	ORBMinRangePct decimal.Decimal
	ORBVolumeRatio decimal.Decimal

	SessionLowProximity         decimal.Decimal
	SessionLowMinAgeBars        int
	SessionLowMinRecoveryBars   int
	SessionLowRecoveryPct       decimal.Decimal
	SessionLowMaxRetestVolRatio decimal.Decimal
	SessionLowStopOffset        decimal.Decimal

	LevelTouchProximity decimal.Decimal

	MaxRiskPct decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		MABounceProximity: decimalx.MustFromString("0.003"),
		MAStopOffset:      decimalx.MustFromString("0.005"),

		PDLDipMin: decimalx.MustFromString("0.001"),

		ORBBars:        6, // 前30分钟的5分钟K线
		ORBMinRangePct: decimalx.MustFromString("0.003"),
		ORBVolumeRatio: decimalx.MustFromString("1.2"),

		SessionLowProximity:         decimalx.MustFromString("0.002"),
		SessionLowMinAgeBars:        5,
		SessionLowMinRecoveryBars:   3,
		SessionLowRecoveryPct:       decimalx.MustFromString("0.003"),
		SessionLowMaxRetestVolRatio: decimalx.MustFromString("1.5"),
		SessionLowStopOffset:        decimalx.MustFromString("0.003"),

		LevelTouchProximity: decimalx.MustFromString("0.002"),

		MaxRiskPct: decimalx.MustFromString("0.01"),
	}
}

// capRisk 风险超过上限时收紧止损
func capRisk(entry, stop, maxRiskPct decimal.Decimal) decimal.Decimal {
	if entry.Sign() <= 0 || stop.Sign() <= 0 {
		return stop
	}
	maxRisk := entry.Mul(maxRiskPct)
	if entry.Sub(stop).GreaterThan(maxRisk) {
		return entry.Sub(maxRisk).Round(2)
	}
	return stop
}
