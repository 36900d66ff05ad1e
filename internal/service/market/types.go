package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Bar 单根K线
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

type GapDirection string

const (
	GapUp   GapDirection = "gap_up"
	GapDown GapDirection = "gap_down"
	GapFlat GapDirection = "flat"
)

// GapInfo 开盘价相对前日收盘的跳空情况
type GapInfo struct {
	Direction GapDirection
	Pct       decimal.Decimal
}

// PriorDay 前一交易日统计
type PriorDay struct {
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
	MA20   decimal.Decimal
	MA50   decimal.Decimal
	// IsInside 前日整根K线被再前一日包含
	IsInside    bool
	ParentHigh  decimal.Decimal
	ParentLow   decimal.Decimal
	ParentRange decimal.Decimal
	Gap         GapInfo
}

// IndexContext 大盘指数均线结构, 用于市场状态判定
type IndexContext struct {
	Close decimal.Decimal
	MA5   decimal.Decimal
	MA20  decimal.Decimal
	MA50  decimal.Decimal
}

// TradePlanLevel 盘前扫描器给出的交易计划位, 只读输入
type TradePlanLevel struct {
	Symbol      string
	EntryPrice  decimal.Decimal
	StopPrice   decimal.Decimal
	TargetPrice decimal.Decimal
	CreatedDate string
}

// Snapshot 单标的单次轮询所需的全部市场数据
type Snapshot struct {
	Symbol     string
	Bars       []Bar
	PriorDay   PriorDay
	Index      IndexContext
	TradePlans []TradePlanLevel
}

func (s Snapshot) LastBar() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// SessionLow 当日最低价
func (s Snapshot) SessionLow() decimal.Decimal {
	if len(s.Bars) == 0 {
		return decimal.Zero
	}
	low := s.Bars[0].Low
	for _, b := range s.Bars[1:] {
		low = decimal.Min(low, b.Low)
	}
	return low
}

// AvgVolume 当日平均成交量
func (s Snapshot) AvgVolume() decimal.Decimal {
	if len(s.Bars) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, b := range s.Bars {
		sum = sum.Add(b.Volume)
	}
	return sum.Div(decimal.NewFromInt(int64(len(s.Bars))))
}

type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, symbol string) (Snapshot, error)
}

// TradePlanSource 提供当日有效的交易计划位
type TradePlanSource interface {
	ActivePlans(ctx context.Context, symbol string, sessionDate string) ([]TradePlanLevel, error)
}
