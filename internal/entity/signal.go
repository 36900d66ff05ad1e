package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal 已触发的交易信号, 每个去重键一行, 落库后不可变
type Signal struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"uniqueIndex:dedup_idx;index"`
	AlertType   string `gorm:"uniqueIndex:dedup_idx"`
	Direction   string `gorm:"uniqueIndex:dedup_idx"`
	SessionDate string `gorm:"uniqueIndex:dedup_idx;index"`
	Price       decimal.Decimal
	Entry       decimal.Decimal
	Stop        decimal.Decimal
	Target1     decimal.Decimal
	Target2     decimal.Decimal
	Confidence  string
	Message     string
	Regime      string
	FiredAt     time.Time
	CreatedAt   time.Time
}

// DedupKey 信号唯一性边界: 同一交易日内 (标的, 规则类型, 方向) 至多触发一次
type DedupKey struct {
	Symbol      string
	AlertType   string
	Direction   string
	SessionDate string
}

func (s Signal) DedupKey() DedupKey {
	return DedupKey{
		Symbol:      s.Symbol,
		AlertType:   s.AlertType,
		Direction:   s.Direction,
		SessionDate: s.SessionDate,
	}
}

const (
	DirectionBuy   = "BUY"
	DirectionSell  = "SELL"
	DirectionShort = "SHORT"
)

const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// SessionDate 以交易日划分所有去重与冷却状态
func SessionDate(t time.Time) string {
	return t.Format("2006-01-02")
}
