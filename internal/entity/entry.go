package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry 已通知 BUY 信号对应的持仓档案, 用于追踪止损/止盈触发
type Entry struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"uniqueIndex:entry_idx;index"`
	AlertType   string `gorm:"uniqueIndex:entry_idx"`
	SessionDate string `gorm:"uniqueIndex:entry_idx;index"`
	EntryPrice  decimal.Decimal
	StopPrice   decimal.Decimal
	Target1     decimal.Decimal
	Target2     decimal.Decimal
	Status      string `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	EntryStatusActive  = "active"
	EntryStatusClosed  = "closed"
	EntryStatusStopped = "stopped"
)
