package entity

import (
	"time"
)

// Cooldown 止损后的冷却窗口, 每个 (标的, 交易日) 一行
// Until 只会向后推移, 不会被缩短
type Cooldown struct {
	Id          int64  `gorm:"primaryKey;autoIncrement"`
	Symbol      string `gorm:"uniqueIndex:cooldown_idx"`
	SessionDate string `gorm:"uniqueIndex:cooldown_idx;index"`
	Until       time.Time
	Reason      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Cooldown) Active(now time.Time) bool {
	return now.Before(c.Until)
}
