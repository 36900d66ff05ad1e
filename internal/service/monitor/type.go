package monitor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/service/rules"
	"github.com/tradewatch/tradewatch/pkg/decimalx"
)

type Service interface {
	// Scan 执行一次轮询: 取快照, 判定市场状态, 评估规则, 准入过滤, 落库并通知
	// 返回本次新记录的信号数量
	Scan(ctx context.Context, symbols []string) (int, error)
}

// ChoppyPolicy CHOPPY 状态下对次级置信度 BUY 候选的处理策略
const (
	ChoppySuppress = "suppress"
	ChoppyDemote   = "demote"
)

type Config struct {
	CooldownDuration time.Duration
	ChoppyPolicy     string
	TangleThreshold  decimal.Decimal
	Rules            rules.Config
	// DryRun 只评估打日志, 不落库不通知
	DryRun bool
}

func DefaultConfig() Config {
	return Config{
		CooldownDuration: 30 * time.Minute,
		ChoppyPolicy:     ChoppyDemote,
		TangleThreshold:  decimalx.MustFromString("0.003"),
		Rules:            rules.DefaultConfig(),
	}
}
