package regime

import (
	"github.com/shopspring/decimal"
	"github.com/tradewatch/tradewatch/internal/service/market"
)

// Regime 大盘指数均线结构分类, 每次轮询重新计算, 不落库
type Regime string

const (
	TrendingUp   Regime = "TRENDING_UP"
	Pullback     Regime = "PULLBACK"
	Choppy       Regime = "CHOPPY"
	TrendingDown Regime = "TRENDING_DOWN"
)

// Classify 按固定优先级判定市场状态, tangle 为均线缠绕阈值
//
//  1. TRENDING_DOWN: 收盘低于三条均线且均线完全反向排列 (间距超过阈值)
//  2. TRENDING_UP:   MA5 > MA20 > MA50 且两两间距超过阈值, 收盘在 MA5 上方
//  3. PULLBACK:      收盘跌破 MA5 但仍在 MA20 与 MA50 上方
//  4. CHOPPY:        兜底: 均线缠绕或排列混乱
//
// 缺失或非法的均线输入一律返回 CHOPPY (最保守的准入策略)
func Classify(idx market.IndexContext, tangle decimal.Decimal) Regime {
	if idx.Close.Sign() <= 0 || idx.MA5.Sign() <= 0 || idx.MA20.Sign() <= 0 || idx.MA50.Sign() <= 0 {
		return Choppy
	}

	belowAll := idx.Close.LessThan(idx.MA5) && idx.Close.LessThan(idx.MA20) && idx.Close.LessThan(idx.MA50)
	if belowAll && separated(idx.MA50, idx.MA20, tangle) && separated(idx.MA20, idx.MA5, tangle) {
		return TrendingDown
	}

	if separated(idx.MA5, idx.MA20, tangle) && separated(idx.MA20, idx.MA50, tangle) &&
		idx.Close.GreaterThan(idx.MA5) {
		return TrendingUp
	}

	if idx.Close.LessThan(idx.MA5) && idx.Close.GreaterThan(idx.MA20) && idx.Close.GreaterThan(idx.MA50) {
		return Pullback
	}

	return Choppy
}

// separated a 高于 b 且相对间距超过缠绕阈值
func separated(a, b, tangle decimal.Decimal) bool {
	if !a.GreaterThan(b) {
		return false
	}
	return a.Sub(b).Div(b).GreaterThan(tangle)
}
