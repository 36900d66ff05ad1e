package rules

import (
	"github.com/tradewatch/tradewatch/internal/service/market"
)

type checker func(market.Snapshot, Config) *Candidate

var checkers = []checker{
	CheckMABounce20,
	CheckMABounce50,
	CheckPriorDayLowReclaim,
	CheckOpeningRangeBreakout,
	CheckSessionLowDoubleBottom,
	CheckGapFill,
	CheckPlannedLevelTouch,
}

// Evaluate 对单个标的运行全部规则, 返回候选信号
// 纯函数: 相同输入必得相同输出, 冷却/去重等准入门控全部由 monitor 负责
func Evaluate(snap market.Snapshot, _ Context, cfg Config) []Candidate {
	if len(snap.Bars) == 0 {
		return nil
	}
	candidates := make([]Candidate, 0, len(checkers))
	for _, check := range checkers {
		if c := check(snap, cfg); c != nil {
			candidates = append(candidates, *c)
		}
	}
	return candidates
}
