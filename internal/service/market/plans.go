package market

import (
	"context"

	"github.com/samber/lo"
)

var _ TradePlanSource = (*StaticPlanSource)(nil)

// StaticPlanSource 配置文件加载的计划位, 盘前写好盘中只读
type StaticPlanSource struct {
	plans []TradePlanLevel
}

func NewStaticPlanSource(plans []TradePlanLevel) *StaticPlanSource {
	return &StaticPlanSource{plans: plans}
}

func (s *StaticPlanSource) ActivePlans(ctx context.Context, symbol string, sessionDate string) ([]TradePlanLevel, error) {
	return lo.Filter(s.plans, func(item TradePlanLevel, index int) bool {
		if item.Symbol != symbol {
			return false
		}
		// 未标日期的计划位长期有效
		return item.CreatedDate == "" || item.CreatedDate == sessionDate
	}), nil
}
