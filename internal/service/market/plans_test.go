package market

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPlanSource(t *testing.T) {
	src := NewStaticPlanSource([]TradePlanLevel{
		{Symbol: "AAPL", EntryPrice: decimal.NewFromInt(100), CreatedDate: "2025-01-15"},
		{Symbol: "AAPL", EntryPrice: decimal.NewFromInt(98), CreatedDate: "2025-01-14"},
		{Symbol: "AAPL", EntryPrice: decimal.NewFromInt(95)}, // 长期有效
		{Symbol: "TSLA", EntryPrice: decimal.NewFromInt(200), CreatedDate: "2025-01-15"},
	})
	ctx := context.Background()

	plans, err := src.ActivePlans(ctx, "AAPL", "2025-01-15")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.True(t, plans[0].EntryPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, plans[1].EntryPrice.Equal(decimal.NewFromInt(95)))

	plans, err = src.ActivePlans(ctx, "NVDA", "2025-01-15")
	require.NoError(t, err)
	assert.Empty(t, plans)
}
