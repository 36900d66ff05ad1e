package regime

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tradewatch/tradewatch/internal/service/market"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassify(t *testing.T) {
	tangle := d("0.003")

	testCases := []struct {
		name string
		idx  market.IndexContext
		want Regime
	}{
		{
			name: "clean uptrend",
			idx:  market.IndexContext{Close: d("106"), MA5: d("105"), MA20: d("100"), MA50: d("95")},
			want: TrendingUp,
		},
		{
			name: "clean downtrend",
			idx:  market.IndexContext{Close: d("94"), MA5: d("95"), MA20: d("100"), MA50: d("105")},
			want: TrendingDown,
		},
		{
			name: "pullback below ma5 above ma20",
			idx:  market.IndexContext{Close: d("104"), MA5: d("105"), MA20: d("100"), MA50: d("95")},
			want: Pullback,
		},
		{
			name: "tangled averages",
			idx:  market.IndexContext{Close: d("100.4"), MA5: d("100.2"), MA20: d("100.1"), MA50: d("100")},
			want: Choppy,
		},
		{
			// 收盘在均线下方但均线还是多头排列, 不算趋势性下跌
			name: "close below stacked averages",
			idx:  market.IndexContext{Close: d("94"), MA5: d("105"), MA20: d("100"), MA50: d("95")},
			want: Choppy,
		},
		{
			name: "missing inputs",
			idx:  market.IndexContext{Close: d("100")},
			want: Choppy,
		},
		{
			name: "zero close",
			idx:  market.IndexContext{MA5: d("105"), MA20: d("100"), MA50: d("95")},
			want: Choppy,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.idx, tangle))
		})
	}
}

func TestSeparated(t *testing.T) {
	tangle := d("0.003")

	assert.True(t, separated(d("105"), d("100"), tangle))
	assert.False(t, separated(d("100.1"), d("100"), tangle))
	// 顺序颠倒不算分离
	assert.False(t, separated(d("100"), d("105"), tangle))
	// 正好在阈值上不算分离
	assert.False(t, separated(d("100.3"), d("100"), tangle))
}
