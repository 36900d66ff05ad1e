package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradewatch/tradewatch/internal/entity"
	"github.com/tradewatch/tradewatch/internal/repo"
	"github.com/tradewatch/tradewatch/internal/service/market"
	"github.com/tradewatch/tradewatch/internal/service/rules"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeProvider struct {
	snapshots map[string]market.Snapshot
}

func (f *fakeProvider) GetSnapshot(ctx context.Context, symbol string) (market.Snapshot, error) {
	snap, ok := f.snapshots[symbol]
	if !ok {
		return market.Snapshot{}, fmt.Errorf("no snapshot for %s", symbol)
	}
	return snap, nil
}

type recordingNotifier struct {
	signals []entity.Signal
}

func (r *recordingNotifier) Notify(ctx context.Context, signal entity.Signal) error {
	r.signals = append(r.signals, signal)
	return nil
}

type fixture struct {
	svc      Service
	provider *fakeProvider
	notifier *recordingNotifier
	signals  repo.SignalRepo
	cooldown repo.CooldownRepo
	entries  repo.EntryRepo
	session  string
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.InitTables(db))

	f := &fixture{
		provider: &fakeProvider{snapshots: map[string]market.Snapshot{}},
		notifier: &recordingNotifier{},
		signals:  repo.NewSignalRepo(db),
		cooldown: repo.NewCooldownRepo(db),
		entries:  repo.NewEntryRepo(db),
		session:  entity.SessionDate(time.Now()),
	}
	f.svc = NewAlertMonitor(f.provider, f.signals, f.cooldown, f.entries, cfg,
		WithNotifier(f.notifier))
	return f
}

func newBar(high, low, close, volume string) market.Bar {
	return market.Bar{
		Open:   d(close),
		High:   d(high),
		Low:    d(low),
		Close:  d(close),
		Volume: d(volume),
	}
}

func uptrendIndex() market.IndexContext {
	return market.IndexContext{Close: d("106"), MA5: d("105"), MA20: d("100"), MA50: d("95")}
}

func downtrendIndex() market.IndexContext {
	return market.IndexContext{Close: d("94"), MA5: d("95"), MA20: d("100"), MA50: d("105")}
}

func choppyIndex() market.IndexContext {
	return market.IndexContext{Close: d("100.4"), MA5: d("100.2"), MA20: d("100.1"), MA50: d("100")}
}

// maBounceSnapshot 贴近20日均线后收回的单根K线快照
func maBounceSnapshot(low string, idx market.IndexContext) market.Snapshot {
	return market.Snapshot{
		Symbol:   "AAPL",
		Bars:     []market.Bar{newBar("270", low, "269.69", "1000")},
		PriorDay: market.PriorDay{MA20: d("269.5"), MA50: d("260")},
		Index:    idx,
	}
}

func TestAlertMonitor_ScanRecordsOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", uptrendIndex())
	ctx := context.Background()

	n, err := f.svc.Scan(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.signals, 1)
	assert.Equal(t, rules.AlertMABounce20, f.notifier.signals[0].AlertType)
	assert.Equal(t, "TRENDING_UP", f.notifier.signals[0].Regime)

	// BUY 信号建档追踪
	entries, err := f.entries.FindActive(ctx, "AAPL", f.session)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// 条件持续成立, 第二个 tick 不再通知
	n, err = f.svc.Scan(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, f.notifier.signals, 1)
}

func TestAlertMonitor_TrendingDownSuppressesBuys(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", downtrendIndex())

	n, err := f.svc.Scan(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, f.notifier.signals)
}

func TestAlertMonitor_GapFillBypassesGates(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	// 跳低回补是 BUY 方向, 但属于信息性信号, 不受趋势门控
	f.provider.snapshots["QQQ"] = market.Snapshot{
		Symbol: "QQQ",
		Bars: []market.Bar{
			newBar("99.8", "99.3", "99.6", "1000"),
			newBar("100.1", "99.5", "99.9", "1000"),
		},
		PriorDay: market.PriorDay{
			Close: d("100"),
			Gap:   market.GapInfo{Direction: market.GapDown, Pct: d("-0.005")},
		},
		Index: downtrendIndex(),
	}

	n, err := f.svc.Scan(context.Background(), []string{"QQQ"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.signals, 1)
	assert.Equal(t, rules.AlertGapFill, f.notifier.signals[0].AlertType)
}

func TestAlertMonitor_EdgeTriggerStaysClosed(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.provider.snapshots["QQQ"] = market.Snapshot{
		Symbol: "QQQ",
		Bars: []market.Bar{
			newBar("100.7", "99.9", "100.2", "1000"),
		},
		PriorDay: market.PriorDay{
			Close: d("100"),
			Gap:   market.GapInfo{Direction: market.GapUp, Pct: d("0.005")},
		},
		Index: uptrendIndex(),
	}
	ctx := context.Background()

	// 上一个进程已经记录过同一回补事件
	inserted, err := f.signals.RecordIfAbsent(ctx, entity.Signal{
		Symbol:      "QQQ",
		AlertType:   rules.AlertGapFill,
		Direction:   entity.DirectionSell,
		SessionDate: f.session,
		Price:       d("100.2"),
		FiredAt:     time.Now(),
	})
	require.NoError(t, err)
	require.True(t, inserted)

	n, err := f.svc.Scan(ctx, []string{"QQQ"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, f.notifier.signals)
}

func TestAlertMonitor_CooldownSuppressesBuys(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", uptrendIndex())
	ctx := context.Background()

	require.NoError(t, f.cooldown.Save(ctx, "AAPL", 30*time.Minute, "auto_stop_out", f.session))

	n, err := f.svc.Scan(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, f.notifier.signals)
}

func TestAlertMonitor_StopOutClosesEntriesAndCoolsDown(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, f.entries.Create(ctx, entity.Entry{
		Symbol:      "TSLA",
		AlertType:   rules.AlertMABounce20,
		SessionDate: f.session,
		EntryPrice:  d("200"),
		StopPrice:   d("198"),
		Target1:     d("202"),
		Target2:     d("204"),
	}))

	// 最新K线击穿止损
	f.provider.snapshots["TSLA"] = market.Snapshot{
		Symbol: "TSLA",
		Bars:   []market.Bar{newBar("199", "197.5", "197.8", "1000")},
		Index:  uptrendIndex(),
	}

	n, err := f.svc.Scan(ctx, []string{"TSLA"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.signals, 1)
	assert.Equal(t, rules.AlertAutoStopOut, f.notifier.signals[0].AlertType)
	assert.Equal(t, entity.DirectionSell, f.notifier.signals[0].Direction)

	active, err := f.entries.FindActive(ctx, "TSLA", f.session)
	require.NoError(t, err)
	assert.Empty(t, active)

	cooled, err := f.cooldown.IsCooledDown(ctx, "TSLA", f.session)
	require.NoError(t, err)
	assert.True(t, cooled)
}

func TestAlertMonitor_TargetHitKeepsEntryOpen(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, f.entries.Create(ctx, entity.Entry{
		Symbol:      "TSLA",
		AlertType:   rules.AlertMABounce20,
		SessionDate: f.session,
		EntryPrice:  d("200"),
		StopPrice:   d("198"),
		Target1:     d("202"),
		Target2:     d("204"),
	}))

	f.provider.snapshots["TSLA"] = market.Snapshot{
		Symbol: "TSLA",
		Bars:   []market.Bar{newBar("202.5", "201", "202.1", "1000")},
		Index:  uptrendIndex(),
	}

	n, err := f.svc.Scan(ctx, []string{"TSLA"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, f.notifier.signals, 1)
	assert.Equal(t, rules.AlertTarget1Hit, f.notifier.signals[0].AlertType)

	// 持仓继续追踪后续目标与止损
	active, err := f.entries.FindActive(ctx, "TSLA", f.session)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	cooled, err := f.cooldown.IsCooledDown(ctx, "TSLA", f.session)
	require.NoError(t, err)
	assert.False(t, cooled)
}

func TestAlertMonitor_ChoppyPolicy(t *testing.T) {
	t.Run("demote lowers high confidence", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		// 贴得足够近, 原始置信度是 high
		f.provider.snapshots["AAPL"] = maBounceSnapshot("269.3", choppyIndex())

		n, err := f.svc.Scan(context.Background(), []string{"AAPL"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		require.Len(t, f.notifier.signals, 1)
		assert.Equal(t, entity.ConfidenceMedium, f.notifier.signals[0].Confidence)
	})

	t.Run("suppress drops non high", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChoppyPolicy = ChoppySuppress
		f := newFixture(t, cfg)
		f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", choppyIndex())

		n, err := f.svc.Scan(context.Background(), []string{"AAPL"})
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Empty(t, f.notifier.signals)
	})
}

func TestAlertMonitor_DryRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DryRun = true
	f := newFixture(t, cfg)
	f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", uptrendIndex())
	ctx := context.Background()

	n, err := f.svc.Scan(ctx, []string{"AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, f.notifier.signals)

	fired, err := f.signals.FiredToday(ctx, f.session)
	require.NoError(t, err)
	assert.Empty(t, fired)
}

func TestAlertMonitor_ProviderFailureSkipsSymbol(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	f.provider.snapshots["AAPL"] = maBounceSnapshot("269.0", uptrendIndex())
	// MSFT 无快照, 失败后继续处理其余标的

	n, err := f.svc.Scan(context.Background(), []string{"MSFT", "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.notifier.signals, 1)
}
